package services

import (
	"context"

	"github.com/fablesmith/scene-engine/pkg/chat"
)

// LLMService is the interface for text-generation backends used by the
// narrator. This is the sole asynchronous boundary in the engine; all
// calls are expected to be I/O-bound requests to a remote service.
type LLMService interface {
	// InitModel prepares the model on startup.
	InitModel(ctx context.Context, modelName string) error

	// Chat generates a completion for the given messages.
	Chat(ctx context.Context, messages []chat.Message) (*chat.Response, error)
}
