package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fablesmith/scene-engine/pkg/world"
)

// World definition files live on the filesystem as JSON or YAML, keyed
// by file basename. Every loaded world is validated before use.

// ListWorlds returns a map of world names to world ids.
func (r *RedisStorage) ListWorlds(ctx context.Context) (map[string]string, error) {
	entries, err := os.ReadDir(r.worldsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read worlds directory: %w", err)
	}

	worlds := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		w, err := r.GetWorld(ctx, id)
		if err != nil {
			r.logger.Warn("Skipping invalid world file", "file", entry.Name(), "error", err)
			continue
		}
		worlds[w.Name] = id
	}
	return worlds, nil
}

// GetWorld loads and validates a world by id, trying .json then .yaml
// then .yml extensions.
func (r *RedisStorage) GetWorld(ctx context.Context, id string) (*world.World, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(r.worldsPath, id+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read world file %s: %w", path, err)
		}
		return parseWorld(data, ext, id)
	}
	return nil, fmt.Errorf("world %q not found in %s", id, r.worldsPath)
}

func parseWorld(data []byte, ext, id string) (*world.World, error) {
	var w world.World
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("failed to parse world %q: %w", id, err)
		}
	default:
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("failed to parse world %q: %w", id, err)
		}
	}
	if w.ID == "" {
		w.ID = id
	}
	w.Normalize()
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("world %q failed validation: %w", id, err)
	}
	return &w, nil
}
