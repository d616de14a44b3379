package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fablesmith/scene-engine/pkg/world"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <world.json|world.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &WorldValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("World file is valid!")
}

type WorldValidator struct {
	errors []string
}

func (v *WorldValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	ext := filepath.Ext(baseName)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("world file must have .json, .yaml or .yml extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ext)
	if !isValidWorldFilename(nameWithoutExt) {
		return fmt.Errorf("world filename '%s' must be lowercase snake_case (e.g., my_world.json, not my-world.json or MyWorld.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	var w world.World
	if ext == ".json" {
		if !json.Valid(data) {
			return fmt.Errorf("file %s contains invalid JSON", filename)
		}
		decoder := json.NewDecoder(strings.NewReader(string(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&w); err != nil {
			return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
		}
	} else {
		decoder := yaml.NewDecoder(strings.NewReader(string(data)))
		decoder.KnownFields(true)
		if err := decoder.Decode(&w); err != nil {
			return fmt.Errorf("file %s failed strict YAML unmarshaling: %w", filename, err)
		}
	}

	if w.ID == "" {
		w.ID = nameWithoutExt
	}
	w.Normalize()

	if err := w.Validate(); err != nil {
		v.addError(err.Error())
	}
	v.validateWorld(&w)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *WorldValidator) validateWorld(w *world.World) {
	v.validateIDFormat("start_location", w.Player.StartLocation)

	for locationID, loc := range w.Locations {
		v.validateIDFormat("location ID", locationID)
		v.validateLocation(loc, locationID)
	}

	for itemID, item := range w.Items {
		v.validateIDFormat("item ID", itemID)
		if item.Name == "" {
			v.addError(fmt.Sprintf("item '%s' has no name", itemID))
		}
	}

	for npcID, npc := range w.NPCs {
		v.validateIDFormat("NPC ID", npcID)
		if npc.Name == "" {
			v.addError(fmt.Sprintf("NPC '%s' has no name", npcID))
		}
		for _, locID := range npc.Locations {
			if _, ok := w.Locations[locID]; !ok {
				v.addError(fmt.Sprintf("NPC '%s' references undefined location '%s'", npcID, locID))
			}
		}
	}
}

func (v *WorldValidator) validateLocation(loc *world.Location, locationID string) {
	if loc.Name == "" {
		v.addError(fmt.Sprintf("location '%s' has no name", locationID))
	}
	for dir := range loc.Exits {
		v.validateDirection(locationID, dir)
	}
	for dir := range loc.ExitReveals {
		v.validateDirection(locationID, dir)
	}
	for _, detail := range loc.Details {
		if detail.Text == "" {
			v.addError(fmt.Sprintf("location '%s' has a detail with no text", locationID))
		}
	}
}

func (v *WorldValidator) validateDirection(locationID, dir string) {
	if !isValidID(dir) {
		v.addError(fmt.Sprintf("location '%s' exit direction '%s' should be lowercase snake_case", locationID, dir))
	}
}

func (v *WorldValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}
	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *WorldValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var (
	validIDRegex       = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
	validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

func isValidWorldFilename(name string) bool {
	// Allow 'x.' prefix for experimental worlds
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
