package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"conceptlab/internal/model"
	"conceptlab/internal/panel"

	"gopkg.in/yaml.v3"
)

// readDocument returns the file as JSON. YAML files are converted so both
// formats decode through the same json tags.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return json.Marshal(doc)
	}
	return data, nil
}

// readList decodes a file holding either one record or an array of them
func readList[T any](path string) ([]T, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return items, nil
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return []T{item}, nil
}

func readConcepts(path string) ([]model.Concept, error) {
	return readList[model.Concept](path)
}

func readPersonas(path string) ([]model.Persona, error) {
	return readList[model.Persona](path)
}

// readConcept loads exactly one concept
func readConcept(path string) (*model.Concept, error) {
	concepts, err := readConcepts(path)
	if err != nil {
		return nil, err
	}
	if len(concepts) != 1 {
		return nil, fmt.Errorf("%s: expected one concept, found %d", path, len(concepts))
	}
	c := concepts[0]
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// loadPanel reads personas from a file or generates a synthetic panel
func loadPanel(path string, synthetic int, seed int64) ([]model.Persona, error) {
	switch {
	case path != "" && synthetic > 0:
		return nil, fmt.Errorf("use either --personas or --synthetic")
	case path != "":
		return readPersonas(path)
	case synthetic > 0:
		return panel.NewGenerator(seed).Personas(synthetic), nil
	}
	return nil, fmt.Errorf("a persona panel is required (--personas or --synthetic)")
}
