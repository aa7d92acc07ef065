// Package parser reads recipe YAML documents from the corpus directory.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/larder/internal/models"
)

// Parse decodes a recipe document. path is used to derive an id when the
// document does not carry one explicitly (the file stem, e.g.
// "sauces/pickle-brine.yaml" -> "pickle-brine").
func Parse(path string, data []byte) (*models.Recipe, error) {
	var r models.Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parser: %s: %w", path, err)
	}
	if r.ID == "" {
		r.ID = stem(path)
	}
	if r.ID == "" {
		return nil, fmt.Errorf("parser: %s: recipe has no id", path)
	}
	if r.Title == "" {
		return nil, fmt.Errorf("parser: %s: recipe has no title", path)
	}
	return &r, nil
}

// Encode renders a recipe back to its YAML document form.
func Encode(r *models.Recipe) ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("parser: encode %s: %w", r.ID, err)
	}
	return data, nil
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
