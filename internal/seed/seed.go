// Package seed loads the demo campaign into an empty store.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Noty-chan/aether-journal/internal/models"
	"github.com/Noty-chan/aether-journal/internal/utils"
)

// Importer replaces the whole campaign store.
type Importer interface {
	ImportData(raw []byte) error
}

// ReadFile returns the store document at path as JSON. Files ending in
// .yaml or .yml are converted; anything else is read as JSON.
func ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlToJSON(content)
	default:
		return content, nil
	}
}

func yamlToJSON(content []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	out, err := json.Marshal(stringKeys(doc))
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return out, nil
}

// stringKeys rewrites maps with non-string keys, which yaml produces for
// numeric keys, into JSON-encodable ones.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = stringKeys(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = stringKeys(item)
		}
		return t
	default:
		return v
	}
}

// LoadIfEmpty imports the demo at path when state holds no authored
// content. It reports whether an import happened; a missing demo file is
// not an error.
func LoadIfEmpty(imp Importer, state *models.CampaignState, path string) (bool, error) {
	logger := utils.GetLogger()
	if state != nil && !state.IsEmpty() {
		return false, nil
	}
	content, err := ReadFile(path)
	if os.IsNotExist(err) {
		logger.Warn("Demo campaign not found", map[string]interface{}{"path": path})
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read demo campaign: %w", err)
	}
	if err := imp.ImportData(content); err != nil {
		return false, fmt.Errorf("import demo campaign: %w", err)
	}
	logger.Info("Demo campaign loaded", map[string]interface{}{"path": path})
	return true, nil
}
