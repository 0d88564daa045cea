package storage

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Noty-chan/aether-journal/internal/models"
)

// CurrentSchemaVersion is the store layout written by this build.
const CurrentSchemaVersion = 1

// storeSchemaJSON describes the shape a store document must have before it
// is decoded into typed models. It checks containers, not contents: enum
// values and unknown fields are repaired by the model decoders instead.
const storeSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["snapshot"],
  "properties": {
    "schema_version": {"type": "integer", "minimum": 0},
    "last_seq": {"type": "integer", "minimum": 0},
    "recovery_reason": {"type": "string"},
    "events": {"type": "array"},
    "snapshot": {
      "type": "object",
      "required": ["character"],
      "properties": {
        "id": {"type": "string"},
        "character": {
          "type": "object",
          "properties": {
            "id": {"type": "string"},
            "name": {"type": "string"},
            "class_id": {"type": "string"},
            "level": {"type": "integer", "minimum": 1},
            "xp": {"type": "integer", "minimum": 0},
            "unspent_stat_points": {"type": "integer", "minimum": 0},
            "stats": {"$ref": "#/definitions/intMap"},
            "currencies": {"$ref": "#/definitions/intMap"},
            "reputations": {"$ref": "#/definitions/intMap"},
            "resources": {
              "type": "object",
              "additionalProperties": {
                "type": "array",
                "items": {"type": "integer"},
                "minItems": 2,
                "maxItems": 2
              }
            },
            "equipment": {"type": "object"},
            "inventory": {"$ref": "#/definitions/objectMap"},
            "abilities": {"$ref": "#/definitions/objectMap"},
            "frozen": {"type": "boolean"}
          }
        },
        "classes": {"$ref": "#/definitions/objectMap"},
        "item_templates": {"$ref": "#/definitions/objectMap"},
        "quest_templates": {"$ref": "#/definitions/objectMap"},
        "message_templates": {"$ref": "#/definitions/objectMap"},
        "ability_categories": {"$ref": "#/definitions/objectMap"},
        "abilities": {"$ref": "#/definitions/objectMap"},
        "chats": {"$ref": "#/definitions/objectMap"},
        "contacts": {"$ref": "#/definitions/objectMap"},
        "friend_requests": {"$ref": "#/definitions/objectMap"},
        "active_quests": {"type": "array", "items": {"type": "object"}},
        "system_messages": {"type": "array", "items": {"type": "object"}},
        "settings": {"type": "object"}
      }
    }
  },
  "definitions": {
    "intMap": {"type": "object", "additionalProperties": {"type": "integer"}},
    "objectMap": {"type": "object", "additionalProperties": {"type": "object"}}
  }
}`

var storeSchema = jsonschema.MustCompileString("store.schema.json", storeSchemaJSON)

// validateStore checks a generic document decoded with UseNumber.
func validateStore(doc map[string]any) error {
	return storeSchema.Validate(doc)
}

// ensureSchema coerces the bookkeeping fields and migrates older layouts in
// place. It reports whether doc changed.
func ensureSchema(doc map[string]any) bool {
	changed := false
	version := toInt(doc["schema_version"])
	if version < 1 {
		if snapshot, ok := doc["snapshot"].(map[string]any); ok {
			settings, ok := snapshot["settings"].(map[string]any)
			if !ok {
				settings = map[string]any{}
				snapshot["settings"] = settings
			}
			if _, ok := settings["sheet_sections"]; !ok {
				sections := make([]any, 0, 4)
				for _, s := range models.DefaultSheetSections() {
					sections = append(sections, map[string]any{
						"key":     s.Key,
						"title":   s.Title,
						"visible": s.Visible,
						"order":   json.Number(strconv.Itoa(s.Order)),
					})
				}
				settings["sheet_sections"] = sections
			}
		}
		changed = true
	}

	if _, ok := doc["events"].([]any); !ok {
		doc["events"] = []any{}
		changed = true
	}
	lastSeq := toInt(doc["last_seq"])
	if n, ok := doc["last_seq"].(json.Number); !ok || n.String() != strconv.Itoa(lastSeq) {
		changed = true
	}
	doc["last_seq"] = json.Number(strconv.Itoa(lastSeq))
	if version != CurrentSchemaVersion {
		changed = true
	}
	doc["schema_version"] = json.Number(strconv.Itoa(CurrentSchemaVersion))
	return changed
}

// toInt reads loosely typed counters; anything unreadable is zero.
func toInt(v any) int {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return 0
}
