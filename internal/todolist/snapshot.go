package todolist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/todolist/internal/model"
)

const snapshotSchemaURL = "todolist://snapshot.schema.json"

const snapshotSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text", "completed"],
    "properties": {
      "text": {"type": "string"},
      "completed": {"type": "boolean"}
    }
  }
}`

var snapshotValidator = jsonschema.MustCompileString(snapshotSchemaURL, snapshotSchema)

// Encode serializes items as a compact JSON array. HTML characters are left
// unescaped so the output matches what a browser's JSON.stringify writes.
func Encode(items []model.Item) (string, error) {
	if items == nil {
		items = []model.Item{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return unescapeLineSeparators(strings.TrimSuffix(buf.String(), "\n")), nil
}

// unescapeLineSeparators undoes encoding/json's \u2028 and \u2029 escapes,
// which JSON.stringify leaves as raw characters.
func unescapeLineSeparators(s string) string {
	if !strings.Contains(s, `\u202`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch rest := s[i+1:]; {
		case strings.HasPrefix(rest, "u2028"):
			b.WriteRune('\u2028')
			i += 5
		case strings.HasPrefix(rest, "u2029"):
			b.WriteRune('\u2029')
			i += 5
		default:
			// copy the whole pair; `\\u2028` is a backslash then text
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			i++
		}
	}
	return b.String()
}

// Decode parses a snapshot, rejecting anything that is not an array of
// {text: string, completed: bool} records.
func Decode(s string) ([]model.Item, error) {
	var raw interface{}
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := snapshotValidator.Validate(raw); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	items := []model.Item{}
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return items, nil
}
