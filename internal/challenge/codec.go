package challenge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the serialization of a persisted catalog.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor infers the format from a file or object name; anything but .yaml/.yml is JSON.
func FormatFor(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode serializes doc in the requested format. JSON output is indented by two spaces.
func Encode(doc Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}

// Parse decodes and validates a persisted catalog.
func Parse(data []byte, format Format) (*Catalog, error) {
	raw, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: malformed document: %v", ErrInvalidCatalog, err)
	}
	if err := validateShape(value); err != nil {
		return nil, err
	}

	doc, err := decodeDocument(value)
	if err != nil {
		return nil, err
	}
	return NewCatalog(doc)
}

// decodeDocument converts a schema-checked value into a Document. Points arrive as
// json.Number so integral floats such as 10.0 are accepted.
func decodeDocument(value any) (Document, error) {
	top, _ := value.(map[string]any)
	doc := make(Document, len(top))
	for mood, rawList := range top {
		items, _ := rawList.([]any)
		list := make([]Challenge, 0, len(items))
		for i, rawItem := range items {
			item, _ := rawItem.(map[string]any)
			points, err := integralPoints(item["points"])
			if err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: points %v", ErrInvalidCatalog, mood, i, err)
			}
			list = append(list, Challenge{
				ID:          stringField(item["id"]),
				Title:       stringField(item["title"]),
				Description: stringField(item["description"]),
				Points:      points,
				Solution:    stringField(item["solution"]),
			})
		}
		doc[Mood(mood)] = list
	}
	return doc, nil
}

func integralPoints(v any) (int, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("must be a number")
	}
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("must be a whole number, got %s", n)
	}
	return int(f), nil
}

func stringField(v any) string {
	s, _ := v.(string)
	return s
}

// toJSON normalizes YAML input to JSON so both formats share one validation path.
func toJSON(data []byte, format Format) ([]byte, error) {
	if format != FormatYAML {
		return data, nil
	}
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: malformed yaml: %v", ErrInvalidCatalog, err)
	}
	if value == nil {
		value = map[string]any{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return raw, nil
}
