package challenge

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const catalogSchemaURL = "https://codequest.local/schemas/catalog.schema.json"

const catalogSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "CodeQuest challenge catalog",
  "type": "object",
  "propertyNames": {"enum": ["happy", "tired", "excited", "sad"]},
  "additionalProperties": {
    "type": "array",
    "items": {
      "type": "object",
      "required": ["id", "title", "description", "points"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "title": {"type": "string", "minLength": 1},
        "description": {"type": "string"},
        "points": {"type": "integer", "minimum": 0},
        "solution": {"type": "string"}
      }
    }
  }
}`

var catalogSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(catalogSchemaURL, strings.NewReader(catalogSchemaJSON)); err != nil {
		return nil, fmt.Errorf("catalog schema load failed: %w", err)
	}
	return c.Compile(catalogSchemaURL)
})

// validateShape checks a decoded JSON value against the catalog schema.
func validateShape(v any) error {
	schema, err := catalogSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return nil
}
