package diagram

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/landscape/pkg/landscape"
)

// pairSchema accepts an array whose items are [birth, death],
// [dim, birth, death] or {"birth", "death", "dimension"} objects.
// A null death stands for an essential (infinite) class.
const pairSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "oneOf": [
      {
        "type": "array",
        "minItems": 2,
        "maxItems": 3,
        "items": {"type": ["number", "null"]}
      },
      {
        "type": "object",
        "required": ["birth", "death"],
        "properties": {
          "birth": {"type": "number"},
          "death": {"type": ["number", "null"]},
          "dimension": {"type": "integer", "minimum": 0}
        }
      }
    ]
  }
}`

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(pairSchema))
})

// parseJSON validates data against pairSchema before converting it.
func parseJSON(data []byte, dimension int) ([]landscape.Pair, error) {
	var doc any

	unmarshalErr := json.Unmarshal(data, &doc)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("decode json: %w", unmarshalErr)
	}

	schema, schemaErr := compiledSchema()
	if schemaErr != nil {
		return nil, fmt.Errorf("load pair schema: %w", schemaErr)
	}

	result, validateErr := schema.Validate(gojsonschema.NewGoLoader(doc))
	if validateErr != nil {
		return nil, fmt.Errorf("validate json: %w", validateErr)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
	}

	return convertItems(doc, dimension)
}

// parseYAML accepts the same shapes as JSON; .inf and .nan are allowed.
func parseYAML(data []byte, dimension int) ([]landscape.Pair, error) {
	var doc any

	unmarshalErr := yaml.Unmarshal(data, &doc)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("decode yaml: %w", unmarshalErr)
	}

	if doc == nil {
		return nil, nil
	}

	return convertItems(doc, dimension)
}

// convertItems turns a decoded document into pairs. Item numbers are 1-based
// and reported as the ParseError line.
func convertItems(doc any, dimension int) ([]landscape.Pair, error) {
	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be a list, got %T", ErrSchema, doc)
	}

	pairs := make([]landscape.Pair, 0, len(items))

	for i, item := range items {
		pair, dim, err := convertItem(item)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Err: err}
		}

		if keep(dimension, dim) {
			pairs = append(pairs, pair)
		}
	}

	return pairs, nil
}

func convertItem(item any) (landscape.Pair, int, error) {
	switch v := item.(type) {
	case []any:
		return convertList(v)
	case map[string]any:
		return convertMap(v)
	default:
		return landscape.Pair{}, 0, fmt.Errorf("%w: unexpected %T", ErrMalformedPair, item)
	}
}

func convertList(values []any) (landscape.Pair, int, error) {
	dim := -1

	switch len(values) {
	case fieldsPair:
	case fieldsDimPair:
		d, err := toDimension(values[0])
		if err != nil {
			return landscape.Pair{}, 0, err
		}

		dim = d
		values = values[1:]
	default:
		return landscape.Pair{}, 0, fmt.Errorf("%w: want 2 or 3 values, got %d", ErrMalformedPair, len(values))
	}

	birth, err := toCoord(values[0], false)
	if err != nil {
		return landscape.Pair{}, 0, err
	}

	death, err := toCoord(values[1], true)
	if err != nil {
		return landscape.Pair{}, 0, err
	}

	return landscape.Pair{Birth: birth, Death: death}, dim, nil
}

func convertMap(values map[string]any) (landscape.Pair, int, error) {
	rawBirth, hasBirth := values["birth"]
	rawDeath, hasDeath := values["death"]

	if !hasBirth || !hasDeath {
		return landscape.Pair{}, 0, fmt.Errorf("%w: birth and death are required", ErrMalformedPair)
	}

	dim := -1

	if rawDim, ok := values["dimension"]; ok {
		d, err := toDimension(rawDim)
		if err != nil {
			return landscape.Pair{}, 0, err
		}

		dim = d
	}

	birth, err := toCoord(rawBirth, false)
	if err != nil {
		return landscape.Pair{}, 0, err
	}

	death, err := toCoord(rawDeath, true)
	if err != nil {
		return landscape.Pair{}, 0, err
	}

	return landscape.Pair{Birth: birth, Death: death}, dim, nil
}

// toCoord converts a decoded number. A null death means +Inf.
func toCoord(v any, nullIsInf bool) (float32, error) {
	switch n := v.(type) {
	case float64:
		return float32(n), nil
	case int:
		return float32(n), nil
	case nil:
		if nullIsInf {
			return float32(math.Inf(1)), nil
		}
	}

	return 0, fmt.Errorf("%w: coordinate %v", ErrMalformedPair, v)
}

func toDimension(v any) (int, error) {
	switch n := v.(type) {
	case int:
		if n >= 0 {
			return n, nil
		}
	case float64:
		if n >= 0 && n == math.Trunc(n) {
			return int(n), nil
		}
	}

	return 0, fmt.Errorf("%w: dimension %v", ErrMalformedPair, v)
}
