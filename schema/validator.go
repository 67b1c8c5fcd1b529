package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed raw_project.schema.json
var rawProjectSchemaJSON string

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateRawProject checks a crawled project payload against the raw
// project schema and returns it decoded as the loose map shape the cleaner
// consumes.
func ValidateRawProject(payload json.RawMessage) (map[string]any, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	compiled, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := compiled.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	record, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("payload is not a JSON object")
	}
	return record, nil
}

// ValidateRawProjects validates a JSON array of project payloads. The index
// of the first failing element is part of the error.
func ValidateRawProjects(payload json.RawMessage) ([]map[string]any, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(payload, &elements); err != nil {
		return nil, fmt.Errorf("decode payload array: %w", err)
	}

	records := make([]map[string]any, 0, len(elements))
	for i, element := range elements {
		record, err := ValidateRawProject(element)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("raw_project.schema.json", strings.NewReader(rawProjectSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		compiled, err := compiler.Compile("raw_project.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = compiled
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(payload json.RawMessage) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return coerceNumbers(value), nil
}

// coerceNumbers rewrites json.Number values into int or float64 so the
// cleaner's numeric coercion sees plain Go scalars.
func coerceNumbers(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, elem := range v {
			v[key] = coerceNumbers(elem)
		}
		return v
	case []any:
		for i, elem := range v {
			v[i] = coerceNumbers(elem)
		}
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return value
	}
}
