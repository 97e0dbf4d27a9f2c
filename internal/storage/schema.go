package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "crtodo-tasks.schema.json"

// tasksSchema describes the database file: an array of tasks carrying
// exactly the Description, Priority and Done fields.
const tasksSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "Description": {"type": "string"},
      "Priority": {"type": "integer"},
      "Done": {"type": "boolean"}
    },
    "required": ["Description", "Priority", "Done"],
    "additionalProperties": false
  }
}`

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(tasksSchema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validateShape checks raw database content against the task schema.
func validateShape(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse database: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return &shapeError{cause: err}
	}
	return nil
}

// shapeError flattens a schema validation failure into its leaf messages.
type shapeError struct {
	cause error
}

func (e *shapeError) Error() string {
	ve, ok := e.cause.(*jsonschema.ValidationError) //nolint:errorlint // Validate returns the concrete type
	if !ok {
		return "unexpected database shape: " + e.cause.Error()
	}
	var msgs []string
	collectLeaves(ve, &msgs)
	return "unexpected database shape: " + strings.Join(msgs, "; ")
}

func (e *shapeError) Unwrap() error {
	return e.cause
}

func collectLeaves(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, msgs)
	}
}
