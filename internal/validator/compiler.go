// Package validator checks decoded documents against JSON Schemas.
package validator

// A Document is a decoded document in the JSON data model, as produced by
// DecodeJSON or DecodeYAML.
type Document any

// Validator validates a Document.
type Validator interface {
	Validate(doc Document) error
}

// Compiler turns registered schemas into Validators. A schema must be added
// before it, or any schema that references it, is compiled.
type Compiler interface {
	// AddSchema registers a schema under id.
	AddSchema(id string, schema Document) error

	// Compile creates a Validator from the schema previously added with the given id.
	Compile(id string) (Validator, error)
}
