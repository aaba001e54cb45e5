package validator

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// DecodeJSON decodes data into a Document. Numbers are kept as json.Number.
func DecodeJSON(data []byte) (Document, error) {
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// DecodeYAML decodes a YAML document into the JSON data model so that it can
// be validated. An empty document decodes to an empty object.
func DecodeYAML(data []byte) (Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	j, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(j)
}
