package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchemaID = "http://example.com/schema.json"

func testSchema() map[string]any {
	return map[string]any{
		"$id":  testSchemaID,
		"type": "object",
		"properties": map[string]any{
			"foo": map[string]any{"type": "string"},
			"n":   map[string]any{"type": "integer"},
		},
		"required":             []any{"foo"},
		"additionalProperties": false,
	}
}

func TestCompiler_Compile(t *testing.T) {
	t.Parallel()

	t.Run("successful compile", func(t *testing.T) {
		t.Parallel()
		c := NewCompiler()
		require.NoError(t, c.AddSchema(testSchemaID, testSchema()))
		v, err := c.Compile(testSchemaID)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("compile missing schema", func(t *testing.T) {
		t.Parallel()
		c := NewCompiler()
		v, err := c.Compile("http://example.com/missing.json")
		require.Error(t, err)
		assert.Nil(t, v)
	})

	t.Run("compile invalid schema", func(t *testing.T) {
		t.Parallel()
		c := NewCompiler()
		id := "http://example.com/invalid.json"
		_ = c.AddSchema(id, map[string]any{"type": 123})
		v, err := c.Compile(id)
		require.Error(t, err)
		assert.Nil(t, v)
	})
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	c := NewCompiler()
	require.NoError(t, c.AddSchema(testSchemaID, testSchema()))
	v, err := c.Compile(testSchemaID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{name: "valid document", yaml: "foo: bar\nn: 3\n"},
		{name: "wrong type", yaml: "foo: 123\n", wantErr: true},
		{name: "missing required field", yaml: "n: 1\n", wantErr: true},
		{name: "unknown property", yaml: "foo: bar\nbar: baz\n", wantErr: true},
		{name: "non-integer number", yaml: "foo: bar\nn: 1.5\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc, err := DecodeYAML([]byte(tt.yaml))
			require.NoError(t, err)
			err = v.Validate(doc)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	t.Run("numbers become json.Number", func(t *testing.T) {
		t.Parallel()
		doc, err := DecodeYAML([]byte("n: 3\nlist: [a, b]\n"))
		require.NoError(t, err)
		m, ok := doc.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, json.Number("3"), m["n"])
		assert.Equal(t, []any{"a", "b"}, m["list"])
	})

	t.Run("empty document is an empty object", func(t *testing.T) {
		t.Parallel()
		doc, err := DecodeYAML([]byte("# only a comment\n"))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, doc)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeYAML([]byte("invalid: yaml: :"))
		require.Error(t, err)
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()
	doc, err := DecodeJSON([]byte(`{"foo": "bar", "n": 2}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"foo": "bar", "n": json.Number("2")}, doc)

	_, err = DecodeJSON([]byte(`{`))
	require.Error(t, err)
}
