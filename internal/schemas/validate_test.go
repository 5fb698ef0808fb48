package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
  "type": "object",
  "required": ["name", "age"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "age": {"type": "integer", "minimum": 0}
  }
}`

func TestValidate_ValidDocument(t *testing.T) {
	err := Validate("person", []byte(personSchema), "alice.json", []byte(`{"name": "Alice", "age": 30}`))
	assert.NoError(t, err)
}

func TestValidate_MissingField(t *testing.T) {
	err := Validate("person", []byte(personSchema), "bob.json", []byte(`{"name": "Bob"}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "bob.json", validationErr.Document)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
	assert.Contains(t, validationErr.Errors[0].Message, "age")
	assert.Contains(t, err.Error(), "bob.json failed validation")
}

func TestValidate_WrongType(t *testing.T) {
	err := Validate("person", []byte(personSchema), "carol.json", []byte(`{"name": "Carol", "age": "old"}`))

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "age", validationErr.Errors[0].Field)
}

func TestValidate_InvalidSchema(t *testing.T) {
	err := Validate("broken", []byte(`{"type": 12}`), "doc.json", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "broken", loadErr.Name)
	assert.NotNil(t, loadErr.Unwrap())
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate("person", []byte(personSchema), "bad.json", []byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read bad.json")
}

func TestCompile_Reuse(t *testing.T) {
	s, err := Compile("person", []byte(personSchema))
	require.NoError(t, err)

	assert.NoError(t, s.Validate("a.json", []byte(`{"name": "A", "age": 1}`)))
	assert.Error(t, s.Validate("b.json", []byte(`{"name": "", "age": 1}`)))
}
