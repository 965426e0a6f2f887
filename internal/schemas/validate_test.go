package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["question", "category"],
	"properties": {
		"question": {"type": "string", "minLength": 1},
		"category": {"type": "string", "enum": ["technical", "behavioral", "culture"]}
	}
}`

func TestValidateJSONString(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		err := ValidateJSONString(testSchema, `{"question": "Describe a production incident.", "category": "behavioral"}`)
		assert.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		err := ValidateJSONString(testSchema, `{"question": "x"}`)
		require.Error(t, err)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.NotEmpty(t, ve.Errors)
	})

	t.Run("enum violation reports field", func(t *testing.T) {
		err := ValidateJSONString(testSchema, `{"question": "x", "category": "astrology"}`)
		require.Error(t, err)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "category", ve.Errors[0].Field)
	})

	t.Run("broken schema is a load error", func(t *testing.T) {
		err := ValidateJSONString(`{"type": nonsense`, `{}`)
		require.Error(t, err)

		var se *SchemaLoadError
		assert.True(t, errors.As(err, &se))
	})

	t.Run("non-json document", func(t *testing.T) {
		err := ValidateJSONString(testSchema, `here are your questions!`)
		assert.Error(t, err)
	})
}
