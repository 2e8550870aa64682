package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	assert.NoError(t, ValidateOutputFormat("table"))
	assert.NoError(t, ValidateOutputFormat("json"))
	assert.NoError(t, ValidateOutputFormat("yaml"))

	err := ValidateOutputFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestMarshal(t *testing.T) {
	data := map[string]any{"kind": "user", "changed": true}

	jsonOut, err := Marshal(OutputFormatJSON, data)
	require.NoError(t, err)
	assert.Contains(t, jsonOut, `"kind": "user"`)
	assert.Contains(t, jsonOut, `"changed": true`)

	yamlOut, err := Marshal(OutputFormatYAML, data)
	require.NoError(t, err)
	assert.Contains(t, yamlOut, "kind: user")
	assert.Contains(t, yamlOut, "changed: true")

	_, err = Marshal(OutputFormatTable, data)
	require.Error(t, err)
}

func TestDriftError(t *testing.T) {
	one := &DriftError{Count: 1}
	assert.Equal(t, "1 resource would change", one.Error())

	many := &DriftError{Count: 3}
	assert.Equal(t, "3 resources would change", many.Error())

	assert.True(t, IsDrift(many))
	assert.False(t, IsDrift(assert.AnError))
	assert.False(t, IsDrift(nil))
}
