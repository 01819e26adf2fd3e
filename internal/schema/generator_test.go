package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"vellum/internal/settings"
)

func TestGenerateSchema_Settings(t *testing.T) {
	s := GenerateSchema[settings.Settings]()
	require.Equal(t, "object", s.Type)

	prop, ok := s.Properties.Get("modal_enabled")
	require.True(t, ok)
	require.Equal(t, "boolean", prop.Type)
	require.Equal(t, "Modal mode", prop.Title)

	debounce, ok := s.Properties.Get("debounce_ms")
	require.True(t, ok)
	require.Equal(t, "integer", debounce.Type)
}

func TestGenerateJSON_NoAdditionalProperties(t *testing.T) {
	data, err := GenerateJSON[settings.Settings]()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, false, decoded["additionalProperties"])
	require.Contains(t, decoded["properties"], "g_window_ms")
}
