package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates a JSON schema for the given type T
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}

// GenerateJSON renders the schema for T as indented JSON
func GenerateJSON[T any]() ([]byte, error) {
	return json.MarshalIndent(GenerateSchema[T](), "", "  ")
}
