package prompt

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
)

// Coverage is the structured reply the brand-missing prompt asks for.
type Coverage struct {
	MissingPromptTypes []string `json:"missing_prompt_types" jsonschema_description:"Content types where the brand is weak, missing or absent"`
	StrongPromptTypes  []string `json:"strong_prompt_types" jsonschema_description:"Content types where the brand is well covered"`
}

var (
	schemaOnce sync.Once
	schemaText string
)

// CoverageSchema returns the JSON schema of Coverage, inlined without refs.
func CoverageSchema() string {
	schemaOnce.Do(func() {
		schemaText = GenerateSchema[Coverage]()
	})
	return schemaText
}

// GenerateSchema reflects T into a compact JSON schema document.
func GenerateSchema[T any]() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var zero T
	schema := reflector.Reflect(zero)

	b, err := json.Marshal(map[string]any{
		"type":                 "object",
		"properties":           schema.Properties,
		"required":             schema.Required,
		"additionalProperties": false,
	})
	if err != nil {
		return "{}"
	}
	return string(b)
}
