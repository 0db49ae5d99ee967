package schema

import (
	"encoding/json"
	"strings"

	"github.com/invopop/jsonschema"
)

// Generate reflects a JSON schema for v. Oracle responses are validated
// against the struct itself on decode; the schema is what we hand to
// providers that support structured output.
func Generate(v any) (json.RawMessage, error) {
	r := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	s := r.Reflect(v)
	return json.Marshal(s)
}

// MustGenerate is Generate for package-level schema variables, where a
// failure is a programming error.
func MustGenerate(v any) json.RawMessage {
	raw, err := Generate(v)
	if err != nil {
		panic("schema: " + err.Error())
	}
	return raw
}

// ExtractObject returns the first "{" through the last "}" of content, or ""
// when no object is present. Oracles wrap their JSON in prose often enough
// that decoding the raw completion directly is a losing game.
func ExtractObject(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}

	end := strings.LastIndex(content[start:], "}")
	if end == -1 {
		return ""
	}

	return content[start : start+end+1]
}
