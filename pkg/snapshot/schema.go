package snapshot

import (
	"github.com/argus-labs/reactor/pkg/ecs"
	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
)

// Schemas returns the JSON schema of every component registered in reg, keyed by component name.
// It documents the component data format used by Encode.
func Schemas(reg *ecs.Registry) (map[string]map[string]any, error) {
	reflector := &jsonschema.Reflector{
		Anonymous:      true, // Don't add $id based on package path
		ExpandedStruct: true, // Inline the struct fields directly
	}

	schemas := make(map[string]map[string]any, reg.Len())
	for _, name := range reg.Names() {
		c, err := reg.New(name)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(reflector.Reflect(c))
		if err != nil {
			return nil, eris.Wrapf(err, "failed to marshal json schema of %s", name)
		}
		var schemaMap map[string]any
		if err = json.Unmarshal(data, &schemaMap); err != nil {
			return nil, eris.Wrapf(err, "failed to unmarshal json schema of %s", name)
		}

		// Remove redundant fields.
		delete(schemaMap, "$schema")
		delete(schemaMap, "type")
		delete(schemaMap, "additionalProperties")
		schemas[name] = schemaMap
	}
	return schemas, nil
}
