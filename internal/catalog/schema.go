package catalog

import "github.com/invopop/jsonschema"

// Schema reflects Document into the JSON schema used to validate catalog
// files.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(new(Document))
	schema.Title = "Zephyrax Catalog"
	schema.Description = "Item definitions and mob templates loaded at server start"
	return schema
}
