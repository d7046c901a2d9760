package llm

// Type is a JSON schema primitive type.
type Type string

const (
	TypeObject Type = "object"
	TypeString Type = "string"
	TypeArray  Type = "array"
)

// Property describes one node of an output schema.
type Property struct {
	Type       Type
	Nullable   bool
	Enum       []string
	Items      *Property
	Properties []Field // object members, in declaration order
}

// Field is a named object member. Every member of an object is required
// and no other members are allowed.
type Field struct {
	Name     string
	Property *Property
}

// Schema is a named output schema handed to the model service.
type Schema struct {
	Name string
	Root *Property
}

// JSON renders the schema as a strict JSON Schema document. Nullable members
// are typed ["T","null"]; nullable enums also list null.
func (s Schema) JSON() map[string]any {
	return s.Root.json()
}

func (p *Property) json() map[string]any {
	out := map[string]any{}
	if p.Nullable {
		out["type"] = []any{string(p.Type), "null"}
	} else {
		out["type"] = string(p.Type)
	}

	if len(p.Enum) > 0 {
		enum := make([]any, 0, len(p.Enum)+1)
		for _, v := range p.Enum {
			enum = append(enum, v)
		}
		if p.Nullable {
			enum = append(enum, nil)
		}
		out["enum"] = enum
	}

	switch p.Type {
	case TypeArray:
		if p.Items != nil {
			out["items"] = p.Items.json()
		}
	case TypeObject:
		props := make(map[string]any, len(p.Properties))
		required := make([]string, 0, len(p.Properties))
		for _, f := range p.Properties {
			props[f.Name] = f.Property.json()
			required = append(required, f.Name)
		}
		out["properties"] = props
		out["required"] = required
		out["additionalProperties"] = false
	}
	return out
}

// FieldNames returns the top-level member names in order.
func (s Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Root.Properties))
	for _, f := range s.Root.Properties {
		names = append(names, f.Name)
	}
	return names
}

func str() *Property { return &Property{Type: TypeString} }

func nullableStr() *Property { return &Property{Type: TypeString, Nullable: true} }
