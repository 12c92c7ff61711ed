package tool

import "fmt"

// Property describes one declared tool parameter.
type Property struct {
	// Type is the JSON type of the parameter: "string" or "object".
	Type string

	// Description is the natural-language hint exposed to the model.
	Description string
}

// Schema is the subset of JSON Schema the catalog needs for argument
// validation: named properties with primitive types and a required list.
type Schema struct {
	Properties map[string]Property
	Required   []string
}

// Validate checks args against the schema: every required parameter must be
// present and every known parameter must match its declared type. Unknown
// extra arguments are tolerated; the model occasionally pads calls.
func (s Schema) Validate(args map[string]any) error {
	for _, name := range s.Required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("%w: missing required argument %q", ErrInvalidArguments, name)
		}
	}

	for name, value := range args {
		prop, ok := s.Properties[name]
		if !ok {
			continue
		}
		if err := checkType(value, prop.Type); err != nil {
			return fmt.Errorf("%w: argument %q: %v", ErrInvalidArguments, name, err)
		}
	}

	return nil
}

func checkType(value any, expected string) error {
	switch expected {
	case "string":
		if _, ok := value.(string); ok {
			return nil
		}
	case "object":
		if _, ok := value.(map[string]any); ok {
			return nil
		}
	default:
		return fmt.Errorf("unsupported schema type %q", expected)
	}
	return fmt.Errorf("expected %s but got %T", expected, value)
}
