package validation

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// SchemaProvider supplies JSON schemas by extension kind. Satisfied by the
// factory registry.
type SchemaProvider interface {
	Schema(kind string) (string, bool)
}

// Validator validates manifests against schemas from a SchemaProvider.
type Validator struct {
	schemas SchemaProvider
}

// NewValidator creates a manifest validator.
func NewValidator(schemas SchemaProvider) *Validator {
	return &Validator{schemas: schemas}
}

// Validate checks the manifest's structure and, when a schema is registered
// for its kind, its config block.
func (v *Validator) Validate(manifest *extension.Manifest) (*ValidationResult, error) {
	result := &ValidationResult{Valid: true}

	if manifest == nil {
		return nil, fmt.Errorf("manifest is nil")
	}
	if manifest.Name == "" {
		result.addError("manifest name is required")
	}
	if manifest.Version == "" {
		result.addError("manifest version is required")
	}
	for _, mode := range manifest.Modes {
		switch extension.Mode(mode) {
		case extension.ModeFull, extension.ModeCompact:
		default:
			result.addError(fmt.Sprintf("unknown mode %q", mode))
		}
	}

	if manifest.Kind == "" {
		return result, nil
	}

	schemaStr, ok := v.schemas.Schema(manifest.Kind)
	if !ok {
		result.addError(fmt.Sprintf("no schema registered for kind %q", manifest.Kind))
		return result, nil
	}

	schema, err := jsonschema.CompileString(manifest.Kind+".json", schemaStr)
	if err != nil {
		return nil, fmt.Errorf("compiling schema for kind %q: %w", manifest.Kind, err)
	}

	config := normalize(manifest.Config)
	if err := schema.Validate(config); err != nil {
		var ve *jsonschema.ValidationError
		if ok := asValidationError(err, &ve); ok {
			for _, cause := range flatten(ve) {
				result.addError(cause)
			}
		} else {
			result.addError(err.Error())
		}
	}

	return result, nil
}

func asValidationError(err error, target **jsonschema.ValidationError) bool {
	ve, ok := err.(*jsonschema.ValidationError)
	if ok {
		*target = ve
	}
	return ok
}

// flatten collects the leaf causes of a validation error tree.
func flatten(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := strings.TrimPrefix(ve.InstanceLocation, "/")
		if loc == "" {
			return []string{ve.Message}
		}
		return []string{fmt.Sprintf("%s: %s", loc, ve.Message)}
	}
	var out []string
	for _, cause := range ve.Causes {
		out = append(out, flatten(cause)...)
	}
	return out
}

// normalize converts a config map to plain JSON-compatible values. YAML
// parsing can produce map[any]any nests the schema library rejects.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprintf("%v", k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = normalize(val)
		}
		return out
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return v
	}
}
