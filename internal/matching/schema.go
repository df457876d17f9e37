package matching

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// requirementsSchema describes the requirement list produced by document
// extraction. Every key must be present; an unspecified technical field is
// an explicit null. Unknown keys are rejected.
const requirementsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "additionalProperties": false,
    "required": ["product_name", "quantity", "voltage_rating", "conductor_size", "material", "insulation_type", "core_count"],
    "properties": {
      "product_name":    {"type": "string", "minLength": 1},
      "quantity":        {"type": ["number", "string"]},
      "voltage_rating":  {"type": ["number", "null"]},
      "conductor_size":  {"type": ["number", "null"]},
      "material":        {"type": ["string", "null"]},
      "insulation_type": {"type": ["string", "null"]},
      "core_count":      {"type": ["integer", "null"]}
    }
  }
}`

var requirementsLoader = gojsonschema.NewStringLoader(requirementsSchema)

// validateRequirementsJSON checks the document shape before decoding, so a
// misnamed or mistyped key is reported by path instead of silently
// becoming a nil field.
func validateRequirementsJSON(doc []byte) error {
	res, err := gojsonschema.Validate(requirementsLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequirement, err)
	}
	if res.Valid() {
		return nil
	}
	errs := make([]string, len(res.Errors()))
	for i, desc := range res.Errors() {
		errs[i] = desc.String()
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequirement, strings.Join(errs, "; "))
}
