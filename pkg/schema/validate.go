package schema

import "slices"

// Schema maps parameter names to their expected types.
type Schema map[string]Type

// Validate checks params against the schema. Every declared parameter is required
// (a Nullable type still requires the key). Undeclared parameters are allowed.
// Failures are reported together, in parameter name order.
func Validate(s Schema, params map[string]any) error {
	if len(s) == 0 {
		return nil
	}

	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var errs []error
	for _, key := range keys {
		value, exists := params[key]
		if !exists {
			errs = append(errs, &ValidationError{Key: key, Reason: "required"})
			continue
		}
		if err := s[key].Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: value})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
