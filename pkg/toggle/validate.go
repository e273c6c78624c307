package toggle

import (
	"errors"
	"fmt"
)

// ValidateSet checks a definition batch for structural problems: empty or
// duplicate toggle names, empty or duplicate variant names within a toggle,
// and negative weights. All failures are collected; the returned error wraps
// ErrInvalidToggleSet and carries a *ValidationError with one entry per
// failure, in input order. A valid batch returns nil.
func ValidateSet(defs []Toggle) error {
	var errs []FieldError

	seenToggles := make(map[string]struct{}, len(defs))
	for i, def := range defs {
		field := fmt.Sprintf("toggles[%d]", i)

		if def.Name == "" {
			errs = append(errs, FieldError{
				Field:   field + ".name",
				Message: "toggle name must not be empty",
			})
		} else if _, dup := seenToggles[def.Name]; dup {
			errs = append(errs, FieldError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate toggle name %q", def.Name),
			})
		} else {
			seenToggles[def.Name] = struct{}{}
		}

		errs = append(errs, validateVariants(field, def.Variants)...)
	}

	if len(errs) > 0 {
		return errors.Join(ErrInvalidToggleSet, &ValidationError{Errors: errs})
	}
	return nil
}

func validateVariants(field string, variants []Variant) []FieldError {
	var errs []FieldError

	seen := make(map[string]struct{}, len(variants))
	for i, v := range variants {
		vField := fmt.Sprintf("%s.variants[%d]", field, i)

		if v.Name == "" {
			errs = append(errs, FieldError{
				Field:   vField + ".name",
				Message: "variant name must not be empty",
			})
		} else if _, dup := seen[v.Name]; dup {
			errs = append(errs, FieldError{
				Field:   vField + ".name",
				Message: fmt.Sprintf("duplicate variant name %q", v.Name),
			})
		} else {
			seen[v.Name] = struct{}{}
		}

		if v.Weight < 0 {
			errs = append(errs, FieldError{
				Field:   vField + ".weight",
				Message: fmt.Sprintf("weight must not be negative, got %d", v.Weight),
			})
		}
	}

	return errs
}
