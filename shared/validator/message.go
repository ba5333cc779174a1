package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required": "{field} is required",
		"gte":      "{field} must be greater than or equal to {param}",
		"lte":      "{field} must be less than or equal to {param}",
		"oneof":    "{field} must be one of {param}",
		"max":      "{field} must be at most {param} characters",
		"min":      "{field} must be at least {param} characters",
		"email":    "{field} must be a valid email address",
		"notblank": "{field} may not be blank",
		"null":     "{field} may not be null",
		"type":     "{field} must be a valid {param}",
	}
)

func render(tag, field, param string) string {
	msg, ok := messages[tag]
	if !ok {
		return field + " is invalid"
	}

	msg = strings.ReplaceAll(msg, "{field}", field)

	return strings.ReplaceAll(msg, "{param}", param)
}

// fieldMessages flattens validator errors into a field -> messages map.
// fallback names the field when the validator could not resolve one.
func fieldMessages(err error, fallback string) map[string][]string {
	fields := map[string][]string{}

	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		fields[fallback] = append(fields[fallback], err.Error())

		return fields
	}

	for _, valErr := range valErrors {
		field := valErr.Field()
		if field == "" {
			field = fallback
		}

		fields[field] = append(fields[field], render(valErr.Tag(), field, valErr.Param()))
	}

	return fields
}
