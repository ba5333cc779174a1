package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"littlelemon/shared/failure"
	"maps"
	"reflect"
	"slices"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const (
	tagJSON     = "json"
	tagValidate = "validate"
	tagKind     = "kind"

	ruleRequired = "required"
)

var (
	validate *val.Validate
	null     = []byte("null")
)

// Checker is implemented by request types with rules that struct tags cannot express.
// It runs only after every field decoded and passed its tag rules.
type Checker interface {
	Check() map[string][]string
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return jsonName(fld)
	})

	err := validate.RegisterValidation("notblank", func(fl val.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	if err != nil {
		panic(err)
	}
}

// Validate decodes a JSON object from r into data and checks every rule, reporting all
// problems at once as a per-field validation failure. Fields tagged `required` must be present.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	return bind(r, data, false)
}

// ValidatePartial is Validate for partial updates: only the fields present in the body are
// checked and `required` is not enforced.
func ValidatePartial[T any](r io.Reader, data *T) error {
	return bind(r, data, true)
}

func bind(r io.Reader, data any, partial bool) error {
	raw := map[string]json.RawMessage{}

	if err := json.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return failure.FieldError(failure.NonFieldErrors, "request body must be a JSON object") //nolint:wrapcheck
	}

	target := reflect.ValueOf(data).Elem()
	fields := decodeFields(target, raw)

	if len(fields) > 0 {
		return failure.Validation(fields) //nolint:wrapcheck
	}

	if partial {
		fields = checkPresent(target, raw)
	} else if err := validate.Struct(data); err != nil {
		fields = fieldMessages(err, failure.NonFieldErrors)
	}

	if len(fields) > 0 {
		return failure.Validation(fields) //nolint:wrapcheck
	}

	if checker, ok := data.(Checker); ok {
		return failure.Validation(checker.Check()) //nolint:wrapcheck
	}

	return nil
}

// decodeFields decodes every known key on its own so that a type error is attributed to its field.
// No request field accepts an explicit null.
func decodeFields(target reflect.Value, raw map[string]json.RawMessage) map[string][]string {
	fields := map[string][]string{}
	typ := target.Type()

	for i := range typ.NumField() {
		field := typ.Field(i)
		name := jsonName(field)

		value, ok := raw[name]
		if name == "" || !ok {
			continue
		}

		if bytes.Equal(bytes.TrimSpace(value), null) {
			fields[name] = append(fields[name], render("null", name, ""))

			continue
		}

		if err := json.Unmarshal(value, target.Field(i).Addr().Interface()); err != nil {
			fields[name] = append(fields[name], render("type", name, kindOf(field)))
		}
	}

	return fields
}

func checkPresent(target reflect.Value, raw map[string]json.RawMessage) map[string][]string {
	fields := map[string][]string{}
	typ := target.Type()

	for i := range typ.NumField() {
		field := typ.Field(i)
		name := jsonName(field)

		if _, ok := raw[name]; name == "" || !ok {
			continue
		}

		rules := strings.Split(field.Tag.Get(tagValidate), ",")
		value := target.Field(i)

		if value.Kind() == reflect.Pointer && value.IsNil() {
			continue
		}

		rules = slices.DeleteFunc(rules, func(rule string) bool {
			return rule == ruleRequired || rule == ""
		})
		if len(rules) == 0 {
			continue
		}

		if err := validate.Var(value.Interface(), strings.Join(rules, ",")); err != nil {
			maps.Copy(fields, fieldMessages(err, name))
		}
	}

	return fields
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get(tagJSON), ",")
	if name == "-" || !field.IsExported() {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func kindOf(field reflect.StructField) string {
	if kind := field.Tag.Get(tagKind); kind != "" {
		return kind
	}

	typ := field.Type
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "list"
	default:
		return typ.Kind().String()
	}
}
