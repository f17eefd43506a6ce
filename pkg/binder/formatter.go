package binder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
)

const (
	mx          = "max"
	mn          = "min"
	novelstatus = "novelstatus"
	oneof       = "oneof"
	required    = "required"
	requiredWO  = "required_without"
	urlTag      = "url"
)

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	// FIXME: this doesn't work well for incorrect map values, e.g. it will say
	// `"metadata" should be a string instead of a object` if you pass in
	// `{"metadata":{"foo":{"bar":"baz"}}}`.
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case mx:
		return formatBound(field, err.Kind(), err.Param(), "less than or equal to")
	case mn:
		return formatBound(field, err.Kind(), err.Param(), "greater than or equal to")
	case novelstatus:
		return fmt.Sprintf("%q must be one of the following: \"Ongoing\", \"Completed\", \"Unknown\"", field)
	case oneof:
		valids := []string{}
		for _, p := range strings.Fields(err.Param()) {
			valids = append(valids, fmt.Sprintf("%q", p))
		}
		return fmt.Sprintf("%q must be one of the following: %s", field, strings.Join(valids, ", "))
	case required:
		return fmt.Sprintf("%q is required", field)
	case requiredWO:
		return fmt.Sprintf("%q is required when %q is not provided", field, lowerFirst(err.Param()))
	case urlTag:
		return fmt.Sprintf("%q must be a valid http or https URL", field)
	default:
		return fmt.Sprintf("%q failed the %q check", field, err.Tag())
	}
}

// formatBound words a min or max failure. Numbers are compared by value,
// strings by character count and slices by element count.
func formatBound(field string, kind reflect.Kind, param, cmp string) string {
	unit := "character"
	//exhaustive:ignore
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%q must be %s %s", field, cmp, param)
	case reflect.Slice:
		unit = "element"
	}
	if param != "1" {
		unit += "s"
	}
	return fmt.Sprintf("%q length must be %s %s %s", field, cmp, param, unit)
}

// lowerFirst turns a struct field name like OriginalContent into its
// camelCase json name.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
