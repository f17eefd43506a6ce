package binder

import (
	"net/url"

	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/go-playground/validator/v10"
)

// urlValidator only accepts absolute http(s) URLs with a host. The empty
// string passes so it can sit behind omitempty or required_without.
func urlValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func novelStatusValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	for _, s := range models.NovelStatuses {
		if value == s {
			return true
		}
	}
	return false
}
