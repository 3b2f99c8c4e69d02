// Package validator wraps go-playground/validator with English error messages.
package validator

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"

	"github.com/streamforge/streamforge/internal/pkg/utils/errors"
)

// Rule is a custom validation rule registered under a tag.
type Rule struct {
	Tag  string
	Func validator.Func
}

// Validate validates the value, structs are validated recursively.
func Validate(ctx context.Context, value any, rules ...Rule) error {
	validate, translator := newValidator(rules...)

	var err error
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		err = validate.StructCtx(ctx, value)
	} else {
		err = validate.VarCtx(ctx, value, "dive")
	}
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		// An InvalidValidationError means a programming error, not an invalid value.
		panic(err)
	}

	result := errors.NewMultiError()
	for _, e := range validationErrs {
		if namespace := fieldNamespace(e.Namespace()); namespace != "" {
			result.Append(errors.Errorf("%s: %s", namespace, e.Translate(translator)))
		} else {
			result.Append(errors.New(e.Translate(translator)))
		}
	}
	return result.ErrorOrNil()
}

func newValidator(rules ...Rule) (*validator.Validate, ut.Translator) {
	validate := validator.New()

	enLocale := en.New()
	translator, found := ut.New(enLocale, enLocale).GetTranslator("en")
	if !found {
		panic(errors.New("en translator was not found"))
	}
	if err := enTranslation.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(errors.Wrapf(err, "translator was not registered"))
	}

	for _, rule := range rules {
		if err := validate.RegisterValidation(rule.Tag, rule.Func); err != nil {
			panic(err)
		}
	}

	// Use the configKey tag in error messages, it matches the configuration field names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := strings.SplitN(field.Tag.Get("configKey"), ",", 2)[0]; name != "" && name != "-" {
			return name
		}
		return field.Name
	})

	return validate, translator
}

// fieldNamespace strips the root struct name from the error namespace,
// "Config.waitInterval" -> "waitInterval".
func fieldNamespace(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], ".")
}
