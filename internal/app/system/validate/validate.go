// Package validate checks request payloads with go-playground/validator and
// reports field errors in Portuguese, keyed by JSON name.
package validate

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pt_translations "github.com/go-playground/validator/v10/translations/pt_BR"
)

const notBlankTag = "notblank"

var (
	v          *validator.Validate
	translator ut.Translator
)

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())

	loc := pt_BR.New()
	uni := ut.New(loc, loc)
	translator, _ = uni.GetTranslator("pt_BR")
	_ = pt_translations.RegisterDefaultTranslations(v, translator)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
	_ = v.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " não pode ficar em branco"
		})
}

// Errors maps JSON field names to messages.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Struct validates s. It returns nil or an Errors value.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(Errors, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Translate(translator)
	}
	return out
}

// Var validates a single value against tag (e.g. "required,email").
func Var(value any, tag string) bool {
	return v.Var(value, tag) == nil
}
