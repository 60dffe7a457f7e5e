// Package bind decodes and validates JSON request bodies
// failures come back as perr errors so handlers can return them as is
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	perr "impactlog/internal/platform/errors"
	"impactlog/internal/platform/logger"
)

// FieldLevel aliases validator.FieldLevel for custom tags
type FieldLevel = validator.FieldLevel

type validation struct {
	v     *validator.Validate
	trans ut.Translator
}

// messages replaces the stock english text for tags request DTOs lean on
var messages = map[string]string{
	"required": "{0} is required",
	"min":      "{0} must be at least {1}",
	"max":      "{0} must be at most {1}",
	"gt":       "{0} must be greater than {1}",
	"lte":      "{0} must be at most {1}",
	"oneof":    "{0} must be one of [{1}]",
}

var get = sync.OnceValue(func() *validation {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	for tag, text := range messages {
		_ = v.RegisterTranslation(tag, trans, addText(tag, text), translate(tag))
	}
	return &validation{v: v, trans: trans}
})

// jsonName reports fields by their json name so errors match the payload
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func addText(tag, text string) validator.RegisterTranslationsFunc {
	return func(t ut.Translator) error { return t.Add(tag, text, true) }
}

func translate(tag string) validator.TranslationFunc {
	return func(t ut.Translator, fe validator.FieldError) string {
		msg, _ := t.T(tag, fe.Field(), fe.Param())
		return msg
	}
}

// RegisterTag adds a custom validation tag and its message
// message follows the field name, e.g. "must name a known app"
func RegisterTag(tag, message string, fn validator.Func) error {
	s := get()
	if err := s.v.RegisterValidation(tag, fn); err != nil {
		return err
	}
	return s.v.RegisterTranslation(tag, s.trans, addText(tag, "{0} "+message), translate(tag))
}

// Options tunes ParseJSON
type Options struct {
	MaxBytes     int64 // 1MB when zero
	AllowUnknown bool
}

// ParseJSON decodes one JSON value from r into T and validates it
// an empty, oversized, malformed or trailing body is ErrorCodeJSON;
// a failed rule is ErrorCodeValidation with the json field name attached
func ParseJSON[T any](r *http.Request, opts ...Options) (T, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = 1 << 20
	}
	body := http.MaxBytesReader(nil, r.Body, o.MaxBytes)
	defer func() {
		if err := body.Close(); err != nil {
			logger.C(r.Context()).Debug().Err(err).Msg("close request body")
		}
	}()

	dec := json.NewDecoder(body)
	if !o.AllowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return dst, perr.JSONErrf("empty body")
		case errors.As(err, &tooBig):
			return dst, perr.JSONErrf("body larger than %d bytes", tooBig.Limit)
		}
		return dst, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return dst, perr.JSONErrf("unexpected trailing data")
	}

	if err := Validate(dst); err != nil {
		return dst, err
	}
	return dst, nil
}

// Validate runs struct rules on v
func Validate(v any) error {
	s := get()
	err := s.v.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		// not a struct, or a bad tag: a programming error rather than bad input
		logger.Get().Error().Err(err).Msg("validator misuse")
		return perr.Wrap(err, perr.ErrorCodeUnknown, "validation error")
	}
	fe := verrs[0]
	return perr.WithField(perr.New(perr.ErrorCodeValidation, fe.Translate(s.trans)), fe.Field())
}
