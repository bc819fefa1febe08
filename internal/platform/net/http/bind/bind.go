// Package bind decodes request payloads and checks them against their validate tags
package bind

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// DefaultMaxBytes caps a request body when JSONOptions leaves MaxBytes at zero
const DefaultMaxBytes = 1 << 20

type checker struct {
	v  *validator.Validate
	tr ut.Translator
}

var shared = sync.OnceValue(func() *checker {
	loc := en.New()
	tr, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = en_translations.RegisterDefaultTranslations(v, tr)
	for tag, text := range shortMessages {
		registerShort(v, tr, tag, text)
	}
	return &checker{v: v, tr: tr}
})

// jsonName reports fields by their wire name so messages match the payload
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// JSONOptions tunes ParseJSON; the zero value is the strict default
type JSONOptions struct {
	MaxBytes       int64 // 0 means DefaultMaxBytes, negative means unlimited
	AllowUnknown   bool
	AllowEmptyBody bool
}

// ParseJSON reads one JSON document into T and validates it
// decode problems carry ErrorCodeJSON and rule violations ErrorCodeValidation
// an empty body yields the zero T for bodyless methods or when AllowEmptyBody is set
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var dst T
	var o JSONOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Warn().Err(err).Msg("request body close")
		}
	}()

	var body io.Reader = r.Body
	switch {
	case o.MaxBytes == 0:
		body = io.LimitReader(body, DefaultMaxBytes)
	case o.MaxBytes > 0:
		body = io.LimitReader(body, o.MaxBytes)
	}
	br := bufio.NewReader(body)
	if _, err := br.Peek(1); err != nil {
		if !errors.Is(err, io.EOF) {
			return dst, perr.JSONErrf("read body: %v", err)
		}
		if o.AllowEmptyBody || bodyless(r.Method) {
			return dst, nil
		}
		return dst, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(br)
	if !o.AllowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&dst); err != nil {
		return dst, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return dst, perr.JSONErrf("unexpected trailing data")
	}
	if err := Struct(dst); err != nil {
		var zero T
		return zero, err
	}
	return dst, nil
}

func bodyless(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

// Struct validates v, reporting the first violated rule as a Validation error on that field
func Struct(v any) error {
	err := shared().v.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Str("type", reflect.TypeOf(v).String()).Msg("validate on non struct")
		return perr.JSONErrf("payload must be an object")
	}
	field, msg := firstViolation(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

func firstViolation(err error) (field, msg string) {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return ves[0].Field(), ves[0].Translate(shared().tr)
	}
	return "", err.Error()
}

// shortMessages replace the stock wording for the tags the API uses
var shortMessages = map[string]string{
	"min":      "{0} must be at least {1}",
	"max":      "{0} must be at most {1}",
	"oneof":    "{0} must be one of [{1}]",
	"datetime": "{0} must be a timestamp like {1}",
}

func registerShort(v *validator.Validate, tr ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, tr,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
