package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// looseEmailPattern only asks for something@something.something without
// whitespace; the auth service does the real check.
var looseEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is one failed rule, keyed by the JSON field name.
type FieldError struct {
	Field string
	Tag   string
}

type Validator struct {
	validate *validator.Validate
}

var (
	instance *Validator
	once     sync.Once
)

// Get returns the shared validator.
func Get() *Validator {
	once.Do(func() {
		instance = New()
	})
	return instance
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return looseEmailPattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct validates s and returns every failed rule. A nil slice means valid.
func (v *Validator) Struct(s interface{}) ([]FieldError, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return out, nil
}

// Has reports whether any failure matches tag (and field, when given).
func Has(errs []FieldError, field, tag string) bool {
	for _, e := range errs {
		if e.Tag == tag && (field == "" || e.Field == field) {
			return true
		}
	}
	return false
}
