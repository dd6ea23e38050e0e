package validator

import (
	"log"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	minCode = 10_000_000
	maxCode = 99_999_999
)

// New returns a validator that reports fields by their json names and
// knows the custom tags used across the api.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	configure(v)
	return v
}

func RegisterGinValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("uri"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("onetimecode", oneTimeCodeValidator); err != nil {
		log.Fatal("register onetimecode validator failed")
	}
}

// oneTimeCodeValidator accepts 8-digit codes given as integers or strings.
var oneTimeCodeValidator validator.Func = func(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		code := field.Int()
		return code >= minCode && code <= maxCode
	case reflect.String:
		s := field.String()
		if len(s) != 8 || s[0] == '0' {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}
