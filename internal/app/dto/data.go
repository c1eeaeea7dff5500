package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate = validator.New()
	trans    ut.Translator
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type Response struct {
	Message string `json:"message"`
}

// fieldToken rejects values that would break the comma and semicolon
// separated itinerary line.
func fieldToken(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	return strings.TrimSpace(value) != "" && !strings.ContainsAny(value, ",;\r\n")
}

func InitValidator() error {
	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	err := enTranslations.RegisterDefaultTranslations(Validate, trans)
	if err != nil {
		return err
	}

	if err := Validate.RegisterValidation("field_token", fieldToken); err != nil {
		return err
	}

	err = Validate.RegisterTranslation("field_token", trans,
		func(ut ut.Translator) error {
			return ut.Add("field_token", "{0} must not be blank or contain ',', ';' or line breaks", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("field_token", fe.Field())
			return t
		},
	)
	if err != nil {
		return err
	}

	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return nil
}

func ValidateSingleError(req interface{}) error {
	if err := Validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return errors.New(ve[0].Translate(trans))
		}
		return err
	}
	return nil
}
