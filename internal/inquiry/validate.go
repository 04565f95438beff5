package inquiry

import (
	"errors"
	"reflect"
	"strings"

	"airspring/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	// AlertMessage is shown to the visitor when a required field is missing
	AlertMessage = "Molimo unesite ime, telefon i marku automobila."
	// TooLongMessage is shown when a field does not fit its archive column
	TooLongMessage = "Unos je predugačak."
)

// FieldLimits is the maximum length, in characters, of each form field
var FieldLimits = map[string]int{
	"name":    255,
	"phone":   50,
	"marka":   255,
	"vin":     32,
	"message": 4000,
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
}

// ValidationError reports the required fields that were blank or, when
// none were, the fields that were too long
type ValidationError struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields"`
	TooLong bool     `json:"tooLong,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks that name, phone and marka are non-empty after trimming
// and that every field fits FieldLimits. Blank fields are reported first.
func Validate(data domain.ContactFormData) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var blank, long []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "max" {
			long = append(long, fe.Field())
			continue
		}
		blank = append(blank, fe.Field())
	}

	if len(blank) > 0 {
		return &ValidationError{Message: AlertMessage, Fields: blank}
	}
	return &ValidationError{Message: TooLongMessage, Fields: long, TooLong: true}
}
