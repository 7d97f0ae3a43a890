package usecase

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate    = newValidator()
	emailFormat = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "phone10", func(fl validator.FieldLevel) bool {
		return isPhone10(fl.Field().String())
	})
	mustRegister(v, "contact_email", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || emailFormat.MatchString(s)
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// isPhone10 reports whether s holds exactly 10 digits once separators are dropped.
func isPhone10(s string) bool {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n == 10
}

// validateInput runs the struct rules of in and maps the first failing field to
// a sentinel. fallback is used for fields without a dedicated sentinel.
func validateInput(in any, fallback error) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", fallback, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "phone10":
		return ErrInvalidPhone
	case "contact_email":
		return ErrInvalidEmail
	}
	return fmt.Errorf("%w: %s failed %s", fallback, fe.Field(), fe.Tag())
}
