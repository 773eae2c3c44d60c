package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// GenerationForm carries the party size and budget for a generation request.
type GenerationForm struct {
	NumPeople int    `validate:"gt=0,lte=50"`
	Budget    string `validate:"max=120"`
}

type ListNameForm struct {
	Name string `validate:"required,max=60"`
}

type FamilyCodeForm struct {
	Code string `validate:"required"`
}

type ItemForm struct {
	Name     string `validate:"required,max=80"`
	Quantity string `validate:"max=40"`
}

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Generation parses and validates raw party size and budget text.
func Generation(numPeople, budget string) (GenerationForm, error) {
	n, err := strconv.Atoi(strings.TrimSpace(numPeople))
	if err != nil {
		return GenerationForm{}, &ValidationError{Field: "NumPeople", Message: "Number of people must be a whole number."}
	}
	f := GenerationForm{NumPeople: n, Budget: strings.TrimSpace(budget)}
	return f, check(f)
}

func ListName(name string) (ListNameForm, error) {
	f := ListNameForm{Name: strings.TrimSpace(name)}
	return f, check(f)
}

func FamilyCode(code string) (FamilyCodeForm, error) {
	f := FamilyCodeForm{Code: strings.TrimSpace(code)}
	return f, check(f)
}

func Item(name, quantity string) (ItemForm, error) {
	f := ItemForm{Name: strings.TrimSpace(name), Quantity: strings.TrimSpace(quantity)}
	return f, check(f)
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be empty.", label)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	}
	return fmt.Sprintf("%s is invalid.", label)
}

var labels = map[string]string{
	"NumPeople": "Number of people",
	"Budget":    "Budget",
	"Name":      "Name",
	"Code":      "Family code",
	"Quantity":  "Quantity",
}
