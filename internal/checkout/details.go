package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	PaymentCashOnDelivery = "cod"
	DefaultCountry        = "United States"
)

// ShippingDetails is the checkout form.
type ShippingDetails struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state" validate:"required"`
	ZipCode       string `json:"zipCode" validate:"required"`
	Country       string `json:"country" validate:"required,oneof='United States' 'Canada' 'United Kingdom' 'Australia'"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=cod"`
	OrderNotes    string `json:"orderNotes" validate:"max=500"`
}

// WithDefaults fills the fields the form pre-selects.
func (d ShippingDetails) WithDefaults() ShippingDetails {
	if strings.TrimSpace(d.Country) == "" {
		d.Country = DefaultCountry
	}
	if strings.TrimSpace(d.PaymentMethod) == "" {
		d.PaymentMethod = PaymentCashOnDelivery
	}
	return d
}

// Step is one page of the checkout flow.
type Step string

const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

var stepFields = map[Step][]string{
	StepShipping: {"firstName", "lastName", "email", "phone", "address", "city", "state", "zipCode", "country"},
	StepPayment:  {"paymentMethod"},
}

func ParseStep(s string) (Step, error) {
	switch st := Step(strings.ToLower(s)); st {
	case StepShipping, StepPayment, StepReview:
		return st, nil
	}
	return "", fmt.Errorf("unknown checkout step %q", s)
}

// ValidationError lists the offending fields by their JSON names.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " " + e.Fields[name]
	}
	return "invalid shipping details: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDetails
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field.
func (d ShippingDetails) Validate() error {
	return d.ValidateStep(StepReview)
}

// ValidateStep checks only the fields shown on the given step. The review step
// checks everything.
func (d ShippingDetails) ValidateStep(step Step) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate shipping details: %w", err)
	}

	var only map[string]bool
	if names, ok := stepFields[step]; ok {
		only = make(map[string]bool, len(names))
		for _, n := range names {
			only[n] = true
		}
	}

	fields := make(map[string]string)
	for _, fe := range verrs {
		if only != nil && !only[fe.Field()] {
			continue
		}
		fields[fe.Field()] = message(fe)
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
