// Package checkout validates simulated card payments.
package checkout

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/junaidrashid-git/storefront/validation"
)

const ValidationError = "Validation Error"

// Card is the payment form submitted at checkout.
type Card struct {
	CardholderName string `json:"cardholderName" validate:"required,min=2,max=100,cardholder"`
	CardNumber     string `json:"cardNumber" validate:"required,cardnumber,luhn"`
	ExpirationDate string `json:"expirationDate" validate:"required,expiry,notexpired"`
	CVV            string `json:"cvv" validate:"required,cvv"`
}

var (
	cardholderPattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	cardNumberPattern = regexp.MustCompile(`^\d{13,19}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
	whitespace        = regexp.MustCompile(`\s+`)
)

var messages = validation.Messages{
	"cardholderName.required":   "Cardholder name must be at least 2 characters",
	"cardholderName.min":        "Cardholder name must be at least 2 characters",
	"cardholderName.max":        "Cardholder name is too long",
	"cardholderName.cardholder": "Cardholder name can only contain letters and spaces",
	"cardNumber.required":       "Card number is required",
	"cardNumber.cardnumber":     "Card number must be 13-19 digits",
	"cardNumber.luhn":           "Invalid card number",
	"expirationDate.required":   "Expiration date is required",
	"expirationDate.expiry":     "Expiration date must be in MM/YY format",
	"expirationDate.notexpired": "Card has expired",
	"cvv.required":              "CVV is required",
	"cvv.cvv":                   "CVV must be 3 or 4 digits",
}

// Validator checks cards against the clock it was built with.
type Validator struct {
	v *validator.Validate
}

func NewValidator(now func() time.Time) *Validator {
	v := validation.New()
	_ = v.RegisterValidation("cardholder", func(fl validator.FieldLevel) bool {
		return cardholderPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		return cardNumberPattern.MatchString(NormalizeNumber(fl.Field().String()))
	})
	_ = v.RegisterValidation("luhn", func(fl validator.FieldLevel) bool {
		return Luhn(NormalizeNumber(fl.Field().String()))
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notexpired", func(fl validator.FieldLevel) bool {
		return !Expired(fl.Field().String(), now())
	})
	_ = v.RegisterValidation("cvv", func(fl validator.FieldLevel) bool {
		return cvvPattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Validate returns nil or a validation error listing every failing field.
func (cv *Validator) Validate(card Card) error {
	return validation.Check(cv.v, card, ValidationError, messages)
}

// NormalizeNumber strips all whitespace from a card number.
func NormalizeNumber(number string) string {
	return whitespace.ReplaceAllString(number, "")
}

// Luhn reports whether a digit string passes the Luhn checksum.
func Luhn(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// Expired reports whether an MM/YY expiry lies before now's month.
// Malformed values are not reported as expired; the format rule catches them.
func Expired(expiry string, now time.Time) bool {
	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(expiry))
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	year += 2000

	current := now.Year()*12 + int(now.Month()) - 1
	return year*12+month-1 < current
}
