package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"digital-canteen/internal/models"
)

var (
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	upiPattern   = regexp.MustCompile(`^[\w.-]+@[\w.-]+$`)
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateCheckout checks delivery details first, then the payment instrument.
func ValidateCheckout(details models.DeliveryDetails, instrument models.PaymentInstrument) error {
	if err := ValidateDelivery(details); err != nil {
		return err
	}
	return ValidatePayment(instrument)
}

// ValidateDelivery reports the first failing rule in the order name, phone, address.
func ValidateDelivery(details models.DeliveryDetails) error {
	if strings.TrimSpace(details.Name) == "" {
		return ValidationError{
			Field:   "name",
			Message: "Please enter your name",
		}
	}

	if !IsValidPhone(details.Phone) {
		return ValidationError{
			Field:   "phone",
			Message: "Please enter a valid 10-digit phone number",
		}
	}

	if strings.TrimSpace(details.Address) == "" {
		return ValidationError{
			Field:   "address",
			Message: "Please enter your delivery address",
		}
	}
	return nil
}

func ValidatePayment(instrument models.PaymentInstrument) error {
	switch p := instrument.(type) {
	case models.CardPayment:
		return validateCard(p)
	case *models.CardPayment:
		return validateCard(*p)
	case models.UPIPayment:
		return validateUPI(p)
	case *models.UPIPayment:
		return validateUPI(*p)
	case models.WalletPayment:
		return validateWallet(p)
	case *models.WalletPayment:
		return validateWallet(*p)
	case models.CashOnDelivery, *models.CashOnDelivery:
		return nil
	case nil:
		return ValidationError{
			Field:   "payment_method",
			Message: "payment method is required",
		}
	default:
		return ValidationError{
			Field:   "payment_method",
			Message: "invalid payment method",
		}
	}
}

// IsValidPhone reports whether phone is a 10-digit mobile number starting with 6-9.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// IsValidCardNumber accepts exactly 16 digits once whitespace is removed.
func IsValidCardNumber(number string) bool {
	cleaned := StripSpaces(number)
	if len(cleaned) != 16 {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func IsValidUPI(id string) bool {
	return upiPattern.MatchString(id)
}

// StripSpaces removes every whitespace rune from s.
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func validateCard(card models.CardPayment) error {
	if !IsValidCardNumber(card.Number) {
		return ValidationError{
			Field:   "card_number",
			Message: "Please enter a valid 16-digit card number",
		}
	}

	if strings.TrimSpace(card.HolderName) == "" {
		return ValidationError{
			Field:   "card_name",
			Message: "Please enter cardholder name",
		}
	}

	// Only the MM/YY shape is checked; month range and expiry date are not.
	if len(card.Expiry) != 5 {
		return ValidationError{
			Field:   "expiry",
			Message: "Please enter valid expiry date (MM/YY)",
		}
	}

	if len(card.CVV) != 3 {
		return ValidationError{
			Field:   "cvv",
			Message: "Please enter valid CVV",
		}
	}
	return nil
}

func validateUPI(upi models.UPIPayment) error {
	if !IsValidUPI(upi.ID) {
		return ValidationError{
			Field:   "upi_id",
			Message: "Please enter a valid UPI ID",
		}
	}
	return nil
}

func validateWallet(wallet models.WalletPayment) error {
	if !slices.Contains(models.WalletProviders, wallet.Provider) {
		return ValidationError{
			Field:   "wallet_provider",
			Message: "Please select a supported wallet",
		}
	}

	if !IsValidPhone(wallet.Phone) {
		return ValidationError{
			Field:   "wallet_phone",
			Message: "Please enter a valid phone number linked to your wallet",
		}
	}
	return nil
}
