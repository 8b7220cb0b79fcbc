// Package money holds currency arithmetic and display rules for the canteen.
//
// Amounts are exact decimals; rounding to two places happens only in Format.
package money

import (
	"github.com/shopspring/decimal"
)

// Symbol is the fixed currency symbol shown to customers.
const Symbol = "₹"

// taxRate is the GST applied to every order.
var taxRate = decimal.New(5, -2)

// TaxRate returns the GST rate, 5%.
func TaxRate() decimal.Decimal {
	return taxRate
}

// Tax returns the GST due on subtotal, unrounded.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRate)
}

// Format renders an amount with the currency symbol and exactly two decimals.
func Format(amount decimal.Decimal) string {
	return Symbol + amount.StringFixed(2)
}

// Fixed renders an amount with exactly two decimals and no symbol.
func Fixed(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
