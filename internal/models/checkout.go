package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryDetails is entered once per checkout attempt
type DeliveryDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PaymentMethod tags a payment instrument variant
type PaymentMethod string

const (
	MethodCard           PaymentMethod = "card"
	MethodUPI            PaymentMethod = "upi"
	MethodWallet         PaymentMethod = "wallet"
	MethodCashOnDelivery PaymentMethod = "cod"
)

// WalletProvider is one of the supported digital wallets
type WalletProvider string

const (
	WalletPaytm     WalletProvider = "paytm"
	WalletPhonePe   WalletProvider = "phonepe"
	WalletAmazonPay WalletProvider = "amazonpay"
	WalletMobikwik  WalletProvider = "mobikwik"
)

// WalletProviders lists the closed set of wallet providers
var WalletProviders = []WalletProvider{WalletPaytm, WalletPhonePe, WalletAmazonPay, WalletMobikwik}

// PaymentInstrument is the chosen payment method with its method-specific fields.
// Implemented by CardPayment, UPIPayment, WalletPayment and CashOnDelivery.
type PaymentInstrument interface {
	Method() PaymentMethod
}

type CardPayment struct {
	Number     string
	HolderName string
	Expiry     string
	CVV        string
}

func (CardPayment) Method() PaymentMethod { return MethodCard }

type UPIPayment struct {
	ID string
}

func (UPIPayment) Method() PaymentMethod { return MethodUPI }

type WalletPayment struct {
	Provider WalletProvider
	Phone    string
}

func (WalletPayment) Method() PaymentMethod { return MethodWallet }

type CashOnDelivery struct{}

func (CashOnDelivery) Method() PaymentMethod { return MethodCashOnDelivery }

// OrderConfirmation is the display-only record produced by a successful submission
type OrderConfirmation struct {
	OrderID  string          `json:"order_id"`
	Total    decimal.Decimal `json:"total"`
	Method   PaymentMethod   `json:"payment_method"`
	PlacedAt time.Time       `json:"placed_at"`
}

// PaymentStatus returns the label shown next to the total
func (c OrderConfirmation) PaymentStatus() string {
	if c.Method == MethodCashOnDelivery {
		return "Cash on Delivery"
	}
	return "Paid"
}

// DisplayID returns the order id as shown to customers
func (c OrderConfirmation) DisplayID() string {
	return "#" + c.OrderID
}
