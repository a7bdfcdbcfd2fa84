package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentCOD    PaymentType = "COD"
	PaymentOnline PaymentType = "Online"
)

// DefaultOrderStatus is the fulfillment label every new order starts with.
const DefaultOrderStatus = "Order Placed"

type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Order is a ledger entry. Online orders stay hidden from listings until IsPaid is set.
type Order struct {
	ID          string          `json:"_id"`
	UserID      string          `json:"userId"`
	Items       []OrderItem     `json:"items"`
	Amount      decimal.Decimal `json:"amount"`
	Address     Address         `json:"address"`
	Status      string          `json:"status"`
	PaymentType PaymentType     `json:"paymentType"`
	IsPaid      bool            `json:"isPaid"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Visible reports whether the order shows up in user and seller listings.
func (o Order) Visible() bool {
	return o.PaymentType == PaymentCOD || o.IsPaid
}
