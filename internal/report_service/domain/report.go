package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus of an order in the ledger. Only successful orders qualify for
// the sales report.
type OrderStatus string

const (
	OrderStatusSuccess OrderStatus = "success"
	OrderStatusPending OrderStatus = "pending"
	OrderStatusFailed  OrderStatus = "failed"
)

// Product describes what was sold. PriceCents is the unit price in minor
// currency units.
type Product struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	PriceCents int64  `json:"price_cents"`
}

// OrderRecord is one row of the order ledger tied to a stream.
type OrderRecord struct {
	ID        uuid.UUID   `json:"id"`
	StreamID  uuid.UUID   `json:"stream_id"`
	Status    OrderStatus `json:"status"`
	BuyerID   uuid.UUID   `json:"buyer_id"`   // zero when the order has no associated buyer
	PaymentID string      `json:"payment_id"` // payment gateway reference
	Product   Product     `json:"product"`
	CreatedAt time.Time   `json:"created_at"`
}

// BuyerProfile is the buyer's public profile, looked up by buyer identity.
type BuyerProfile struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
}

// ShippingAddress as returned by the payment gateway.
type ShippingAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// PaymentDetails is the shipping/billing detail fetched from the payment
// gateway by payment reference.
type PaymentDetails struct {
	Address ShippingAddress `json:"address"`
	Phone   string          `json:"phone,omitempty"`
}

// NotSpecifiedPlaceholder renders in place of missing optional fields so the
// spreadsheet never shows empty cells for them.
const NotSpecifiedPlaceholder = "Not Specified"

// FormatAddress renders the shipping address as a single display string. A
// missing second address line is substituted with the explicit placeholder.
func (p *PaymentDetails) FormatAddress() string {
	line2 := NotSpecifiedPlaceholder
	if p.Address.Line2 != "" {
		line2 = fmt.Sprintf("( %s )", p.Address.Line2)
	}
	return fmt.Sprintf("%s %s , %s , %s , %s - %s",
		p.Address.Line1, line2, p.Address.City, p.Address.State, p.Address.Country, p.Address.PostalCode)
}

// FormatPhone renders the contact phone or the explicit placeholder.
func (p *PaymentDetails) FormatPhone() string {
	if p.Phone == "" {
		return NotSpecifiedPlaceholder
	}
	return p.Phone
}

// ReportRow is one line of the generated sales report. Rows are derived,
// ephemeral, and recomputed on every reporting task invocation.
type ReportRow struct {
	OrderID      uuid.UUID `json:"order_id"`
	ProductName  string    `json:"product_name"`
	ProductSKU   string    `json:"product_sku"`
	BuyerAddress string    `json:"buyer_address"`
	BuyerPhone   string    `json:"buyer_phone"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
}

// ReportSummary carries the derived totals embedded in the notification email.
// TotalAmount is in major currency units (minor units / 100).
type ReportSummary struct {
	Title         string  `json:"title"`
	ProductsSold  int     `json:"products_sold"`
	TotalAmount   float64 `json:"total_amount"`
	TotalViews    int64   `json:"total_views"`
	UniqueViewers int64   `json:"unique_viewers"`
}
