package models

import "time"

// PurchaseStatus is the fulfilment state of a purchase.
type PurchaseStatus string

const (
	PurchaseStatusPending    PurchaseStatus = "Pending"
	PurchaseStatusProcessing PurchaseStatus = "Processing"
	PurchaseStatusShipped    PurchaseStatus = "Shipped"
	PurchaseStatusDelivered  PurchaseStatus = "Delivered"
	PurchaseStatusCancelled  PurchaseStatus = "Cancelled"
)

// LineItem is one product row of a purchase. Name and price are snapshots
// taken at purchase time.
type LineItem struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	Quantity     int     `json:"quantity"`
	PricePerItem float64 `json:"pricePerItem"`
}

// Purchase is a recorded order. UserID always comes from the authenticated
// identity at record time. ShippingAddress is nil when neither the request
// nor the user profile provided one.
type Purchase struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	Products        []LineItem     `json:"products"`
	TotalAmount     float64        `json:"totalAmount"`
	ShippingAddress *string        `json:"shippingAddress"`
	Status          PurchaseStatus `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
