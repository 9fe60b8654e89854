package entity

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Order is one purchased cart line. Total is a frozen snapshot of
// product price x quantity taken at creation; later price changes do not
// affect it. Only the owning merchant may advance Status.
type Order struct {
	ID         string      `json:"id" firestore:"id"`
	ClientID   string      `json:"client_id" firestore:"clientId"`
	MerchantID string      `json:"merchant_id" firestore:"merchantId"`
	ProductID  string      `json:"product_id" firestore:"productId"`
	Quantity   int         `json:"quantity" firestore:"quantity"`
	Total      float64     `json:"total" firestore:"total"`
	Status     OrderStatus `json:"status" firestore:"status"`
	CreatedAt  time.Time   `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time   `json:"updated_at" firestore:"updatedAt"`
}

// OrderCounts is a per-identity tally, recomputed whole from the fetched
// order set whenever an order is created or its status changes.
type OrderCounts struct {
	All       int `json:"all"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Shipped   int `json:"shipped"`
	Delivered int `json:"delivered"`
}
