package entity

import "time"

type CartItem struct {
	ID        string    `json:"id" firestore:"id"`
	ClientID  string    `json:"client_id" firestore:"clientId"`
	ProductID string    `json:"product_id" firestore:"productId"`
	Quantity  int       `json:"quantity" firestore:"quantity"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type CartItemWithProduct struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product"`
	CreatedAt time.Time `json:"created_at"`
}
