package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID
	Email    string
	PassHash []byte
}

type Product struct {
	ID       uuid.UUID
	Name     string
	Price    float64
	ImageURL string
}

// ProductPatch carries a partial product update; nil fields are left as is.
type ProductPatch struct {
	Name     *string
	Price    *float64
	ImageURL *string
}

type Order struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	UserID    uuid.UUID
	Quantity  int
	CreatedAt time.Time
}

// OrderEvent is the message published to the notifications queue when
// an order is created.
type OrderEvent struct {
	OrderID   string `json:"order_id"`
	Email     string `json:"email"`
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	CreatedAt string `json:"created_at"`
}
