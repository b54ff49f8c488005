package domain

import "time"

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Photo       string    `json:"photo"`
	Price       float64   `json:"price"`
	CategoryID  uint      `json:"category_id"`
	SellerID    uint      `json:"seller_id"`
	Blocked     bool      `json:"blocked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
