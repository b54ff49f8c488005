package domain

import "time"

type User struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar"`
	Role       Role      `json:"role"`
	Verified   bool      `json:"verified"`
	EmailToken string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserStats are the seller-side counters shown on the user detail page.
type UserStats struct {
	TotalOffers   int `json:"total_offers"`
	AcceptedSales int `json:"accepted_sales"`
}
