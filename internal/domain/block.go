package domain

import "time"

// Block records point at the blocked entity by primary key; the row's
// existence is the blocked state.

type BlockedUser struct {
	UserID      uint      `json:"user_id"`
	ModeratorID uint      `json:"moderator_id"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

type BlockedProduct struct {
	ProductID   uint      `json:"product_id"`
	ModeratorID uint      `json:"moderator_id"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}
