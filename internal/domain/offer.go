package domain

import "time"

// Offer is a buyer's bid on a product. A buyer holds at most one offer per
// product. Active means the offer is still in the pending pool; accepting
// any offer on the product deactivates every sibling, reverting the
// acceptance reactivates them all.
type Offer struct {
	ID        uint      `json:"id"`
	ProductID uint      `json:"product_id"`
	BuyerID   uint      `json:"buyer_id"`
	Price     float64   `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// AcceptedOffer marks a closed sale. Its existence is the authoritative
// "sold" state of the product.
type AcceptedOffer struct {
	OfferID      uint      `json:"offer_id"`
	ProductID    uint      `json:"product_id"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductOffers groups a seller's pending offers under their product.
type ProductOffers struct {
	Product Product `json:"product"`
	Offers  []Offer `json:"offers"`
}
