package response

import (
	"time"

	"github.com/al3-rom/wannago/internal/domain"
)

// IDEncoder turns numeric database IDs into the opaque strings exposed
// in API payloads and URLs.
type IDEncoder interface {
	Encode(id uint) string
}

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

func NewUser(ids IDEncoder, u domain.User) User {
	return User{
		ID:       ids.Encode(u.ID),
		Email:    u.Email,
		Name:     u.Name,
		Avatar:   u.Avatar,
		Role:     u.Role.String(),
		Verified: u.Verified,
	}
}

func NewUsers(ids IDEncoder, users []domain.User) []User {
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = NewUser(ids, u)
	}
	return out
}

type UserCard struct {
	User

	TotalOffers   int `json:"total_offers"`
	AcceptedSales int `json:"accepted_sales"`
}

func NewUserCard(ids IDEncoder, u domain.User, stats domain.UserStats) UserCard {
	return UserCard{
		User:          NewUser(ids, u),
		TotalOffers:   stats.TotalOffers,
		AcceptedSales: stats.AcceptedSales,
	}
}

type Profile struct {
	User

	Balance float64 `json:"balance"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewCategories(ids IDEncoder, categories []domain.Category) []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{ID: ids.Encode(c.ID), Name: c.Name}
	}
	return out
}

type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Photo       string    `json:"photo"`
	Price       float64   `json:"price"`
	CategoryID  string    `json:"category_id"`
	SellerID    string    `json:"seller_id"`
	Blocked     bool      `json:"blocked"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewProduct(ids IDEncoder, p domain.Product) Product {
	return Product{
		ID:          ids.Encode(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Photo:       p.Photo,
		Price:       p.Price,
		CategoryID:  ids.Encode(p.CategoryID),
		SellerID:    ids.Encode(p.SellerID),
		Blocked:     p.Blocked,
		CreatedAt:   p.CreatedAt,
	}
}

func NewProducts(ids IDEncoder, products []domain.Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = NewProduct(ids, p)
	}
	return out
}

type Offer struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	BuyerID   string    `json:"buyer_id"`
	Price     float64   `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewOffer(ids IDEncoder, o domain.Offer) Offer {
	return Offer{
		ID:        ids.Encode(o.ID),
		ProductID: ids.Encode(o.ProductID),
		BuyerID:   ids.Encode(o.BuyerID),
		Price:     o.Price,
		Active:    o.Active,
		CreatedAt: o.CreatedAt,
	}
}

func NewOffers(ids IDEncoder, offers []domain.Offer) []Offer {
	out := make([]Offer, len(offers))
	for i, o := range offers {
		out[i] = NewOffer(ids, o)
	}
	return out
}

type AcceptedOffer struct {
	OfferID      string    `json:"offer_id"`
	ProductID    string    `json:"product_id"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewAcceptedOffer(ids IDEncoder, a domain.AcceptedOffer) AcceptedOffer {
	return AcceptedOffer{
		OfferID:      ids.Encode(a.OfferID),
		ProductID:    ids.Encode(a.ProductID),
		Instructions: a.Instructions,
		CreatedAt:    a.CreatedAt,
	}
}

func NewAcceptedOffers(ids IDEncoder, accepted []domain.AcceptedOffer) []AcceptedOffer {
	out := make([]AcceptedOffer, len(accepted))
	for i, a := range accepted {
		out[i] = NewAcceptedOffer(ids, a)
	}
	return out
}

type ProductOffers struct {
	Product Product `json:"product"`
	Offers  []Offer `json:"offers"`
}

func NewProductOffers(ids IDEncoder, grouped []domain.ProductOffers) []ProductOffers {
	out := make([]ProductOffers, len(grouped))
	for i, g := range grouped {
		out[i] = ProductOffers{
			Product: NewProduct(ids, g.Product),
			Offers:  NewOffers(ids, g.Offers),
		}
	}
	return out
}

type BlockedUser struct {
	UserID      string    `json:"user_id"`
	ModeratorID string    `json:"moderator_id"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewBlockedUser(ids IDEncoder, b domain.BlockedUser) BlockedUser {
	return BlockedUser{
		UserID:      ids.Encode(b.UserID),
		ModeratorID: ids.Encode(b.ModeratorID),
		Reason:      b.Reason,
		CreatedAt:   b.CreatedAt,
	}
}

type BlockedProduct struct {
	ProductID   string    `json:"product_id"`
	ModeratorID string    `json:"moderator_id"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewBlockedProduct(ids IDEncoder, b domain.BlockedProduct) BlockedProduct {
	return BlockedProduct{
		ProductID:   ids.Encode(b.ProductID),
		ModeratorID: ids.Encode(b.ModeratorID),
		Reason:      b.Reason,
		CreatedAt:   b.CreatedAt,
	}
}

type BlockOverview struct {
	Users    []BlockedUser    `json:"users"`
	Products []BlockedProduct `json:"products"`
}

func NewBlockOverview(ids IDEncoder, users []domain.BlockedUser, products []domain.BlockedProduct) BlockOverview {
	overview := BlockOverview{
		Users:    make([]BlockedUser, len(users)),
		Products: make([]BlockedProduct, len(products)),
	}
	for i, b := range users {
		overview.Users[i] = NewBlockedUser(ids, b)
	}
	for i, b := range products {
		overview.Products[i] = NewBlockedProduct(ids, b)
	}
	return overview
}
