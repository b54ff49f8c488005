package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/al3-rom/wannago/internal/domain"
	"github.com/al3-rom/wannago/internal/repository"
)

var (
	ErrOfferNotFound         = repository.ErrOfferNotFound
	ErrDuplicateOffer        = repository.ErrDuplicateOffer
	ErrAcceptedOfferNotFound = repository.ErrAcceptedOfferNotFound
	ErrOfferAlreadyAccepted  = repository.ErrOfferAlreadyAccepted

	ErrSellerIsBuyer  = errors.New("seller cannot bid on own product")
	ErrPriceTooLow    = errors.New("offered price is below the asking price")
	ErrProductSold    = errors.New("product already has an accepted offer")
	ErrProductBlocked = errors.New("product is blocked")
	ErrSellerBlocked  = errors.New("seller is blocked")
)

type OfferRepository interface {
	Create(ctx context.Context, offer domain.Offer) (domain.Offer, error)
	FindByID(ctx context.Context, id uint) (domain.Offer, error)
	UpdatePrice(ctx context.Context, id uint, price float64) error
	Delete(ctx context.Context, id uint) error
	FindAccepted(ctx context.Context, offerID uint) (domain.AcceptedOffer, error)
	ProductSold(ctx context.Context, productID uint) (bool, error)
	Accept(ctx context.Context, offerID, productID uint, instructions string) (domain.AcceptedOffer, error)
	Revert(ctx context.Context, accepted domain.AcceptedOffer) error
	UpdateInstructions(ctx context.Context, offerID uint, instructions string) error
	PendingByBuyer(ctx context.Context, buyerID uint) ([]domain.Offer, error)
	AcceptedByBuyer(ctx context.Context, buyerID uint) ([]domain.AcceptedOffer, error)
	InactiveByBuyer(ctx context.Context, buyerID uint) ([]domain.Offer, error)
	ActiveBySeller(ctx context.Context, sellerID uint) ([]domain.Offer, error)
	InactiveBySeller(ctx context.Context, sellerID uint) ([]domain.Offer, error)
	AcceptedBySeller(ctx context.Context, sellerID uint) ([]domain.AcceptedOffer, error)
	SumAcceptedSales(ctx context.Context, sellerID uint) (float64, error)
	SumAcceptedPurchases(ctx context.Context, buyerID uint) (float64, error)
}

type OfferProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]domain.Product, error)
}

// OfferService drives an offer through its lifecycle: pending, accepted,
// deactivated, reverted. A product can carry at most one accepted offer
// at a time, and accepting one deactivates every offer on the product.
type OfferService struct {
	offers   OfferRepository
	products OfferProductRepository
	blocks   GateBlockRepository
	gate     *Gate
}

func NewOfferService(offers OfferRepository, products OfferProductRepository, blocks GateBlockRepository, gate *Gate) *OfferService {
	return &OfferService{
		offers:   offers,
		products: products,
		blocks:   blocks,
		gate:     gate,
	}
}

// Submit places a new offer by the actor on the given product.
// The offered price must meet the asking price, the product and its
// seller must not be blocked, the product must not be sold, and the
// actor may hold at most one offer per product.
func (s *OfferService) Submit(ctx context.Context, actor domain.User, productID uint, price float64) (domain.Offer, error) {
	if err := s.gate.Authorize(ctx, actor, CapTrade); err != nil {
		return domain.Offer{}, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("s.products.FindByID -> %w", err)
	}

	if product.SellerID == actor.ID {
		return domain.Offer{}, ErrSellerIsBuyer
	}

	productBlocked, err := s.blocks.IsProductBlocked(ctx, productID)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("s.blocks.IsProductBlocked -> %w", err)
	}
	if productBlocked {
		return domain.Offer{}, ErrProductBlocked
	}

	sellerBlocked, err := s.blocks.IsUserBlocked(ctx, product.SellerID)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("s.blocks.IsUserBlocked -> %w", err)
	}
	if sellerBlocked {
		return domain.Offer{}, ErrSellerBlocked
	}

	if price < product.Price {
		return domain.Offer{}, ErrPriceTooLow
	}

	sold, err := s.offers.ProductSold(ctx, productID)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("s.offers.ProductSold -> %w", err)
	}
	if sold {
		return domain.Offer{}, ErrProductSold
	}

	offer, err := s.offers.Create(ctx, domain.Offer{
		ProductID: productID,
		BuyerID:   actor.ID,
		Price:     price,
	})
	if err != nil {
		return domain.Offer{}, fmt.Errorf("s.offers.Create -> %w", err)
	}

	zap.L().Info("offer submitted",
		zap.Uint("offer_id", offer.ID),
		zap.Uint("product_id", productID),
		zap.Uint("buyer_id", actor.ID),
		zap.Float64("price", price))

	return offer, nil
}

// UpdatePrice re-bids a pending offer. Accepted offers are immutable.
func (s *OfferService) UpdatePrice(ctx context.Context, actor domain.User, offerID uint, price float64) error {
	if err := s.gate.Authorize(ctx, actor, CapTrade); err != nil {
		return err
	}

	offer, err := s.offers.FindByID(ctx, offerID)
	if err != nil {
		return fmt.Errorf("s.offers.FindByID -> %w", err)
	}
	if offer.BuyerID != actor.ID {
		return ErrForbidden
	}

	if _, err := s.offers.FindAccepted(ctx, offerID); err == nil {
		return ErrOfferAlreadyAccepted
	} else if !errors.Is(err, ErrAcceptedOfferNotFound) {
		return fmt.Errorf("s.offers.FindAccepted -> %w", err)
	}

	product, err := s.products.FindByID(ctx, offer.ProductID)
	if err != nil {
		return fmt.Errorf("s.products.FindByID -> %w", err)
	}
	if price < product.Price {
		return ErrPriceTooLow
	}

	if err := s.offers.UpdatePrice(ctx, offerID, price); err != nil {
		return fmt.Errorf("s.offers.UpdatePrice -> %w", err)
	}

	return nil
}

// Withdraw removes a pending offer placed by the actor.
func (s *OfferService) Withdraw(ctx context.Context, actor domain.User, offerID uint) error {
	if err := s.gate.Authorize(ctx, actor, CapTrade); err != nil {
		return err
	}

	offer, err := s.offers.FindByID(ctx, offerID)
	if err != nil {
		return fmt.Errorf("s.offers.FindByID -> %w", err)
	}
	if offer.BuyerID != actor.ID {
		return ErrForbidden
	}

	if _, err := s.offers.FindAccepted(ctx, offerID); err == nil {
		return ErrOfferAlreadyAccepted
	} else if !errors.Is(err, ErrAcceptedOfferNotFound) {
		return fmt.Errorf("s.offers.FindAccepted -> %w", err)
	}

	if err := s.offers.Delete(ctx, offerID); err != nil {
		return fmt.Errorf("s.offers.Delete -> %w", err)
	}

	return nil
}

// Accept marks the offer as the product's sale. Every offer on the
// product, the accepted one included, is deactivated in the same
// transaction. A second accept on the same product fails.
func (s *OfferService) Accept(ctx context.Context, actor domain.User, offerID uint, instructions string) (domain.AcceptedOffer, error) {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return domain.AcceptedOffer{}, err
	}

	offer, err := s.offers.FindByID(ctx, offerID)
	if err != nil {
		return domain.AcceptedOffer{}, fmt.Errorf("s.offers.FindByID -> %w", err)
	}

	product, err := s.products.FindByID(ctx, offer.ProductID)
	if err != nil {
		return domain.AcceptedOffer{}, fmt.Errorf("s.products.FindByID -> %w", err)
	}
	if product.SellerID != actor.ID {
		return domain.AcceptedOffer{}, ErrForbidden
	}

	accepted, err := s.offers.Accept(ctx, offerID, offer.ProductID, instructions)
	if err != nil {
		return domain.AcceptedOffer{}, fmt.Errorf("s.offers.Accept -> %w", err)
	}

	zap.L().Info("offer accepted",
		zap.Uint("offer_id", offerID),
		zap.Uint("product_id", offer.ProductID),
		zap.Uint("seller_id", actor.ID))

	return accepted, nil
}

// Revert undoes an acceptance and reactivates every offer on the
// product, returning it to the pending state.
func (s *OfferService) Revert(ctx context.Context, actor domain.User, offerID uint) error {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return err
	}

	accepted, err := s.offers.FindAccepted(ctx, offerID)
	if err != nil {
		return fmt.Errorf("s.offers.FindAccepted -> %w", err)
	}

	product, err := s.products.FindByID(ctx, accepted.ProductID)
	if err != nil {
		return fmt.Errorf("s.products.FindByID -> %w", err)
	}
	if product.SellerID != actor.ID {
		return ErrForbidden
	}

	if err := s.offers.Revert(ctx, accepted); err != nil {
		return fmt.Errorf("s.offers.Revert -> %w", err)
	}

	zap.L().Info("acceptance reverted",
		zap.Uint("offer_id", offerID),
		zap.Uint("product_id", accepted.ProductID))

	return nil
}

// UpdateInstructions sets the handover instructions on an accepted
// offer. Only the product's seller may edit them.
func (s *OfferService) UpdateInstructions(ctx context.Context, actor domain.User, offerID uint, instructions string) error {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return err
	}

	accepted, err := s.offers.FindAccepted(ctx, offerID)
	if err != nil {
		return fmt.Errorf("s.offers.FindAccepted -> %w", err)
	}

	product, err := s.products.FindByID(ctx, accepted.ProductID)
	if err != nil {
		return fmt.Errorf("s.products.FindByID -> %w", err)
	}
	if product.SellerID != actor.ID {
		return ErrForbidden
	}

	if err := s.offers.UpdateInstructions(ctx, offerID, instructions); err != nil {
		return fmt.Errorf("s.offers.UpdateInstructions -> %w", err)
	}

	return nil
}

// PendingPurchases lists the actor's offers that are still awaiting a
// seller decision.
func (s *OfferService) PendingPurchases(ctx context.Context, actor domain.User) ([]domain.Offer, error) {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return nil, err
	}

	offers, err := s.offers.PendingByBuyer(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("s.offers.PendingByBuyer -> %w", err)
	}

	return offers, nil
}

// AcceptedPurchases lists the actor's offers the seller accepted.
func (s *OfferService) AcceptedPurchases(ctx context.Context, actor domain.User) ([]domain.AcceptedOffer, error) {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return nil, err
	}

	accepted, err := s.offers.AcceptedByBuyer(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("s.offers.AcceptedByBuyer -> %w", err)
	}

	return accepted, nil
}

// InactivePurchases lists the actor's offers deactivated because the
// product sold to someone else.
func (s *OfferService) InactivePurchases(ctx context.Context, actor domain.User) ([]domain.Offer, error) {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return nil, err
	}

	offers, err := s.offers.InactiveByBuyer(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("s.offers.InactiveByBuyer -> %w", err)
	}

	return offers, nil
}

// PendingSales lists the active offers on the actor's products, grouped
// per product.
func (s *OfferService) PendingSales(ctx context.Context, actor domain.User) ([]domain.ProductOffers, error) {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return nil, err
	}

	offers, err := s.offers.ActiveBySeller(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("s.offers.ActiveBySeller -> %w", err)
	}

	return s.groupByProduct(ctx, actor.ID, offers)
}

// InactiveSales lists the deactivated offers on the actor's products,
// grouped per product.
func (s *OfferService) InactiveSales(ctx context.Context, actor domain.User) ([]domain.ProductOffers, error) {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return nil, err
	}

	offers, err := s.offers.InactiveBySeller(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("s.offers.InactiveBySeller -> %w", err)
	}

	return s.groupByProduct(ctx, actor.ID, offers)
}

// AcceptedSales lists the actor's completed sales.
func (s *OfferService) AcceptedSales(ctx context.Context, actor domain.User) ([]domain.AcceptedOffer, error) {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return nil, err
	}

	accepted, err := s.offers.AcceptedBySeller(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("s.offers.AcceptedBySeller -> %w", err)
	}

	return accepted, nil
}

func (s *OfferService) groupByProduct(ctx context.Context, sellerID uint, offers []domain.Offer) ([]domain.ProductOffers, error) {
	products, err := s.products.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("s.products.ListBySeller -> %w", err)
	}

	byProduct := make(map[uint][]domain.Offer, len(products))
	for _, o := range offers {
		byProduct[o.ProductID] = append(byProduct[o.ProductID], o)
	}

	grouped := make([]domain.ProductOffers, 0, len(products))
	for _, p := range products {
		if group, ok := byProduct[p.ID]; ok {
			grouped = append(grouped, domain.ProductOffers{
				Product: p,
				Offers:  group,
			})
		}
	}

	return grouped, nil
}

// Balance recomputes the user's net position from the accepted offer
// rows: credits from sales minus debits from purchases.
func (s *OfferService) Balance(ctx context.Context, userID uint) (float64, error) {
	sales, err := s.offers.SumAcceptedSales(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("s.offers.SumAcceptedSales -> %w", err)
	}

	purchases, err := s.offers.SumAcceptedPurchases(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("s.offers.SumAcceptedPurchases -> %w", err)
	}

	return sales - purchases, nil
}
