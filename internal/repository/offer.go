package repository

import (
	"context"
	"fmt"

	"github.com/al3-rom/wannago/internal/domain"
	"github.com/al3-rom/wannago/internal/repository/dao"
)

var (
	ErrOfferNotFound         = dao.ErrOfferNotFound
	ErrDuplicateOffer        = dao.ErrDuplicateOffer
	ErrAcceptedOfferNotFound = dao.ErrAcceptedOfferNotFound
	ErrOfferAlreadyAccepted  = dao.ErrOfferAlreadyAccepted
)

type OfferDAO interface {
	Insert(ctx context.Context, offer dao.Offer) (dao.Offer, error)
	FindByID(ctx context.Context, id uint) (dao.Offer, error)
	UpdatePrice(ctx context.Context, id uint, price float64) error
	Delete(ctx context.Context, id uint) error
	FindAccepted(ctx context.Context, offerID uint) (dao.AcceptedOffer, error)
	ProductSold(ctx context.Context, productID uint) (bool, error)
	Accept(ctx context.Context, accepted dao.AcceptedOffer) (dao.AcceptedOffer, error)
	Revert(ctx context.Context, accepted dao.AcceptedOffer) error
	UpdateInstructions(ctx context.Context, offerID uint, instructions string) error
	PendingByBuyer(ctx context.Context, buyerID uint) ([]dao.Offer, error)
	AcceptedByBuyer(ctx context.Context, buyerID uint) ([]dao.AcceptedOffer, error)
	InactiveByBuyer(ctx context.Context, buyerID uint) ([]dao.Offer, error)
	ActiveBySeller(ctx context.Context, sellerID uint) ([]dao.Offer, error)
	InactiveBySeller(ctx context.Context, sellerID uint) ([]dao.Offer, error)
	AcceptedBySeller(ctx context.Context, sellerID uint) ([]dao.AcceptedOffer, error)
	CountByBuyer(ctx context.Context, buyerID uint) (int64, error)
	CountByProduct(ctx context.Context, productID uint) (int64, error)
	SumAcceptedSales(ctx context.Context, sellerID uint) (float64, error)
	SumAcceptedPurchases(ctx context.Context, buyerID uint) (float64, error)
}

type OfferRepository struct {
	dao OfferDAO
}

func NewOfferRepository(dao OfferDAO) *OfferRepository {
	return &OfferRepository{
		dao: dao,
	}
}

func (r *OfferRepository) daoToDomain(o dao.Offer) domain.Offer {
	return domain.Offer{
		ID:        o.ID,
		ProductID: o.ProductID,
		BuyerID:   o.BuyerID,
		Price:     o.Price,
		Active:    o.Active,
		CreatedAt: o.CreatedAt,
	}
}

func (r *OfferRepository) daosToDomain(offers []dao.Offer) []domain.Offer {
	out := make([]domain.Offer, len(offers))
	for i, o := range offers {
		out[i] = r.daoToDomain(o)
	}
	return out
}

func (r *OfferRepository) acceptedDaoToDomain(a dao.AcceptedOffer) domain.AcceptedOffer {
	return domain.AcceptedOffer{
		OfferID:      a.OfferID,
		ProductID:    a.ProductID,
		Instructions: a.Instructions,
		CreatedAt:    a.CreatedAt,
	}
}

func (r *OfferRepository) acceptedDaosToDomain(accepted []dao.AcceptedOffer) []domain.AcceptedOffer {
	out := make([]domain.AcceptedOffer, len(accepted))
	for i, a := range accepted {
		out[i] = r.acceptedDaoToDomain(a)
	}
	return out
}

func (r *OfferRepository) Create(ctx context.Context, offer domain.Offer) (domain.Offer, error) {
	created, err := r.dao.Insert(ctx, dao.Offer{
		ProductID: offer.ProductID,
		BuyerID:   offer.BuyerID,
		Price:     offer.Price,
		Active:    true,
	})
	if err != nil {
		return domain.Offer{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id uint) (domain.Offer, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *OfferRepository) UpdatePrice(ctx context.Context, id uint, price float64) error {
	if err := r.dao.UpdatePrice(ctx, id, price); err != nil {
		return fmt.Errorf("r.dao.UpdatePrice -> %w", err)
	}

	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *OfferRepository) FindAccepted(ctx context.Context, offerID uint) (domain.AcceptedOffer, error) {
	found, err := r.dao.FindAccepted(ctx, offerID)
	if err != nil {
		return domain.AcceptedOffer{}, fmt.Errorf("r.dao.FindAccepted -> %w", err)
	}

	return r.acceptedDaoToDomain(found), nil
}

func (r *OfferRepository) ProductSold(ctx context.Context, productID uint) (bool, error) {
	sold, err := r.dao.ProductSold(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("r.dao.ProductSold -> %w", err)
	}

	return sold, nil
}

func (r *OfferRepository) Accept(ctx context.Context, offerID, productID uint, instructions string) (domain.AcceptedOffer, error) {
	accepted, err := r.dao.Accept(ctx, dao.AcceptedOffer{
		OfferID:      offerID,
		ProductID:    productID,
		Instructions: instructions,
	})
	if err != nil {
		return domain.AcceptedOffer{}, fmt.Errorf("r.dao.Accept -> %w", err)
	}

	return r.acceptedDaoToDomain(accepted), nil
}

func (r *OfferRepository) Revert(ctx context.Context, accepted domain.AcceptedOffer) error {
	err := r.dao.Revert(ctx, dao.AcceptedOffer{
		OfferID:   accepted.OfferID,
		ProductID: accepted.ProductID,
	})
	if err != nil {
		return fmt.Errorf("r.dao.Revert -> %w", err)
	}

	return nil
}

func (r *OfferRepository) UpdateInstructions(ctx context.Context, offerID uint, instructions string) error {
	if err := r.dao.UpdateInstructions(ctx, offerID, instructions); err != nil {
		return fmt.Errorf("r.dao.UpdateInstructions -> %w", err)
	}

	return nil
}

func (r *OfferRepository) PendingByBuyer(ctx context.Context, buyerID uint) ([]domain.Offer, error) {
	found, err := r.dao.PendingByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.PendingByBuyer -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *OfferRepository) AcceptedByBuyer(ctx context.Context, buyerID uint) ([]domain.AcceptedOffer, error) {
	found, err := r.dao.AcceptedByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.AcceptedByBuyer -> %w", err)
	}

	return r.acceptedDaosToDomain(found), nil
}

func (r *OfferRepository) InactiveByBuyer(ctx context.Context, buyerID uint) ([]domain.Offer, error) {
	found, err := r.dao.InactiveByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InactiveByBuyer -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *OfferRepository) ActiveBySeller(ctx context.Context, sellerID uint) ([]domain.Offer, error) {
	found, err := r.dao.ActiveBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ActiveBySeller -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *OfferRepository) InactiveBySeller(ctx context.Context, sellerID uint) ([]domain.Offer, error) {
	found, err := r.dao.InactiveBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InactiveBySeller -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *OfferRepository) AcceptedBySeller(ctx context.Context, sellerID uint) ([]domain.AcceptedOffer, error) {
	found, err := r.dao.AcceptedBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.AcceptedBySeller -> %w", err)
	}

	return r.acceptedDaosToDomain(found), nil
}

func (r *OfferRepository) CountByBuyer(ctx context.Context, buyerID uint) (int64, error) {
	count, err := r.dao.CountByBuyer(ctx, buyerID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByBuyer -> %w", err)
	}

	return count, nil
}

func (r *OfferRepository) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	count, err := r.dao.CountByProduct(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByProduct -> %w", err)
	}

	return count, nil
}

func (r *OfferRepository) SumAcceptedSales(ctx context.Context, sellerID uint) (float64, error) {
	total, err := r.dao.SumAcceptedSales(ctx, sellerID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumAcceptedSales -> %w", err)
	}

	return total, nil
}

func (r *OfferRepository) SumAcceptedPurchases(ctx context.Context, buyerID uint) (float64, error) {
	total, err := r.dao.SumAcceptedPurchases(ctx, buyerID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumAcceptedPurchases -> %w", err)
	}

	return total, nil
}
