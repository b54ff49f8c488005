package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/al3-rom/wannago/internal/domain"
	"github.com/al3-rom/wannago/internal/repository"
)

var ErrProductNotFound = repository.ErrProductNotFound

type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, categoryID uint, search string, limit, offset int) ([]domain.Product, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type ProductOfferRepository interface {
	ProductSold(ctx context.Context, productID uint) (bool, error)
}

// ProductService manages the catalog. Only wanners list products, only
// the owner edits them, and a sold product is frozen.
type ProductService struct {
	products ProductRepository
	offers   ProductOfferRepository
	blocks   GateBlockRepository
	gate     *Gate
}

func NewProductService(products ProductRepository, offers ProductOfferRepository, blocks GateBlockRepository, gate *Gate) *ProductService {
	return &ProductService{
		products: products,
		offers:   offers,
		blocks:   blocks,
		gate:     gate,
	}
}

func (s *ProductService) Create(ctx context.Context, actor domain.User, product domain.Product) (domain.Product, error) {
	if err := s.gate.Authorize(ctx, actor, CapTrade); err != nil {
		return domain.Product{}, err
	}

	product.SellerID = actor.ID

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.products.Create -> %w", err)
	}

	zap.L().Info("product created",
		zap.Uint("product_id", created.ID),
		zap.Uint("seller_id", actor.ID))

	return created, nil
}

// Update edits a product's listing. Sold products can no longer change.
func (s *ProductService) Update(ctx context.Context, actor domain.User, product domain.Product) (domain.Product, error) {
	if err := s.gate.Authorize(ctx, actor, CapTrade); err != nil {
		return domain.Product{}, err
	}

	current, err := s.products.FindByID(ctx, product.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.products.FindByID -> %w", err)
	}
	if current.SellerID != actor.ID {
		return domain.Product{}, ErrForbidden
	}

	sold, err := s.offers.ProductSold(ctx, product.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.offers.ProductSold -> %w", err)
	}
	if sold {
		return domain.Product{}, ErrProductSold
	}

	if product.Photo == "" {
		product.Photo = current.Photo
	}

	updated, err := s.products.Update(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.products.Update -> %w", err)
	}

	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, actor domain.User, productID uint) error {
	if err := s.gate.Authorize(ctx, actor, CapTrade); err != nil {
		return err
	}

	current, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("s.products.FindByID -> %w", err)
	}
	if current.SellerID != actor.ID {
		return ErrForbidden
	}

	sold, err := s.offers.ProductSold(ctx, productID)
	if err != nil {
		return fmt.Errorf("s.offers.ProductSold -> %w", err)
	}
	if sold {
		return ErrProductSold
	}

	if err := s.products.Delete(ctx, productID); err != nil {
		return fmt.Errorf("s.products.Delete -> %w", err)
	}

	zap.L().Info("product deleted",
		zap.Uint("product_id", productID),
		zap.Uint("seller_id", actor.ID))

	return nil
}

// Get returns a product with its block flag filled in. Blocked
// products stay visible to moderators only.
func (s *ProductService) Get(ctx context.Context, actor domain.User, productID uint) (domain.Product, error) {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return domain.Product{}, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.products.FindByID -> %w", err)
	}

	blocked, err := s.blocks.IsProductBlocked(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.blocks.IsProductBlocked -> %w", err)
	}
	if blocked && !actor.Role.AtLeast(domain.RoleModerator) && product.SellerID != actor.ID {
		return domain.Product{}, ErrBlocked
	}

	product.Blocked = blocked

	return product, nil
}

func (s *ProductService) List(ctx context.Context, actor domain.User, categoryID uint, search string, limit, offset int) ([]domain.Product, error) {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return nil, err
	}

	products, err := s.products.List(ctx, categoryID, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("s.products.List -> %w", err)
	}

	return products, nil
}

func (s *ProductService) ListMine(ctx context.Context, actor domain.User) ([]domain.Product, error) {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return nil, err
	}

	products, err := s.products.ListBySeller(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("s.products.ListBySeller -> %w", err)
	}

	return products, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.products.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.products.Categories -> %w", err)
	}

	return categories, nil
}
