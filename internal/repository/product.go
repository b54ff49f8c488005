package repository

import (
	"context"
	"fmt"

	"github.com/al3-rom/wannago/internal/domain"
	"github.com/al3-rom/wannago/internal/repository/dao"
)

var ErrProductNotFound = dao.ErrProductNotFound

type ProductDAO interface {
	Insert(ctx context.Context, product dao.Product) (dao.Product, error)
	FindByID(ctx context.Context, id uint) (dao.Product, error)
	Update(ctx context.Context, product dao.Product) (dao.Product, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, categoryID uint, search string, limit, offset int) ([]dao.Product, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]dao.Product, error)
	CountBySeller(ctx context.Context, sellerID uint) (int64, error)
	Categories(ctx context.Context) ([]dao.Category, error)
}

type ProductRepository struct {
	dao ProductDAO
}

func NewProductRepository(dao ProductDAO) *ProductRepository {
	return &ProductRepository{
		dao: dao,
	}
}

func (r *ProductRepository) daoToDomain(p dao.Product) domain.Product {
	return domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Photo:       p.Photo,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		SellerID:    p.SellerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *ProductRepository) domainToDao(p domain.Product) dao.Product {
	return dao.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Photo:       p.Photo,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		SellerID:    p.SellerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *ProductRepository) daosToDomain(products []dao.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = r.daoToDomain(p)
	}
	return out
}

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (domain.Product, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ProductRepository) List(ctx context.Context, categoryID uint, search string, limit, offset int) ([]domain.Product, error) {
	found, err := r.dao.List(ctx, categoryID, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID uint) ([]domain.Product, error) {
	found, err := r.dao.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListBySeller -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ProductRepository) CountBySeller(ctx context.Context, sellerID uint) (int64, error) {
	count, err := r.dao.CountBySeller(ctx, sellerID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountBySeller -> %w", err)
	}

	return count, nil
}

func (r *ProductRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	found, err := r.dao.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Categories -> %w", err)
	}

	categories := make([]domain.Category, len(found))
	for i, c := range found {
		categories[i] = domain.Category{ID: c.ID, Name: c.Name}
	}

	return categories, nil
}
