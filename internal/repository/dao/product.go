package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey"`
	Title       string  `gorm:"size:255;not null"`
	Description string  `gorm:"size:5000;not null"`
	Photo       string  `gorm:"size:255"`
	Price       float64 `gorm:"not null"`
	CategoryID  uint    `gorm:"not null;index"`
	SellerID    uint    `gorm:"not null;index"`

	Category Category `gorm:"foreignKey:CategoryID"`
	Seller   User     `gorm:"foreignKey:SellerID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ProductDAO struct {
	db *gorm.DB
}

func NewProductDAO(db *gorm.DB) *ProductDAO {
	return &ProductDAO{
		db: db,
	}
}

func (d *ProductDAO) Insert(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Create(&product)
	if result.Error != nil {
		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) FindByID(ctx context.Context, id uint) (Product, error) {
	var product Product

	result := d.db.WithContext(ctx).First(&product, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Product{}, ErrProductNotFound
		}

		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) Update(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Model(&Product{ID: product.ID}).
		Select("title", "description", "photo", "price", "category_id").Updates(&product)
	if result.Error != nil {
		return Product{}, result.Error
	}

	return d.FindByID(ctx, product.ID)
}

func (d *ProductDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (d *ProductDAO) List(ctx context.Context, categoryID uint, search string, limit, offset int) ([]Product, error) {
	var products []Product

	query := d.db.WithContext(ctx).Model(&Product{})
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	result := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

func (d *ProductDAO) ListBySeller(ctx context.Context, sellerID uint) ([]Product, error) {
	var products []Product

	result := d.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

func (d *ProductDAO) CountBySeller(ctx context.Context, sellerID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Product{}).
		Where("seller_id = ?", sellerID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *ProductDAO) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category

	result := d.db.WithContext(ctx).Order("id ASC").Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}
