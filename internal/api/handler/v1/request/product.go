package request

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Photo       string  `json:"photo"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"category_id"`
}

func (req *CreateProductRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 1000)),
		validation.Field(&req.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&req.CategoryID, validation.Required),
	)
}

type UpdateProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Photo       string  `json:"photo"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"category_id"`
}

func (req *UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 1000)),
		validation.Field(&req.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&req.CategoryID, validation.Required),
	)
}
