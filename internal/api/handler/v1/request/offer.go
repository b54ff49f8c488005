package request

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateOfferRequest struct {
	ProductID string  `json:"product_id"`
	Price     float64 `json:"price"`
}

func (req *CreateOfferRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ProductID, validation.Required),
		validation.Field(&req.Price, validation.Required, validation.Min(0.01)),
	)
}

type UpdateOfferPriceRequest struct {
	Price float64 `json:"price"`
}

func (req *UpdateOfferPriceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Price, validation.Required, validation.Min(0.01)),
	)
}

type AcceptOfferRequest struct {
	Instructions string `json:"instructions"`
}

func (req *AcceptOfferRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Instructions, validation.Length(0, 500)),
	)
}

type UpdateInstructionsRequest struct {
	Instructions string `json:"instructions"`
}

func (req *UpdateInstructionsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Instructions, validation.Required, validation.Length(1, 500)),
	)
}
