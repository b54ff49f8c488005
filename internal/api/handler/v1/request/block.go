package request

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type BlockRequest struct {
	Reason string `json:"reason"`
}

func (req *BlockRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Required, validation.Length(1, 200)),
	)
}

type BulkUnblockRequest struct {
	UserIDs    []string `json:"user_ids"`
	ProductIDs []string `json:"product_ids"`
}

func (req *BulkUnblockRequest) Validate() error {
	if len(req.UserIDs) == 0 && len(req.ProductIDs) == 0 {
		return validation.NewError("validation_empty", "at least one user or product id is required")
	}

	return nil
}
