package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CheckoutRequest struct {
	Notes string `json:"notes"`
}

func (req *CheckoutRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Notes, validation.Length(0, 500)),
	)
}

type SetOrderStatusRequest struct {
	Status string `json:"status"`
}

func (req *SetOrderStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In("PENDING", "FULFILLED", "INACTIVE")),
	)
}
