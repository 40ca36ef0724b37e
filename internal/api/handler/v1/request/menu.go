package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateMenuDayRequest struct {
	Date string `json:"date" format:"DD/MM/YYYY"`
}

func (req *CreateMenuDayRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Date, validation.Required),
	)
}

// AttachDishRequest either creates a new dish (name, price, category set)
// or reuses an existing one (dish_id set), and opens its stock ledger row
// for the menu day.
type AttachDishRequest struct {
	DishID       uint   `json:"dish_id"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"price_cents"`
	Category     string `json:"category"`
	InitialUnits int    `json:"initial_units"`
}

func (req *AttachDishRequest) Validate() error {
	if req.DishID != 0 {
		return validation.ValidateStruct(
			req,
			validation.Field(&req.InitialUnits, validation.Min(0)),
		)
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.PriceCents, validation.Required, validation.Min(1)),
		validation.Field(&req.Category, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.InitialUnits, validation.Min(0)),
	)
}

type SetStockRequest struct {
	RemainingUnits int `json:"remaining_units"`
}

func (req *SetStockRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.RemainingUnits, validation.Min(0)),
	)
}
