package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type AddCartItemRequest struct {
	DishID    uint `json:"dish_id"`
	MenuDayID uint `json:"menu_day_id"`
}

func (req *AddCartItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.DishID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.MenuDayID, validation.Required, validation.Min(uint(1))),
	)
}

type ChangeCartQuantityRequest struct {
	Delta int `json:"delta"`
}

func (req *ChangeCartQuantityRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Delta, validation.Required, validation.Min(-100), validation.Max(100)),
	)
}
