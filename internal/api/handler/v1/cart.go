package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhvt2810/canteen-api/internal/api/handler/v1/request"
	"github.com/minhvt2810/canteen-api/internal/api/handler/v1/response"
	"github.com/minhvt2810/canteen-api/internal/domain"
	"github.com/minhvt2810/canteen-api/internal/service"
)

type CartService interface {
	Get(userID uint) *domain.Cart
	AddItem(ctx context.Context, userID, dishID, menuDayID uint) (*domain.Cart, error)
	ChangeQuantity(ctx context.Context, userID, dishID uint, delta int) (*domain.Cart, error)
	RemoveItem(userID, dishID uint) *domain.Cart
	Clear(userID uint) *domain.Cart
}

type CartHandler struct {
	svc  CartService
	uSvc UserService
}

func NewCartHandler(svc CartService, uSvc UserService) *CartHandler {
	return &CartHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetCart godoc
// @Summary      Get the session cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  response.CartResponse
// @Failure      401  {object}  response.Err
// @Router       /cart [get]
// @Security BearerAuth
func (h *CartHandler) HandleGetCart(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	ctx.JSON(http.StatusOK, response.NewCartResponse(h.svc.Get(user.ID)))
}

// HandleAddCartItem godoc
// @Summary      Add one unit of a dish to the cart
// @Description  Quantity is capped at min(5, remaining stock). Adding a dish
// @Description  from a different menu day than the cart's is rejected until
// @Description  the cart is cleared.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        input  body      request.AddCartItemRequest  true  "dish and menu day"
// @Success      200  {object}  response.CartResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /cart/items [post]
// @Security BearerAuth
func (h *CartHandler) HandleAddCartItem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	cart, err := h.svc.AddItem(ctx.Request.Context(), user.ID, req.DishID, req.MenuDayID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCrossMenuConflict):
			response.RenderErr(ctx, response.ErrConflict(service.ErrCrossMenuConflict))
		case errors.Is(err, service.ErrDishNotFound):
			response.RenderErr(ctx, response.ErrNotFound("dish", "dishID", req.DishID))
		case errors.Is(err, service.ErrMenuDayNotFound):
			response.RenderErr(ctx, response.ErrNotFound("menu day", "menuDayID", req.MenuDayID))
		default:
			err = fmt.Errorf("v1.HandleAddCartItem -> h.svc.AddItem -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.NewCartResponse(cart))
}

// HandleChangeCartQuantity godoc
// @Summary      Change a cart line's quantity by a delta
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        dishID  path   int  true  "dish ID"
// @Param        input  body      request.ChangeCartQuantityRequest  true  "delta"
// @Success      200  {object}  response.CartResponse
// @Failure      400  {object}  response.Err
// @Router       /cart/items/{dishID} [patch]
// @Security BearerAuth
func (h *CartHandler) HandleChangeCartQuantity(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	dishID, err := parseIDParam(ctx, "dishID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.ChangeCartQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	cart, err := h.svc.ChangeQuantity(ctx.Request.Context(), user.ID, dishID, req.Delta)
	if err != nil {
		err = fmt.Errorf("v1.HandleChangeCartQuantity -> h.svc.ChangeQuantity -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewCartResponse(cart))
}

// HandleRemoveCartItem godoc
// @Summary      Remove a dish from the cart
// @Tags         cart
// @Produce      json
// @Param        dishID  path   int  true  "dish ID"
// @Success      200  {object}  response.CartResponse
// @Failure      400  {object}  response.Err
// @Router       /cart/items/{dishID} [delete]
// @Security BearerAuth
func (h *CartHandler) HandleRemoveCartItem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	dishID, err := parseIDParam(ctx, "dishID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewCartResponse(h.svc.RemoveItem(user.ID, dishID)))
}

// HandleClearCart godoc
// @Summary      Empty the cart, releasing its menu-day pin
// @Tags         cart
// @Produce      json
// @Success      200  {object}  response.CartResponse
// @Router       /cart [delete]
// @Security BearerAuth
func (h *CartHandler) HandleClearCart(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	ctx.JSON(http.StatusOK, response.NewCartResponse(h.svc.Clear(user.ID)))
}
