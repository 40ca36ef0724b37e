package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minhvt2810/canteen-api/internal/api/handler/v1/request"
	"github.com/minhvt2810/canteen-api/internal/api/handler/v1/response"
	"github.com/minhvt2810/canteen-api/internal/domain"
	"github.com/minhvt2810/canteen-api/internal/service"
)

type CheckoutService interface {
	Commit(ctx context.Context, userID uint, cart *domain.Cart, notes string) (domain.Order, error)
}

type OrderService interface {
	ListForUser(ctx context.Context, userID uint) ([]domain.Order, error)
	ListForMenuDay(ctx context.Context, menuDayID uint) ([]domain.Order, error)
	GetForUser(ctx context.Context, orderID, userID uint, staff bool) (domain.Order, error)
	SetStatus(ctx context.Context, orderID uint, status domain.OrderStatus) (domain.Order, error)
	Withdraw(ctx context.Context, orderID, userID uint, staff bool) error
}

type OrderHandler struct {
	checkoutSvc CheckoutService
	orderSvc    OrderService
	cartSvc     CartService
	uSvc        UserService
}

func NewOrderHandler(checkoutSvc CheckoutService, orderSvc OrderService, cartSvc CartService, uSvc UserService) *OrderHandler {
	return &OrderHandler{
		checkoutSvc: checkoutSvc,
		orderSvc:    orderSvc,
		cartSvc:     cartSvc,
		uSvc:        uSvc,
	}
}

// HandleCheckout godoc
// @Summary      Commit the session cart into an order
// @Description  Creates the order and decrements stock atomically. On
// @Description  failure the cart is left intact so quantities can be
// @Description  adjusted and the checkout retried.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        input  body      request.CheckoutRequest  true  "checkout options"
// @Success      201  {object}  response.OrderResponse
// @Failure      400  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders [post]
// @Security BearerAuth
func (h *OrderHandler) HandleCheckout(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	cart := h.cartSvc.Get(user.ID)

	order, err := h.checkoutSvc.Commit(ctx.Request.Context(), user.ID, cart, req.Notes)
	if err != nil {
		var stockErr *service.InsufficientStockError

		switch {
		case errors.Is(err, service.ErrEmptyCart):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEmptyCart))
		case errors.Is(err, service.ErrMenuDayClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrMenuDayClosed))
		case errors.Is(err, service.ErrDuplicateOrder):
			response.RenderErr(ctx, response.ErrConflict(service.ErrDuplicateOrder))
		case errors.As(err, &stockErr):
			response.RenderErr(ctx, response.ErrConflict(stockErr))
		case errors.Is(err, service.ErrMenuDayNotFound):
			response.RenderErr(ctx, response.ErrNotFound("menu day", "menuDayID", cart.MenuDayID()))
		default:
			err = fmt.Errorf("v1.HandleCheckout -> h.checkoutSvc.Commit -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, response.NewOrderResponse(order))
}

// HandleListOrders godoc
// @Summary      List the current user's visible orders
// @Tags         orders
// @Produce      json
// @Success      200  {array}   response.OrderResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders [get]
// @Security BearerAuth
func (h *OrderHandler) HandleListOrders(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	orders, err := h.orderSvc.ListForUser(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListOrders -> h.orderSvc.ListForUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewOrdersResponse(orders))
}

// HandleGetOrder godoc
// @Summary      Get one of the current user's orders
// @Tags         orders
// @Produce      json
// @Param        orderID  path   int  true  "order ID"
// @Success      200  {object}  response.OrderResponse
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /orders/{orderID} [get]
// @Security BearerAuth
func (h *OrderHandler) HandleGetOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	orderID, err := parseIDParam(ctx, "orderID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	order, err := h.orderSvc.GetForUser(ctx.Request.Context(), orderID, user.ID, user.IsStaff())
	if err != nil {
		h.renderOrderErr(ctx, err, orderID, "v1.HandleGetOrder -> h.orderSvc.GetForUser")

		return
	}

	ctx.JSON(http.StatusOK, response.NewOrderResponse(order))
}

// HandleWithdrawOrder godoc
// @Summary      Withdraw an order
// @Description  A PENDING order is cancelled and its stock restored; a
// @Description  FULFILLED or INACTIVE order is only hidden from the list.
// @Tags         orders
// @Produce      json
// @Param        orderID  path   int  true  "order ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /orders/{orderID} [delete]
// @Security BearerAuth
func (h *OrderHandler) HandleWithdrawOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	orderID, err := parseIDParam(ctx, "orderID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.orderSvc.Withdraw(ctx.Request.Context(), orderID, user.ID, user.IsStaff()); err != nil {
		if errors.Is(err, service.ErrWithdrawalFailed) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrWithdrawalFailed))

			return
		}

		h.renderOrderErr(ctx, err, orderID, "v1.HandleWithdrawOrder -> h.orderSvc.Withdraw")

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListMenuDayOrders godoc
// @Summary      List every order for a menu day (staff)
// @Tags         staff
// @Produce      json
// @Param        menu_day  query  int  true  "menu day ID"
// @Success      200  {array}   response.OrderResponse
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /staff/orders [get]
// @Security BearerAuth
func (h *OrderHandler) HandleListMenuDayOrders(ctx *gin.Context) {
	if _, respErr := requireStaff(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	menuDayID, err := parseIDQuery(ctx, "menu_day")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	orders, err := h.orderSvc.ListForMenuDay(ctx.Request.Context(), menuDayID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMenuDayOrders -> h.orderSvc.ListForMenuDay -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewOrdersResponse(orders))
}

// HandleSetOrderStatus godoc
// @Summary      Set an order's status (staff)
// @Description  PENDING, FULFILLED and INACTIVE are all settable from any
// @Description  other status; there is no terminal state.
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        orderID  path   int  true  "order ID"
// @Param        input  body      request.SetOrderStatusRequest  true  "status"
// @Success      200  {object}  response.OrderResponse
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /staff/orders/{orderID}/status [patch]
// @Security BearerAuth
func (h *OrderHandler) HandleSetOrderStatus(ctx *gin.Context) {
	if _, respErr := requireStaff(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	orderID, err := parseIDParam(ctx, "orderID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.SetOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	order, err := h.orderSvc.SetStatus(ctx.Request.Context(), orderID, status)
	if err != nil {
		h.renderOrderErr(ctx, err, orderID, "v1.HandleSetOrderStatus -> h.orderSvc.SetStatus")

		return
	}

	ctx.JSON(http.StatusOK, response.NewOrderResponse(order))
}

func (h *OrderHandler) renderOrderErr(ctx *gin.Context, err error, orderID uint, op string) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		response.RenderErr(ctx, response.ErrNotFound("order", "orderID", orderID))
	case errors.Is(err, service.ErrNotOrderOwner):
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotOrderOwner))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

func parseIDQuery(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Query(name)

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %v %q", name, raw)
	}

	return uint(id), nil
}
