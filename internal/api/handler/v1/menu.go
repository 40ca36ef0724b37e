package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minhvt2810/canteen-api/internal/api/handler/v1/request"
	"github.com/minhvt2810/canteen-api/internal/api/handler/v1/response"
	"github.com/minhvt2810/canteen-api/internal/domain"
	"github.com/minhvt2810/canteen-api/internal/service"
)

type CatalogService interface {
	CreateMenuDay(ctx context.Context, date time.Time) (domain.MenuDay, error)
	GetMenuDay(ctx context.Context, id uint) (domain.MenuDay, []domain.MenuDayDish, error)
	ListUpcomingMenuDays(ctx context.Context) ([]domain.MenuDay, error)
	AttachDish(ctx context.Context, menuDayID uint, dish domain.Dish, initialUnits int) (domain.Dish, domain.StockEntry, error)
	SetStock(ctx context.Context, menuDayID, dishID uint, units int) error
}

type MenuHandler struct {
	svc  CatalogService
	uSvc UserService
}

func NewMenuHandler(svc CatalogService, uSvc UserService) *MenuHandler {
	return &MenuHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListMenuDays godoc
// @Summary      List upcoming menu days
// @Tags         menu
// @Produce      json
// @Success      200  {array}   response.MenuDayResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /menu-days [get]
// @Security BearerAuth
func (h *MenuHandler) HandleListMenuDays(ctx *gin.Context) {
	menuDays, err := h.svc.ListUpcomingMenuDays(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListMenuDays -> h.svc.ListUpcomingMenuDays -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	resp := make([]response.MenuDayResponse, len(menuDays))
	for i, m := range menuDays {
		resp[i] = response.NewMenuDayResponse(m, nil)
	}

	ctx.JSON(http.StatusOK, resp)
}

// HandleGetMenuDay godoc
// @Summary      Get a menu day with its dishes and remaining stock
// @Tags         menu
// @Produce      json
// @Param        menuDayID  path      int  true  "menu day ID"
// @Success      200  {object}  response.MenuDayResponse
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /menu-days/{menuDayID} [get]
// @Security BearerAuth
func (h *MenuHandler) HandleGetMenuDay(ctx *gin.Context) {
	menuDayID, err := parseIDParam(ctx, "menuDayID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	menuDay, dishes, err := h.svc.GetMenuDay(ctx.Request.Context(), menuDayID)
	if err != nil {
		if errors.Is(err, service.ErrMenuDayNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("menu day", "menuDayID", menuDayID))

			return
		}

		err = fmt.Errorf("v1.HandleGetMenuDay -> h.svc.GetMenuDay -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewMenuDayResponse(menuDay, dishes))
}

// HandleCreateMenuDay godoc
// @Summary      Create a menu day (staff)
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateMenuDayRequest  true  "menu day"
// @Success      201  {object}  response.MenuDayResponse
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /staff/menu-days [post]
// @Security BearerAuth
func (h *MenuHandler) HandleCreateMenuDay(ctx *gin.Context) {
	if _, respErr := requireStaff(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CreateMenuDayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	parsedDate, err := time.Parse("02/01/2006", req.Date)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date format: %v", err)))

		return
	}

	menuDay, err := h.svc.CreateMenuDay(ctx.Request.Context(), parsedDate)
	if err != nil {
		if errors.Is(err, service.ErrMenuDayExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrMenuDayExists))

			return
		}

		err = fmt.Errorf("v1.HandleCreateMenuDay -> h.svc.CreateMenuDay -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, response.NewMenuDayResponse(menuDay, nil))
}

// HandleAttachDish godoc
// @Summary      Attach a dish with initial stock to a menu day (staff)
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        menuDayID  path   int  true  "menu day ID"
// @Param        input  body      request.AttachDishRequest  true  "dish and stock"
// @Success      201  {object}  response.MenuDish
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /staff/menu-days/{menuDayID}/dishes [post]
// @Security BearerAuth
func (h *MenuHandler) HandleAttachDish(ctx *gin.Context) {
	if _, respErr := requireStaff(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	menuDayID, err := parseIDParam(ctx, "menuDayID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.AttachDishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	dish, entry, err := h.svc.AttachDish(ctx.Request.Context(), menuDayID, domain.Dish{
		ID:         req.DishID,
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Category:   req.Category,
	}, req.InitialUnits)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMenuDayNotFound):
			response.RenderErr(ctx, response.ErrNotFound("menu day", "menuDayID", menuDayID))
		case errors.Is(err, service.ErrDishNotFound):
			response.RenderErr(ctx, response.ErrNotFound("dish", "dishID", req.DishID))
		case errors.Is(err, service.ErrStockEntryExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrStockEntryExists))
		default:
			err = fmt.Errorf("v1.HandleAttachDish -> h.svc.AttachDish -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, response.MenuDish{
		ID:             dish.ID,
		Name:           dish.Name,
		PriceCents:     dish.PriceCents,
		Category:       dish.Category,
		RemainingUnits: entry.RemainingUnits,
	})
}

// HandleSetStock godoc
// @Summary      Set remaining stock for a dish on a menu day (staff)
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        menuDayID  path   int  true  "menu day ID"
// @Param        dishID     path   int  true  "dish ID"
// @Param        input  body      request.SetStockRequest  true  "units"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /staff/menu-days/{menuDayID}/dishes/{dishID}/stock [patch]
// @Security BearerAuth
func (h *MenuHandler) HandleSetStock(ctx *gin.Context) {
	if _, respErr := requireStaff(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	menuDayID, err := parseIDParam(ctx, "menuDayID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	dishID, err := parseIDParam(ctx, "dishID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.SetStockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.SetStock(ctx.Request.Context(), menuDayID, dishID, req.RemainingUnits); err != nil {
		if errors.Is(err, service.ErrStockEntryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("stock entry", "dishID", dishID))

			return
		}

		err = fmt.Errorf("v1.HandleSetStock -> h.svc.SetStock -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %v %q", name, raw)
	}

	return uint(id), nil
}
