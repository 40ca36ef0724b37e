package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/minhvt2810/canteen-api/internal/api/handler/v1/response"
	"github.com/minhvt2810/canteen-api/internal/api/middleware"
	"github.com/minhvt2810/canteen-api/internal/domain"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	raw, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized(errors.New("missing user in context"))
	}

	userID, ok := raw.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errors.New("malformed user in context"))
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("getUserFromContext -> svc.GetUser -> %w", err)

		return domain.User{}, response.ErrInternalServerError(err)
	}

	return user, nil
}

// requireStaff resolves the current user and rejects non-staff callers.
func requireStaff(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	user, respErr := getUserFromContext(ctx, svc)
	if respErr != nil {
		return domain.User{}, respErr
	}

	if !user.IsStaff() {
		return domain.User{}, response.ErrPermissionDenied(fmt.Errorf("user %v is not staff", user.ID))
	}

	return user, nil
}
