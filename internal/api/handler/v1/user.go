package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/al3-rom/wannago/internal/api/handler/v1/request"
	"github.com/al3-rom/wannago/internal/api/handler/v1/response"
	"github.com/al3-rom/wannago/internal/api/middleware"
	"github.com/al3-rom/wannago/internal/domain"
	"github.com/al3-rom/wannago/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, actor domain.User, userID uint) (domain.User, domain.UserStats, error)
	ListUsers(ctx context.Context, actor domain.User, search string, limit, offset int) ([]domain.User, error)
	CreateUser(ctx context.Context, actor domain.User, user domain.User) (domain.User, error)
	UpdateUser(ctx context.Context, actor domain.User, userID uint, name, email string, role domain.Role) (domain.User, error)
	DeleteUser(ctx context.Context, actor domain.User, userID uint) error
	UpdateProfile(ctx context.Context, actor domain.User, name, email, avatar string) (domain.User, error)
	SendContact(ctx context.Context, actor domain.User, subject, message string, attachments []string) error
}

type BalanceService interface {
	Balance(ctx context.Context, userID uint) (float64, error)
}

type UserHandler struct {
	svc     UserService
	balance BalanceService
	ids     IDCodec
}

func NewUserHandler(svc UserService, balance BalanceService, ids IDCodec) *UserHandler {
	return &UserHandler{
		svc:     svc,
		balance: balance,
		ids:     ids,
	}
}

func (h *UserHandler) renderErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.RenderErr(ctx, response.ErrNotFound(err))
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrBlocked),
		errors.Is(err, service.ErrRoleNotEditable),
		errors.Is(err, service.ErrAdminProtected):
		response.RenderErr(ctx, response.ErrForbidden(err))
	case errors.Is(err, service.ErrUserEmailExists):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrUserHasRecords):
		response.RenderErr(ctx, response.ErrConflict(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleGetUser godoc
// @Summary      Get a user's public card
// @Tags         users
// @Produce      json
// @Param        userID   path       string true "user ID"
// @Success      200      {object}   response.UserCard
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [get]
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, err := h.ids.Decode(ctx.Param("userID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		return
	}

	user, stats, err := h.svc.GetUser(ctx.Request.Context(), middleware.AuthedUser(ctx), userID)
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewUserCard(h.ids, user, stats))
}

// HandleListUsers godoc
// @Summary      Search users by name or email
// @Tags         users
// @Produce      json
// @Param        search   query      string false "name or email search"
// @Param        limit    query      int    false "page size"
// @Param        offset   query      int    false "page offset"
// @Success      200      {array}    response.User
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users [get]
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	users, err := h.svc.ListUsers(ctx.Request.Context(), middleware.AuthedUser(ctx), ctx.Query("search"), limit, offset)
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleListUsers -> h.svc.ListUsers -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewUsers(h.ids, users))
}

// HandleCreateUser godoc
// @Summary      Create a user account (admin)
// @Tags         users
// @Produce      json
// @Param        request   body      request.CreateUserRequest true "request body"
// @Success      201      {object}   response.User
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users [post]
func (h *UserHandler) HandleCreateUser(ctx *gin.Context) {
	var req request.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.CreateUser(ctx.Request.Context(), middleware.AuthedUser(ctx), domain.User{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     role,
	})
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleCreateUser -> h.svc.CreateUser -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewUser(h.ids, user))
}

// HandleUpdateUser godoc
// @Summary      Edit a user account (admin)
// @Tags         users
// @Produce      json
// @Param        userID    path      string true "user ID"
// @Param        request   body      request.UpdateUserRequest true "request body"
// @Success      200      {object}   response.User
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [put]
func (h *UserHandler) HandleUpdateUser(ctx *gin.Context) {
	userID, err := h.ids.Decode(ctx.Param("userID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		return
	}

	var req request.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.UpdateUser(ctx.Request.Context(), middleware.AuthedUser(ctx), userID, req.Name, req.Email, role)
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleUpdateUser -> h.svc.UpdateUser -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewUser(h.ids, user))
}

// HandleDeleteUser godoc
// @Summary      Delete a user account (admin)
// @Tags         users
// @Produce      json
// @Param        userID   path       string true "user ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [delete]
func (h *UserHandler) HandleDeleteUser(ctx *gin.Context) {
	userID, err := h.ids.Decode(ctx.Param("userID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		return
	}

	if err := h.svc.DeleteUser(ctx.Request.Context(), middleware.AuthedUser(ctx), userID); err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleDeleteUser -> h.svc.DeleteUser -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetProfile godoc
// @Summary      Get my profile with balance
// @Tags         profile
// @Produce      json
// @Success      200      {object}   response.Profile
// @Failure      500      {object}   response.Err
// @Router       /profile [get]
func (h *UserHandler) HandleGetProfile(ctx *gin.Context) {
	actor := middleware.AuthedUser(ctx)

	balance, err := h.balance.Balance(ctx.Request.Context(), actor.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetProfile -> h.balance.Balance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Profile{
		User:    response.NewUser(h.ids, actor),
		Balance: balance,
	})
}

// HandleUpdateProfile godoc
// @Summary      Edit my profile
// @Tags         profile
// @Produce      json
// @Param        request   body      request.UpdateProfileRequest true "request body"
// @Success      200      {object}   response.SignupResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /profile [put]
func (h *UserHandler) HandleUpdateProfile(ctx *gin.Context) {
	var req request.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.UpdateProfile(ctx.Request.Context(), middleware.AuthedUser(ctx), req.Name, req.Email, req.Avatar)
	if err != nil && !errors.Is(err, service.ErrVerificationMailFailed) {
		h.renderErr(ctx, fmt.Errorf("v1.HandleUpdateProfile -> h.svc.UpdateProfile -> %w", err))
		return
	}

	resp := response.SignupResponse{
		User: response.NewUser(h.ids, user),
	}
	if errors.Is(err, service.ErrVerificationMailFailed) {
		resp.Warning = service.ErrVerificationMailFailed.Error()
	}

	ctx.JSON(http.StatusOK, resp)
}

// HandleContact godoc
// @Summary      Send a message to the site operators
// @Tags         profile
// @Produce      json
// @Param        request   body      request.ContactRequest true "request body"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /contact [post]
func (h *UserHandler) HandleContact(ctx *gin.Context) {
	var req request.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.SendContact(ctx.Request.Context(), middleware.AuthedUser(ctx), req.Subject, req.Message, req.Attachments)
	if err != nil {
		err = fmt.Errorf("v1.HandleContact -> h.svc.SendContact -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
