package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/al3-rom/wannago/internal/api/handler/v1/request"
	"github.com/al3-rom/wannago/internal/api/handler/v1/response"
	"github.com/al3-rom/wannago/internal/api/middleware"
	"github.com/al3-rom/wannago/internal/domain"
	"github.com/al3-rom/wannago/internal/service"
)

type BlockService interface {
	BlockUser(ctx context.Context, actor domain.User, userID uint, reason string) (domain.BlockedUser, error)
	UnblockUser(ctx context.Context, actor domain.User, userID uint) error
	BlockProduct(ctx context.Context, actor domain.User, productID uint, reason string) (domain.BlockedProduct, error)
	UnblockProduct(ctx context.Context, actor domain.User, productID uint) error
	BulkUnblock(ctx context.Context, actor domain.User, userIDs, productIDs []uint) error
	Overview(ctx context.Context, actor domain.User) ([]domain.BlockedUser, []domain.BlockedProduct, error)
}

type BlockHandler struct {
	svc BlockService
	ids IDCodec
}

func NewBlockHandler(svc BlockService, ids IDCodec) *BlockHandler {
	return &BlockHandler{
		svc: svc,
		ids: ids,
	}
}

func (h *BlockHandler) renderErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrProductNotFound):
		response.RenderErr(ctx, response.ErrNotFound(err))
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrBlocked),
		errors.Is(err, service.ErrBlockSelf):
		response.RenderErr(ctx, response.ErrForbidden(err))
	case errors.Is(err, service.ErrUserAlreadyBlocked),
		errors.Is(err, service.ErrUserNotBlocked),
		errors.Is(err, service.ErrProductAlreadyBlocked),
		errors.Is(err, service.ErrProductNotBlocked),
		errors.Is(err, service.ErrProductSold):
		response.RenderErr(ctx, response.ErrConflict(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleBlockUser godoc
// @Summary      Block a user
// @Tags         moderation
// @Produce      json
// @Param        userID    path      string true "user ID"
// @Param        request   body      request.BlockRequest true "request body"
// @Success      201      {object}   response.BlockedUser
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID}/block [post]
func (h *BlockHandler) HandleBlockUser(ctx *gin.Context) {
	userID, err := h.ids.Decode(ctx.Param("userID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		return
	}

	var req request.BlockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	block, err := h.svc.BlockUser(ctx.Request.Context(), middleware.AuthedUser(ctx), userID, req.Reason)
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleBlockUser -> h.svc.BlockUser -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewBlockedUser(h.ids, block))
}

// HandleUnblockUser godoc
// @Summary      Unblock a user
// @Tags         moderation
// @Produce      json
// @Param        userID    path      string true "user ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID}/block [delete]
func (h *BlockHandler) HandleUnblockUser(ctx *gin.Context) {
	userID, err := h.ids.Decode(ctx.Param("userID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		return
	}

	if err := h.svc.UnblockUser(ctx.Request.Context(), middleware.AuthedUser(ctx), userID); err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleUnblockUser -> h.svc.UnblockUser -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleBlockProduct godoc
// @Summary      Block a product
// @Tags         moderation
// @Produce      json
// @Param        productID path      string true "product ID"
// @Param        request   body      request.BlockRequest true "request body"
// @Success      201      {object}   response.BlockedProduct
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products/{productID}/block [post]
func (h *BlockHandler) HandleBlockProduct(ctx *gin.Context) {
	productID, err := h.ids.Decode(ctx.Param("productID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrProductNotFound))
		return
	}

	var req request.BlockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	block, err := h.svc.BlockProduct(ctx.Request.Context(), middleware.AuthedUser(ctx), productID, req.Reason)
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleBlockProduct -> h.svc.BlockProduct -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewBlockedProduct(h.ids, block))
}

// HandleUnblockProduct godoc
// @Summary      Unblock a product
// @Tags         moderation
// @Produce      json
// @Param        productID path      string true "product ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products/{productID}/block [delete]
func (h *BlockHandler) HandleUnblockProduct(ctx *gin.Context) {
	productID, err := h.ids.Decode(ctx.Param("productID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrProductNotFound))
		return
	}

	if err := h.svc.UnblockProduct(ctx.Request.Context(), middleware.AuthedUser(ctx), productID); err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleUnblockProduct -> h.svc.UnblockProduct -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleBulkUnblock godoc
// @Summary      Unblock a set of users and products at once
// @Tags         moderation
// @Produce      json
// @Param        request   body      request.BulkUnblockRequest true "request body"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/unblock [post]
func (h *BlockHandler) HandleBulkUnblock(ctx *gin.Context) {
	var req request.BulkUnblockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	userIDs, err := h.decodeAll(req.UserIDs)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	productIDs, err := h.decodeAll(req.ProductIDs)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.BulkUnblock(ctx.Request.Context(), middleware.AuthedUser(ctx), userIDs, productIDs); err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleBulkUnblock -> h.svc.BulkUnblock -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *BlockHandler) decodeAll(encoded []string) ([]uint, error) {
	ids := make([]uint, len(encoded))
	for i, e := range encoded {
		id, err := h.ids.Decode(e)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", e)
		}
		ids[i] = id
	}
	return ids, nil
}

// HandleBlockOverview godoc
// @Summary      List every active block
// @Tags         moderation
// @Produce      json
// @Success      200      {object}   response.BlockOverview
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/blocks [get]
func (h *BlockHandler) HandleBlockOverview(ctx *gin.Context) {
	users, products, err := h.svc.Overview(ctx.Request.Context(), middleware.AuthedUser(ctx))
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleBlockOverview -> h.svc.Overview -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewBlockOverview(h.ids, users, products))
}
