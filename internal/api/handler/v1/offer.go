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

type OfferService interface {
	Submit(ctx context.Context, actor domain.User, productID uint, price float64) (domain.Offer, error)
	UpdatePrice(ctx context.Context, actor domain.User, offerID uint, price float64) error
	Withdraw(ctx context.Context, actor domain.User, offerID uint) error
	Accept(ctx context.Context, actor domain.User, offerID uint, instructions string) (domain.AcceptedOffer, error)
	Revert(ctx context.Context, actor domain.User, offerID uint) error
	UpdateInstructions(ctx context.Context, actor domain.User, offerID uint, instructions string) error
	PendingPurchases(ctx context.Context, actor domain.User) ([]domain.Offer, error)
	AcceptedPurchases(ctx context.Context, actor domain.User) ([]domain.AcceptedOffer, error)
	InactivePurchases(ctx context.Context, actor domain.User) ([]domain.Offer, error)
	PendingSales(ctx context.Context, actor domain.User) ([]domain.ProductOffers, error)
	InactiveSales(ctx context.Context, actor domain.User) ([]domain.ProductOffers, error)
	AcceptedSales(ctx context.Context, actor domain.User) ([]domain.AcceptedOffer, error)
}

type OfferHandler struct {
	svc OfferService
	ids IDCodec
}

func NewOfferHandler(svc OfferService, ids IDCodec) *OfferHandler {
	return &OfferHandler{
		svc: svc,
		ids: ids,
	}
}

func (h *OfferHandler) renderErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOfferNotFound),
		errors.Is(err, service.ErrAcceptedOfferNotFound),
		errors.Is(err, service.ErrProductNotFound):
		response.RenderErr(ctx, response.ErrNotFound(err))
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrBlocked),
		errors.Is(err, service.ErrProductBlocked),
		errors.Is(err, service.ErrSellerBlocked):
		response.RenderErr(ctx, response.ErrForbidden(err))
	case errors.Is(err, service.ErrSellerIsBuyer),
		errors.Is(err, service.ErrPriceTooLow):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrDuplicateOffer),
		errors.Is(err, service.ErrProductSold),
		errors.Is(err, service.ErrOfferAlreadyAccepted):
		response.RenderErr(ctx, response.ErrConflict(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleCreateOffer godoc
// @Summary      Submit an offer on a product
// @Tags         offers
// @Produce      json
// @Param        request   body      request.CreateOfferRequest true "request body"
// @Success      201      {object}   response.Offer
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /offers [post]
func (h *OfferHandler) HandleCreateOffer(ctx *gin.Context) {
	var req request.CreateOfferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	productID, err := h.ids.Decode(req.ProductID)
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrProductNotFound))
		return
	}

	offer, err := h.svc.Submit(ctx.Request.Context(), middleware.AuthedUser(ctx), productID, req.Price)
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleCreateOffer -> h.svc.Submit -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewOffer(h.ids, offer))
}

// HandleUpdateOfferPrice godoc
// @Summary      Change the price of a pending offer
// @Tags         offers
// @Produce      json
// @Param        offerID   path      string true "offer ID"
// @Param        request   body      request.UpdateOfferPriceRequest true "request body"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /offers/{offerID} [put]
func (h *OfferHandler) HandleUpdateOfferPrice(ctx *gin.Context) {
	offerID, err := h.ids.Decode(ctx.Param("offerID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrOfferNotFound))
		return
	}

	var req request.UpdateOfferPriceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.UpdatePrice(ctx.Request.Context(), middleware.AuthedUser(ctx), offerID, req.Price); err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleUpdateOfferPrice -> h.svc.UpdatePrice -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleWithdrawOffer godoc
// @Summary      Withdraw a pending offer
// @Tags         offers
// @Produce      json
// @Param        offerID   path      string true "offer ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /offers/{offerID} [delete]
func (h *OfferHandler) HandleWithdrawOffer(ctx *gin.Context) {
	offerID, err := h.ids.Decode(ctx.Param("offerID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrOfferNotFound))
		return
	}

	if err := h.svc.Withdraw(ctx.Request.Context(), middleware.AuthedUser(ctx), offerID); err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleWithdrawOffer -> h.svc.Withdraw -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAcceptOffer godoc
// @Summary      Accept an offer on one of my products
// @Tags         offers
// @Produce      json
// @Param        offerID   path      string true "offer ID"
// @Param        request   body      request.AcceptOfferRequest true "request body"
// @Success      201      {object}   response.AcceptedOffer
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /offers/{offerID}/accept [post]
func (h *OfferHandler) HandleAcceptOffer(ctx *gin.Context) {
	offerID, err := h.ids.Decode(ctx.Param("offerID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrOfferNotFound))
		return
	}

	var req request.AcceptOfferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	accepted, err := h.svc.Accept(ctx.Request.Context(), middleware.AuthedUser(ctx), offerID, req.Instructions)
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleAcceptOffer -> h.svc.Accept -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewAcceptedOffer(h.ids, accepted))
}

// HandleRevertOffer godoc
// @Summary      Revert an accepted offer back to pending
// @Tags         offers
// @Produce      json
// @Param        offerID   path      string true "offer ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /offers/{offerID}/revert [post]
func (h *OfferHandler) HandleRevertOffer(ctx *gin.Context) {
	offerID, err := h.ids.Decode(ctx.Param("offerID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrAcceptedOfferNotFound))
		return
	}

	if err := h.svc.Revert(ctx.Request.Context(), middleware.AuthedUser(ctx), offerID); err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleRevertOffer -> h.svc.Revert -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUpdateInstructions godoc
// @Summary      Update handover instructions on an accepted offer
// @Tags         sales
// @Produce      json
// @Param        offerID   path      string true "offer ID"
// @Param        request   body      request.UpdateInstructionsRequest true "request body"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sales/{offerID}/instructions [put]
func (h *OfferHandler) HandleUpdateInstructions(ctx *gin.Context) {
	offerID, err := h.ids.Decode(ctx.Param("offerID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrAcceptedOfferNotFound))
		return
	}

	var req request.UpdateInstructionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.UpdateInstructions(ctx.Request.Context(), middleware.AuthedUser(ctx), offerID, req.Instructions); err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleUpdateInstructions -> h.svc.UpdateInstructions -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandlePendingPurchases godoc
// @Summary      List my pending offers
// @Tags         purchases
// @Produce      json
// @Success      200      {array}    response.Offer
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /purchases/pending [get]
func (h *OfferHandler) HandlePendingPurchases(ctx *gin.Context) {
	offers, err := h.svc.PendingPurchases(ctx.Request.Context(), middleware.AuthedUser(ctx))
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandlePendingPurchases -> h.svc.PendingPurchases -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewOffers(h.ids, offers))
}

// HandleAcceptedPurchases godoc
// @Summary      List my accepted purchases
// @Tags         purchases
// @Produce      json
// @Success      200      {array}    response.AcceptedOffer
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /purchases/accepted [get]
func (h *OfferHandler) HandleAcceptedPurchases(ctx *gin.Context) {
	accepted, err := h.svc.AcceptedPurchases(ctx.Request.Context(), middleware.AuthedUser(ctx))
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleAcceptedPurchases -> h.svc.AcceptedPurchases -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewAcceptedOffers(h.ids, accepted))
}

// HandleInactivePurchases godoc
// @Summary      List my offers on products sold to someone else
// @Tags         purchases
// @Produce      json
// @Success      200      {array}    response.Offer
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /purchases/inactive [get]
func (h *OfferHandler) HandleInactivePurchases(ctx *gin.Context) {
	offers, err := h.svc.InactivePurchases(ctx.Request.Context(), middleware.AuthedUser(ctx))
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleInactivePurchases -> h.svc.InactivePurchases -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewOffers(h.ids, offers))
}

// HandlePendingSales godoc
// @Summary      List active offers on my products
// @Tags         sales
// @Produce      json
// @Success      200      {array}    response.ProductOffers
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sales/pending [get]
func (h *OfferHandler) HandlePendingSales(ctx *gin.Context) {
	grouped, err := h.svc.PendingSales(ctx.Request.Context(), middleware.AuthedUser(ctx))
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandlePendingSales -> h.svc.PendingSales -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewProductOffers(h.ids, grouped))
}

// HandleInactiveSales godoc
// @Summary      List deactivated offers on my products
// @Tags         sales
// @Produce      json
// @Success      200      {array}    response.ProductOffers
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sales/inactive [get]
func (h *OfferHandler) HandleInactiveSales(ctx *gin.Context) {
	grouped, err := h.svc.InactiveSales(ctx.Request.Context(), middleware.AuthedUser(ctx))
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleInactiveSales -> h.svc.InactiveSales -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewProductOffers(h.ids, grouped))
}

// HandleAcceptedSales godoc
// @Summary      List my completed sales
// @Tags         sales
// @Produce      json
// @Success      200      {array}    response.AcceptedOffer
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sales/accepted [get]
func (h *OfferHandler) HandleAcceptedSales(ctx *gin.Context) {
	accepted, err := h.svc.AcceptedSales(ctx.Request.Context(), middleware.AuthedUser(ctx))
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleAcceptedSales -> h.svc.AcceptedSales -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewAcceptedOffers(h.ids, accepted))
}
