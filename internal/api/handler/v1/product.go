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

type ProductService interface {
	Create(ctx context.Context, actor domain.User, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, actor domain.User, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, actor domain.User, productID uint) error
	Get(ctx context.Context, actor domain.User, productID uint) (domain.Product, error)
	List(ctx context.Context, actor domain.User, categoryID uint, search string, limit, offset int) ([]domain.Product, error)
	ListMine(ctx context.Context, actor domain.User) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type ProductHandler struct {
	svc ProductService
	ids IDCodec
}

func NewProductHandler(svc ProductService, ids IDCodec) *ProductHandler {
	return &ProductHandler{
		svc: svc,
		ids: ids,
	}
}

func (h *ProductHandler) renderErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		response.RenderErr(ctx, response.ErrNotFound(err))
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrBlocked):
		response.RenderErr(ctx, response.ErrForbidden(err))
	case errors.Is(err, service.ErrProductSold):
		response.RenderErr(ctx, response.ErrConflict(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleListProducts godoc
// @Summary      Browse the catalog
// @Tags         products
// @Produce      json
// @Param        category  query      string false "category ID"
// @Param        search    query      string false "title search"
// @Param        limit     query      int    false "page size"
// @Param        offset    query      int    false "page offset"
// @Success      200      {array}    response.Product
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products [get]
func (h *ProductHandler) HandleListProducts(ctx *gin.Context) {
	var categoryID uint
	if encoded := ctx.Query("category"); encoded != "" {
		id, err := h.ids.Decode(encoded)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid category")))
			return
		}
		categoryID = id
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	products, err := h.svc.List(ctx.Request.Context(), middleware.AuthedUser(ctx), categoryID, ctx.Query("search"), limit, offset)
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleListProducts -> h.svc.List -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewProducts(h.ids, products))
}

// HandleGetProduct godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        productID path       string true "product ID"
// @Success      200      {object}   response.Product
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products/{productID} [get]
func (h *ProductHandler) HandleGetProduct(ctx *gin.Context) {
	productID, err := h.ids.Decode(ctx.Param("productID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrProductNotFound))
		return
	}

	product, err := h.svc.Get(ctx.Request.Context(), middleware.AuthedUser(ctx), productID)
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleGetProduct -> h.svc.Get -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewProduct(h.ids, product))
}

// HandleCreateProduct godoc
// @Summary      List a product for sale
// @Tags         products
// @Produce      json
// @Param        request   body      request.CreateProductRequest true "request body"
// @Success      201      {object}   response.Product
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products [post]
func (h *ProductHandler) HandleCreateProduct(ctx *gin.Context) {
	var req request.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	categoryID, err := h.ids.Decode(req.CategoryID)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid category")))
		return
	}

	product, err := h.svc.Create(ctx.Request.Context(), middleware.AuthedUser(ctx), domain.Product{
		Title:       req.Title,
		Description: req.Description,
		Photo:       req.Photo,
		Price:       req.Price,
		CategoryID:  categoryID,
	})
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleCreateProduct -> h.svc.Create -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewProduct(h.ids, product))
}

// HandleUpdateProduct godoc
// @Summary      Edit one of my products
// @Tags         products
// @Produce      json
// @Param        productID path       string true "product ID"
// @Param        request   body      request.UpdateProductRequest true "request body"
// @Success      200      {object}   response.Product
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products/{productID} [put]
func (h *ProductHandler) HandleUpdateProduct(ctx *gin.Context) {
	productID, err := h.ids.Decode(ctx.Param("productID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrProductNotFound))
		return
	}

	var req request.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	categoryID, err := h.ids.Decode(req.CategoryID)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid category")))
		return
	}

	product, err := h.svc.Update(ctx.Request.Context(), middleware.AuthedUser(ctx), domain.Product{
		ID:          productID,
		Title:       req.Title,
		Description: req.Description,
		Photo:       req.Photo,
		Price:       req.Price,
		CategoryID:  categoryID,
	})
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleUpdateProduct -> h.svc.Update -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewProduct(h.ids, product))
}

// HandleDeleteProduct godoc
// @Summary      Delete one of my products
// @Tags         products
// @Produce      json
// @Param        productID path       string true "product ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products/{productID} [delete]
func (h *ProductHandler) HandleDeleteProduct(ctx *gin.Context) {
	productID, err := h.ids.Decode(ctx.Param("productID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrProductNotFound))
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), middleware.AuthedUser(ctx), productID); err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleDeleteProduct -> h.svc.Delete -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleMyProducts godoc
// @Summary      List my products
// @Tags         products
// @Produce      json
// @Success      200      {array}    response.Product
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products/mine [get]
func (h *ProductHandler) HandleMyProducts(ctx *gin.Context) {
	products, err := h.svc.ListMine(ctx.Request.Context(), middleware.AuthedUser(ctx))
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleMyProducts -> h.svc.ListMine -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewProducts(h.ids, products))
}

// HandleListCategories godoc
// @Summary      List product categories
// @Tags         products
// @Produce      json
// @Success      200      {array}    response.Category
// @Failure      500      {object}   response.Err
// @Router       /categories [get]
func (h *ProductHandler) HandleListCategories(ctx *gin.Context) {
	categories, err := h.svc.Categories(ctx.Request.Context())
	if err != nil {
		h.renderErr(ctx, fmt.Errorf("v1.HandleListCategories -> h.svc.Categories -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewCategories(h.ids, categories))
}
