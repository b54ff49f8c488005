package v1

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/al3-rom/wannago/internal/api/handler/v1/response"
	"github.com/al3-rom/wannago/internal/pkg/upload"
)

type UploadStore interface {
	Save(file *multipart.FileHeader) (string, error)
}

type UploadHandler struct {
	store UploadStore
}

func NewUploadHandler(store UploadStore) *UploadHandler {
	return &UploadHandler{
		store: store,
	}
}

// HandleUpload godoc
// @Summary      Upload a product photo or avatar
// @Tags         uploads
// @Accept       mpfd
// @Produce      json
// @Param        file   formData   file true "png or jpeg image"
// @Success      201    {object}   response.UploadResponse
// @Failure      400    {object}   response.Err
// @Failure      500    {object}   response.Err
// @Router       /uploads [post]
func (h *UploadHandler) HandleUpload(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	name, err := h.store.Save(file)
	if err != nil {
		if errors.Is(err, upload.ErrUnsupportedType) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleUpload -> h.store.Save -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.UploadResponse{
		Filename: name,
	})
}
