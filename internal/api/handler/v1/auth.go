package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/al3-rom/wannago/internal/api/handler/v1/request"
	"github.com/al3-rom/wannago/internal/api/handler/v1/response"
	"github.com/al3-rom/wannago/internal/config"
	"github.com/al3-rom/wannago/internal/domain"
	"github.com/al3-rom/wannago/internal/pkg/jwthelper"
	"github.com/al3-rom/wannago/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
	VerifyEmail(ctx context.Context, userID uint, token string) (domain.User, error)
	ResendVerification(ctx context.Context, email string) error
}

// IDCodec round-trips database IDs through their opaque URL form.
type IDCodec interface {
	Encode(id uint) string
	Decode(encoded string) (uint, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
	ids  IDCodec
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, ids IDCodec) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
		ids:  ids,
	}
}

// HandleSignup godoc
// @Summary      Signup a new user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.SignupRequest true "request body"
// @Success      201      {object}   response.SignupResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Signup(ctx.Request.Context(), domain.User{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil && !errors.Is(err, service.ErrVerificationMailFailed) {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUserEmailExists))
			return
		}

		err = fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	resp := response.SignupResponse{
		User: response.NewUser(h.ids, user),
	}
	if errors.Is(err, service.ErrVerificationMailFailed) {
		resp.Warning = service.ErrVerificationMailFailed.Error()
	}

	ctx.JSON(http.StatusCreated, resp)
}

// HandleLogin godoc
// @Summary      Login a user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrWrongCredentials) || errors.Is(err, service.ErrUserNotVerified) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), user.ID, ctx.Request.UserAgent())
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  response.NewUser(h.ids, user),
	})
}

// HandleVerifyEmail godoc
// @Summary      Verify an email address with the mailed token
// @Tags         auth
// @Produce      json
// @Param        userID   path       string true "user ID"
// @Param        token    path       string true "verification token"
// @Success      200      {object}   response.User
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/verify/{userID}/{token} [get]
func (h *AuthHandler) HandleVerifyEmail(ctx *gin.Context) {
	userID, err := h.ids.Decode(ctx.Param("userID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		return
	}

	user, err := h.svc.VerifyEmail(ctx.Request.Context(), userID, ctx.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleVerifyEmail -> h.svc.VerifyEmail -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewUser(h.ids, user))
}

// HandleResendVerification godoc
// @Summary      Resend the verification email
// @Tags         auth
// @Produce      json
// @Param        request   body      request.ResendVerificationRequest true "request body"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/resend-verification [post]
func (h *AuthHandler) HandleResendVerification(ctx *gin.Context) {
	var req request.ResendVerificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.ResendVerification(ctx.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		case errors.Is(err, service.ErrAlreadyVerified):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyVerified))
		case errors.Is(err, service.ErrVerificationMailFailed):
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		default:
			err = fmt.Errorf("v1.HandleResendVerification -> h.svc.ResendVerification -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
