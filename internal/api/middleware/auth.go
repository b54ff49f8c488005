package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/al3-rom/wannago/internal/api/handler/v1/response"
	"github.com/al3-rom/wannago/internal/domain"
	"github.com/al3-rom/wannago/internal/pkg/jwthelper"
)

// AuthedUserKey is where VerifyJWT stores the authenticated user in
// the gin context.
const AuthedUserKey = "authedUser"

type UserLoader interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type Authenticator struct {
	signingKey string
	users      UserLoader
}

func NewAuthenticator(signingKey string, users UserLoader) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
		users:      users,
	}
}

// VerifyJWT validates the bearer token, rejects tokens replayed from a
// different user agent, and loads the account so handlers see the
// current role, not the one at token issue time.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("missing bearer token"))
			return
		}

		claims, err := jwthelper.ParseToken([]byte(a.signingKey), token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid token"))
			return
		}

		if claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid token"))
			return
		}

		user, err := a.users.FindByID(ctx.Request.Context(), claims.UserID)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("unknown user"))
			return
		}

		ctx.Set(AuthedUserKey, user)
		ctx.Next()
	}
}

// AuthedUser returns the user stored by VerifyJWT.
func AuthedUser(ctx *gin.Context) domain.User {
	return ctx.MustGet(AuthedUserKey).(domain.User)
}
