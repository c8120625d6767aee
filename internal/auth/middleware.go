package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// Middleware authorizes a huma operation before its input is parsed, so an
// unauthenticated request is rejected with 401 whatever its body looks like.
// The user id is stored in the request context under UserIDKey.
func (h *AuthHandler) Middleware(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		userID, err := h.Authorize(ctx.Context(), ctx.Header("Authorization"))
		if err != nil {
			status := http.StatusUnauthorized
			var se huma.StatusError
			if errors.As(err, &se) {
				status = se.GetStatus()
			}
			huma.WriteErr(api, ctx, status, err.Error())
			return
		}

		next(huma.WithValue(ctx, UserIDKey, userID))
	}
}

// UserID returns the id stored by Middleware.
func UserID(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	return userID, ok
}
