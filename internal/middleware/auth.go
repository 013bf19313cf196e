package middleware

import (
	"errors"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"

	"github.com/TheManishHQ/shipos-kit/internal/config"
	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/logging"
	"github.com/TheManishHQ/shipos-kit/internal/session"
)

// JWTProtected verifies the bearer access token and resolves its subject.
// The user id is attached to the request's log context and Sentry scope.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		SuccessHandler: func(c *fiber.Ctx) error {
			userID, err := session.GetUserID(c)
			if err != nil {
				return unauthorized(c, "Unauthorized: invalid token subject")
			}

			c.SetUserContext(logging.WithRequest(c.UserContext(), "", userID.String()))
			if hub := sentryfiber.GetHubFromContext(c); hub != nil {
				hub.Scope().SetUser(sentry.User{ID: userID.String()})
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				return unauthorized(c, "Unauthorized: missing or malformed token")
			}
			return unauthorized(c, "Unauthorized: invalid or expired token")
		},
	})
}

// RequestContext copies the request id set by the requestid middleware into
// the request's log context.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
			c.SetUserContext(logging.WithRequest(c.UserContext(), id, ""))
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: msg})
}
