package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TheManishHQ/shipos-kit/internal/i18n"
)

// Locale resolves the request locale from the locale cookie, then the
// Accept-Language header, then fallback, and stores it for handlers.
func Locale(fallback string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale := i18n.Resolve(c.Cookies(i18n.CookieName), c.Get(fiber.HeaderAcceptLanguage), fallback)
		c.Locals("locale", locale)
		c.Set(fiber.HeaderContentLanguage, locale)
		return c.Next()
	}
}
