package middleware

import (
	"github.com/devdesignchile/midnigth/internal/pkg/session"
	"github.com/devdesignchile/midnigth/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

func anonymousContext(c *fiber.Ctx) {
	c.Locals("USER_CONTEXT", usercontext.UserContext{})
	c.Locals(usercontext.KeyFromProtected, false)
	c.Locals(usercontext.KeyIsAdmin, false)
}

// UserContextMiddleware resolves the session into a UserContext local
// for every request. Session failures degrade to an anonymous context.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		anonymousContext(c)
		return c.Next()
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		anonymousContext(c)
		return c.Next()
	}

	isAdmin := sess.Get(usercontext.KeyIsAdmin)
	userCtx := usercontext.UserContext{
		UserID:     userID.(uint),
		Username:   session.GetSessionValue(c, usercontext.KeyUsername),
		Role:       session.GetSessionValue(c, usercontext.KeyRole),
		IsLoggedIn: true,
		IsAdmin:    isAdmin != nil && isAdmin.(bool),
	}
	c.Locals("USER_CONTEXT", userCtx)
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUserID, userCtx.UserID)
	c.Locals(usercontext.KeyIsAdmin, userCtx.IsAdmin)

	return c.Next()
}
