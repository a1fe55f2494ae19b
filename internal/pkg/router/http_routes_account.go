package router

import (
	"github.com/devdesignchile/midnigth/app/controllers"
	"github.com/devdesignchile/midnigth/internal/pkg/constants"
	"github.com/devdesignchile/midnigth/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerAccountRoutes(app *fiber.App) {
	app.Post(constants.SignupOwnerRoute, controllers.HandleSignupOwner)
	app.Post(constants.SignupGuestRoute, controllers.HandleSignupGuest)
	app.Post(constants.LoginRoute, controllers.HandleLogin)
	app.Post(constants.LogoutRoute, middleware.RequireAuth, controllers.HandleLogout)
	app.Post(constants.AccountDeleteRoute, middleware.RequireAuth, controllers.HandleAccountDelete)
}
