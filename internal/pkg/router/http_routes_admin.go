package router

import (
	"github.com/devdesignchile/midnigth/app/controllers"
	"github.com/devdesignchile/midnigth/internal/pkg/constants"
	"github.com/devdesignchile/midnigth/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	admin := app.Group(constants.AdminPrefix, middleware.RequireAdmin)

	admin.Get("/subscriptions", controllers.HandleAdminSubscriptionsList)
	admin.Put("/subscriptions/:user_id/override", controllers.HandleAdminSubscriptionOverride)
	admin.Post("/subscriptions/bulk", controllers.HandleAdminSubscriptionsBulk)

	admin.Get("/owners", controllers.HandleAdminOwnersList)
	admin.Put("/owners/:id/subscribed", controllers.HandleAdminOwnerSubscribed)
	admin.Put("/owners/:id/verify", controllers.HandleAdminOwnerVerify)
}
