package router

import (
	"github.com/devdesignchile/midnigth/app/controllers"
	"github.com/devdesignchile/midnigth/internal/pkg/constants"
	"github.com/devdesignchile/midnigth/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerOwnerRoutes(app *fiber.App) {
	owner := app.Group(constants.OwnerPrefix, middleware.RequireOwner)

	owner.Get("/venues", controllers.HandleOwnerVenuesList)
	owner.Post("/venues", controllers.HandleOwnerVenueCreate)
	owner.Put("/venues/:id", controllers.HandleOwnerVenueUpdate)
	owner.Delete("/venues/:id", controllers.HandleOwnerVenueDelete)

	owner.Get("/venues/:id/events", controllers.HandleOwnerVenueEventsList)
	owner.Post("/venues/:id/events", controllers.HandleOwnerVenueEventCreate)
	owner.Put("/events/:id", controllers.HandleOwnerEventUpdate)
	owner.Delete("/events/:id", controllers.HandleOwnerEventDelete)

	owner.Post("/venues/:id/photos", controllers.HandleOwnerVenuePhotoAdd)
	owner.Delete("/venues/:id/photos/:uuid", controllers.HandleOwnerVenuePhotoDelete)

	// Subscription checkout return + status
	app.Post(constants.SubscribeConfirmRoute, middleware.RequireOwner, controllers.HandleSubscribeConfirm)
	app.Get(constants.SubscribeStatusRoute, middleware.RequireOwner, controllers.HandleSubscriptionStatus)
}
