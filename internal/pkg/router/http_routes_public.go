package router

import (
	"github.com/devdesignchile/midnigth/app/controllers"
	"github.com/devdesignchile/midnigth/internal/pkg/constants"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get(constants.PingRoute, controllers.HandlePing)

	// City directory
	app.Get(constants.CommunesRoute, controllers.HandleCommunesList)
	app.Get(constants.CommunesFeaturedRoute, controllers.HandleCommunesFeatured)
	app.Get(constants.VenuesRoute, controllers.HandleVenuesList)
	app.Get(constants.VenueBySlugRoute, controllers.HandleVenueBySlug)
	app.Get(constants.EventsRoute, controllers.HandleEventsList)
	app.Get(constants.SearchRoute, controllers.HandleSearch)

	// Interest clicks
	app.Post(constants.ClicksRoute, controllers.HandleClick)

	// Payment provider notifications (no session, no CSRF)
	app.Post(constants.WebhookMPRoute, controllers.HandleMercadoPagoWebhook)
}
