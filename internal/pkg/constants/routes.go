package constants

// API route constants
const (
	APIPrefix = "/api"

	PingRoute             = "/api/ping"
	CommunesRoute         = "/api/communes"
	CommunesFeaturedRoute = "/api/communes/featured"
	VenuesRoute           = "/api/venues"
	VenueBySlugRoute      = "/api/venues/:slug"
	EventsRoute           = "/api/events"
	SearchRoute           = "/api/search"
	ClicksRoute           = "/api/clicks"
	WebhookMPRoute        = "/api/webhooks/mercadopago"

	SignupOwnerRoute      = "/api/signup/owner"
	SignupGuestRoute      = "/api/signup/guest"
	LoginRoute            = "/api/login"
	LogoutRoute           = "/api/logout"
	AccountDeleteRoute    = "/api/account/delete"
	SubscribeConfirmRoute = "/api/subscribe/confirm"
	SubscribeStatusRoute  = "/api/subscribe/status"

	OwnerPrefix = "/api/owner"
	AdminPrefix = "/admin"
)
