package routes

import (
	"net/http"

	"eventra/agi"
	"eventra/auth"
	"eventra/events"
	"eventra/jitsi"
	"eventra/middleware"
	"eventra/orders"
	"eventra/organizers"
	"eventra/ratelim"
	"eventra/subscriptions"
	"eventra/tickets"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/eventpic/*filepath", http.Dir("static/eventpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
}

func AddEventRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/events", middleware.OptionalAuth(events.GetEvents))
	router.GET("/api/events/:eventid", middleware.OptionalAuth(events.GetEvent))

	router.POST("/api/events", rl.Limit(middleware.Authenticate(events.CreateEvent)))
	router.PUT("/api/events/:eventid", middleware.Authenticate(events.UpdateEvent))
	router.PUT("/api/events/:eventid/status", middleware.Authenticate(events.UpdateEventStatus))
	router.POST("/api/events/:eventid/delete", middleware.Authenticate(events.DeleteEvent))
	router.POST("/api/events/:eventid/regenerate-room", middleware.Authenticate(events.RegenerateRoom))

	router.POST("/api/events/:eventid/like", middleware.Authenticate(events.LikeEvent))
	router.POST("/api/events/:eventid/share", middleware.OptionalAuth(events.ShareEvent))

	router.GET("/api/events/:eventid/registration", middleware.Authenticate(orders.RegistrationStatus))
	router.GET("/api/events/:eventid/availability/live", tickets.LiveAvailability)

	router.POST("/api/generate-copy", rl.Limit(middleware.Authenticate(agi.GenerateCopy)))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/orders/rsvp", rl.Limit(middleware.Authenticate(orders.RSVP)))
	router.GET("/api/orders", middleware.Authenticate(orders.GetMyOrders))
	router.GET("/api/orders/:orderid", middleware.Authenticate(orders.GetOrder))
}

func AddTicketRoutes(router *httprouter.Router) {
	router.GET("/api/tickets", middleware.Authenticate(tickets.GetMyTickets))
	router.GET("/api/tickets/:ticketid", middleware.Authenticate(tickets.GetTicket))
	router.GET("/api/tickets/:ticketid/print", middleware.Authenticate(tickets.PrintTicket))
	router.POST("/api/tickets/verify",
		middleware.Chain(middleware.Authenticate, middleware.RequireRoles("organizer"))(tickets.VerifyScan),
	)
}

func AddSubscriptionRoutes(router *httprouter.Router) {
	router.GET("/api/subscriptions/me", middleware.Authenticate(subscriptions.GetMySubscription))
	router.POST("/api/subscriptions", middleware.Authenticate(subscriptions.CreateSubscription))
}

func AddOrganizerRoutes(router *httprouter.Router) {
	router.POST("/api/organizers/apply", middleware.Authenticate(organizers.Apply))
	router.GET("/api/organizers/application", middleware.Authenticate(organizers.MyApplication))
	router.PUT("/api/organizers/applications/:appid",
		middleware.Chain(middleware.Authenticate, middleware.RequireRoles("admin"))(organizers.Review),
	)
}

func AddJitsiRoutes(router *httprouter.Router) {
	router.GET("/api/jitsi/generate-token", middleware.Authenticate(jitsi.GenerateToken))
}
