// Package routes wires every handler onto the router. Each Add*Routes
// function owns one feature area so main stays a straight list of calls.
package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"eventhorizon/agi"
	"eventhorizon/auth"
	"eventhorizon/events"
	"eventhorizon/messages"
	"eventhorizon/middleware"
	"eventhorizon/models"
	"eventhorizon/notifications"
	"eventhorizon/profile"
	"eventhorizon/proxy"
	"eventhorizon/ratelim"
	"eventhorizon/registrations"
	"eventhorizon/reviews"
	"eventhorizon/teams"
	"eventhorizon/tickets"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/uploads/banners/*filepath", http.Dir("uploads/banners"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *auth.Handler) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(h.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(h.RefreshToken))
}

func AddProfileRoutes(router *httprouter.Router, h *profile.Handler) {
	router.GET("/api/profile", middleware.Authenticate(h.GetProfile))
	router.PUT("/api/profile", middleware.Authenticate(h.UpdateProfile))
	router.DELETE("/api/profile", middleware.Authenticate(h.DeleteAccount))
}

func AddEventRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *events.Handler) {
	router.GET("/api/events", rl.Limit(h.GetEvents))
	router.GET("/api/events/:eventid", h.GetEvent)
	router.POST("/api/events", middleware.RequireRole(models.RoleOrganizer, h.CreateEvent))
	router.PUT("/api/events/:eventid", middleware.Authenticate(h.UpdateEvent))
	router.DELETE("/api/events/:eventid", middleware.Authenticate(h.DeleteEvent))
	router.PUT("/api/events/:eventid/registration", middleware.Authenticate(h.ToggleRegistration))
	router.POST("/api/events/:eventid/banner", middleware.Authenticate(h.UploadBanner))
}

func AddRegistrationRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *registrations.Handler) {
	router.POST("/api/events/:eventid/registrations", rl.Limit(middleware.Authenticate(h.Register)))
	router.GET("/api/events/:eventid/registrations", middleware.Authenticate(h.GetEventRegistrations))
	router.GET("/api/registrations", middleware.Authenticate(h.GetMyRegistrations))
	router.GET("/api/registrations/:id", middleware.Authenticate(h.GetRegistration))
	router.PUT("/api/registrations/:id/status", middleware.Authenticate(h.SetStatus))
	router.PUT("/api/registrations/:id/attendance", middleware.Authenticate(h.MarkAttendance))
	router.DELETE("/api/registrations/:id", middleware.Authenticate(h.Cancel))
}

func AddTeamRoutes(router *httprouter.Router, h *teams.Handler) {
	router.GET("/api/teams/:teamid", middleware.Authenticate(h.GetTeam))
	router.GET("/api/events/:eventid/teams", middleware.Authenticate(h.GetEventTeams))
	router.GET("/api/invites/:code", middleware.Authenticate(h.PreviewByInviteCode))
	router.DELETE("/api/teams/:teamid/members/:userid", middleware.Authenticate(h.RemoveMember))
}

func AddTicketRoutes(router *httprouter.Router, h *tickets.Handler) {
	router.GET("/api/registrations/:id/ticket", middleware.Authenticate(h.GetTicketQR))
	router.GET("/api/registrations/:id/ticket/pdf", middleware.Authenticate(h.PrintTicket))
	router.POST("/api/events/:eventid/scan", middleware.Authenticate(h.ScanTicket))
}

func AddNotificationRoutes(router *httprouter.Router, h *notifications.Handler) {
	router.GET("/api/notifications", middleware.Authenticate(h.GetNotifications))
	router.PUT("/api/notifications/:id/read", middleware.Authenticate(h.MarkRead))
}

func AddMessageRoutes(router *httprouter.Router, h *messages.Handler, hub *messages.Hub) {
	router.GET("/api/events/:eventid/messages", middleware.Authenticate(h.GetMessages))
	router.POST("/api/events/:eventid/messages", middleware.Authenticate(h.PostMessage))
	router.GET("/ws/events/:eventid", h.ServeWS(hub))
}

func AddReviewRoutes(router *httprouter.Router, h *reviews.Handler) {
	router.GET("/api/events/:eventid/reviews", h.GetReviews)
	router.POST("/api/events/:eventid/reviews", middleware.Authenticate(h.CreateReview))
}

func AddAgiRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *agi.Handler) {
	router.POST("/api/agi/description", rl.Limit(middleware.Authenticate(h.GenerateDescription)))
	router.GET("/api/agi/recommendations", middleware.OptionalAuth(h.RecommendEvents))
}

func AddProxyRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *proxy.Handler) {
	router.POST("/api/action/:action", rl.Limit(h.Action))
}
