package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Literal segments (hosted, attending) take precedence over the
// {eventID} wildcard; controllers also validate IDs as UUIDs.
func NewRouter(
	authController *controllers.AuthController,
	userController *controllers.UserController,
	eventController *controllers.EventController,
	membershipController *controllers.MembershipController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.LogIn)

	// Profile
	mux.HandleFunc("GET /users/me", requireAuth(userController.GetMe))
	mux.HandleFunc("PATCH /users/me", requireAuth(userController.UpdateMe))
	mux.HandleFunc("DELETE /users/me", requireAuth(userController.DeleteMe))
	mux.HandleFunc("PUT /users/me/password", requireAuth(userController.ChangePassword))

	// Events
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/hosted", requireAuth(eventController.ListHostedEvents))
	mux.HandleFunc("GET /events/attending", requireAuth(membershipController.ListAttendingEvents))
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEventByID)
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(eventController.UpdateEvent))

	// Membership
	mux.HandleFunc("PUT /events/{eventID}/join", requireAuth(membershipController.JoinEvent))
	mux.HandleFunc("PUT /events/{eventID}/leave", requireAuth(membershipController.LeaveEvent))
	mux.HandleFunc("GET /events/{eventID}/attendees", requireAuth(membershipController.ListAttendees))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
