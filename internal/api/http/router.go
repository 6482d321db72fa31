package http

import (
	"net/http"

	"carfleet-backend/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter assembles the API surface. Every route below /api requires a
// valid token; the per-operation capability checks sit on the mutating
// routes.
func NewRouter(
	tokens security.TokenManager,
	rentals *RentalHandler,
	payments *PaymentHandler,
	notifications *NotificationHandler,
) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(tokens))

	// Rentals
	api.HandleFunc("/rentals", requireCapability(security.CapRentalsCreate, rentals.Create)).Methods(http.MethodPost)
	api.HandleFunc("/rentals", rentals.List).Methods(http.MethodGet)
	api.HandleFunc("/rentals/number/{number}", rentals.GetByNumber).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}", rentals.Get).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}", requireCapability(security.CapRentalsDelete, rentals.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/rentals/{id:[0-9]+}/confirm", requireCapability(security.CapRentalsManage, rentals.Confirm)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/activate", requireCapability(security.CapRentalsManage, rentals.Activate)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/extend", requireCapability(security.CapRentalsManage, rentals.Extend)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/can-extend", rentals.CanExtend).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/extensions", rentals.ListExtensions).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/complete", requireCapability(security.CapRentalsManage, rentals.Complete)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/cancel", requireCapability(security.CapRentalsManage, rentals.Cancel)).Methods(http.MethodPost)

	// Payments
	api.HandleFunc("/rentals/{id:[0-9]+}/payments", requireCapability(security.CapRentalsEdit, payments.Post)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/payments", payments.List).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/payments/{paymentID:[0-9]+}", requireCapability(security.CapRentalsEdit, payments.Delete)).Methods(http.MethodDelete)

	// Availability
	api.HandleFunc("/cars/{id:[0-9]+}/availability", rentals.CheckAvailability).Methods(http.MethodGet)

	// Notifications
	api.HandleFunc("/notifications", notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notifications.MarkAsRead).Methods(http.MethodPost)

	return r
}
