package http

import (
	"net/http"

	"servicedesk-backend/internal/handlers"
	"servicedesk-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Company   *handlers.CompanyHandler
	Invoice   *handlers.InvoiceHandler
	Payment   *handlers.PaymentHandler
	Journal   *handlers.JournalHandler
	Analytics *handlers.AnalyticsHandler
	Export    *handlers.ExportHandler
	Health    *handlers.HealthHandler
}

// NewRouter wires the API. uploadDir, when set, is served under /uploads/.
func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware, uploadDir string) *mux.Router {
	r := mux.NewRouter()
	// Runs after route matching so requests are labelled by path template
	r.Use(middleware.MetricsMiddleware)

	admin := func(fn http.HandlerFunc) http.Handler { return middleware.RequireAdmin(fn) }
	agent := func(fn http.HandlerFunc) http.Handler { return middleware.RequireAgent(fn) }

	// Uploaded screenshots when stored on local disk
	if uploadDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))
	}

	// Health and metrics (no auth)
	r.HandleFunc("/health", h.Health.Health).Methods("GET")
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API routes - Authentication
	r.HandleFunc("/api/auth/login", h.Auth.Login).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/auth/profile", h.Auth.Profile).Methods("GET")

	// Companies and locations - admin only
	companies := api.PathPrefix("/companies").Subrouter()
	companies.Use(middleware.RequireAdmin)
	companies.HandleFunc("", h.Company.CreateCompany).Methods("POST")
	companies.HandleFunc("", h.Company.ListCompanies).Methods("GET")
	companies.HandleFunc("/download", h.Company.DownloadCompanies).Methods("GET")
	companies.HandleFunc("/{id:[0-9]+}", h.Company.GetCompany).Methods("GET")
	companies.HandleFunc("/{id:[0-9]+}", h.Company.UpdateCompany).Methods("PATCH")
	companies.HandleFunc("/{id:[0-9]+}", h.Company.DeleteCompany).Methods("DELETE")
	companies.HandleFunc("/{id:[0-9]+}/locations", h.Company.CreateLocation).Methods("POST")
	companies.HandleFunc("/{id:[0-9]+}/locations", h.Company.ListLocations).Methods("GET")
	companies.HandleFunc("/{id:[0-9]+}/locations/{locationId:[0-9]+}", h.Company.UpdateLocation).Methods("PATCH")
	companies.HandleFunc("/{id:[0-9]+}/locations/{locationId:[0-9]+}", h.Company.DeleteLocation).Methods("DELETE")

	// Invoices - agents see their own location
	api.Handle("/invoices", admin(h.Invoice.CreateInvoice)).Methods("POST")
	api.HandleFunc("/invoices", h.Invoice.ListInvoices).Methods("GET")
	api.HandleFunc("/invoices/{id:[0-9]+}", h.Invoice.GetInvoice).Methods("GET")
	api.HandleFunc("/invoices/{id:[0-9]+}/pdf", h.Invoice.DownloadPDF).Methods("GET")
	api.HandleFunc("/invoices/{id:[0-9]+}/status", h.Invoice.UpdateStatus).Methods("PATCH")
	api.Handle("/invoices/{id:[0-9]+}", admin(h.Invoice.UpdateInvoice)).Methods("PATCH")
	api.Handle("/invoices/{id:[0-9]+}", admin(h.Invoice.DeleteInvoice)).Methods("DELETE")

	// Payments - agents raise, admins settle
	api.HandleFunc("/payments", h.Payment.CreatePayment).Methods("POST")
	api.HandleFunc("/payments", h.Payment.ListPayments).Methods("GET")
	api.HandleFunc("/payments/export", h.Payment.ExportPayments).Methods("GET")
	api.HandleFunc("/payments/{id:[0-9]+}", h.Payment.GetPayment).Methods("GET")
	api.Handle("/payments/{id:[0-9]+}/status", admin(h.Payment.UpdateStatus)).Methods("PATCH")
	api.Handle("/payments/{id:[0-9]+}", admin(h.Payment.DeletePayment)).Methods("DELETE")

	// Journal - admin only
	journal := api.PathPrefix("/journal").Subrouter()
	journal.Use(middleware.RequireAdmin)
	journal.HandleFunc("", h.Journal.CreateJournal).Methods("POST")
	journal.HandleFunc("", h.Journal.ListJournals).Methods("GET")
	journal.HandleFunc("/{id:[0-9]+}", h.Journal.GetJournal).Methods("GET")
	journal.HandleFunc("/{id:[0-9]+}", h.Journal.UpdateJournal).Methods("PATCH")
	journal.HandleFunc("/{id:[0-9]+}", h.Journal.DeleteJournal).Methods("DELETE")

	// Analytics
	api.Handle("/analytics/summary", admin(h.Analytics.Summary)).Methods("GET")
	api.Handle("/analytics/payments/stats", admin(h.Analytics.PaymentStats)).Methods("GET")
	api.Handle("/analytics/payments/trend", admin(h.Analytics.PaymentTrend)).Methods("GET")
	api.Handle("/analytics/companies/growth", admin(h.Analytics.CompanyGrowth)).Methods("GET")
	api.Handle("/analytics/journals/activity", admin(h.Analytics.JournalActivity)).Methods("GET")
	api.Handle("/analytics/agent/payments/stats", agent(h.Analytics.AgentStats)).Methods("GET")
	api.Handle("/analytics/agent/payments/trend", agent(h.Analytics.AgentTrend)).Methods("GET")

	// Export
	api.Handle("/export/database", admin(h.Export.DatabaseExport)).Methods("GET")

	return r
}
