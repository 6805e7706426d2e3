package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/havenmind/haven-server/internal/api/recovery"
	"github.com/havenmind/haven-server/internal/config"
	"github.com/havenmind/haven-server/internal/imagegen"
	"github.com/havenmind/haven-server/internal/services"
	"github.com/havenmind/haven-server/internal/store"
	"github.com/havenmind/haven-server/internal/webhook"
)

// NewRouter creates the HTTP router with all API routes wired to the given
// store. images may be nil when no image service is configured.
func NewRouter(cfg *config.Config, st store.Store, images imagegen.Generator, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	// Domain services
	processor := webhook.NewProcessor(st.CallRecords(), images, cfg.WebhookUserID, log)
	wellness := services.NewWellnessService(st)

	// Handlers
	healthHandler := NewHealthHandler()
	webhookHandler := NewWebhookHandler(processor, cfg.WebhookSecret, log)
	callHandler := NewCallHandler(st.CallRecords(), cfg.AllowDestructiveOps)
	wellnessHandler := NewWellnessHandler(wellness)
	contactHandler := NewContactHandler(wellness)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Webhook ingestion
	router.HandleFunc("/api/webhooks/voice", webhookHandler.HandleEvent).Methods("POST")

	// Call record endpoints
	router.HandleFunc("/api/users/{userId}/calls", callHandler.ListCalls).Methods("GET")
	router.HandleFunc("/api/users/{userId}/calls/{callId}", callHandler.GetCall).Methods("GET")
	router.HandleFunc("/api/calls", callHandler.DeleteAllCalls).Methods("DELETE")

	// Mood and stats endpoints
	router.HandleFunc("/api/users/{userId}/moods", wellnessHandler.RecordMood).Methods("POST")
	router.HandleFunc("/api/users/{userId}/moods", wellnessHandler.ListMoods).Methods("GET")
	router.HandleFunc("/api/users/{userId}/stats", wellnessHandler.GetStats).Methods("GET")

	// Safety contact endpoints
	router.HandleFunc("/api/users/{userId}/contacts", contactHandler.AddContact).Methods("POST")
	router.HandleFunc("/api/users/{userId}/contacts", contactHandler.ListContacts).Methods("GET")
	router.HandleFunc("/api/users/{userId}/contacts/{contactId}", contactHandler.RemoveContact).Methods("DELETE")

	return router
}
