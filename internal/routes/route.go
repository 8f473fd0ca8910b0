package routes

import (
	"net/http"

	"geofence-bknd/internal/config"
	"geofence-bknd/internal/handlers"
	"geofence-bknd/internal/logger"
	"geofence-bknd/internal/metrics"
	mdlwr "geofence-bknd/internal/middleware"
	"geofence-bknd/internal/realtime"
	"geofence-bknd/internal/services"
	"geofence-bknd/internal/sms"
	"geofence-bknd/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the process-wide collaborators shared by every handler.
type Deps struct {
	Store    store.Store
	Registry *realtime.Registry
	SMS      sms.Sender
	Places   services.PlacesFinder
}

func NewRouter(deps Deps, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(mdlwr.NewRequestLogger(logr.Logger).Handler)

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	adminSvc := services.NewAdministrationService(deps.Store, logr)
	userSvc := services.NewUserService(deps.Store, logr)
	zoneSvc := services.NewZoneService(deps.Store, logr)
	spotSvc := services.NewSweetSpotService(deps.Store, logr)
	alertSvc := services.NewAlertService(deps.Store, deps.Registry, cfg.PathTolerance, logr)
	sosSvc := services.NewSOSService(deps.Store, deps.SMS, services.SOSOptions{
		From:               cfg.TwilioPhone,
		DefaultCountryCode: cfg.DefaultCountryCode,
		Concurrency:        cfg.SMSConcurrency,
	}, logr)
	policeSvc := services.NewPoliceService(deps.Places)

	adminHandler := handlers.NewAdministrationHandler(adminSvc, logr.Logger)
	userHandler := handlers.NewUserHandler(userSvc, logr.Logger)
	zoneHandler := handlers.NewZoneHandler(zoneSvc, logr.Logger)
	spotHandler := handlers.NewSweetSpotHandler(spotSvc, logr.Logger)
	alertHandler := handlers.NewAlertHandler(alertSvc, sosSvc, logr.Logger)
	policeHandler := handlers.NewPoliceHandler(policeSvc, logr.Logger)

	hub := realtime.NewHub(deps.Registry, realtime.HubOptions{
		PingInterval:   cfg.WSPingInterval,
		WriteTimeout:   cfg.WSWriteTimeout,
		AllowedOrigins: cfg.AllowedOrigins,
	}, logr)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/administrations", func(r chi.Router) {
		r.Post("/", adminHandler.Create)
		r.Get("/", adminHandler.List)
		r.Get("/{id}", adminHandler.Get)
		r.Delete("/{id}", adminHandler.Delete)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Get("/{id}", userHandler.Get)
	})

	r.Route("/zones", func(r chi.Router) {
		r.Post("/", zoneHandler.Create)
		r.Get("/administration/{id}", zoneHandler.GetByAdministration)
		r.Get("/administration/{id}/geojson", zoneHandler.GeoJSON)
	})

	r.Route("/sweet-spots", func(r chi.Router) {
		r.Post("/", spotHandler.Create)
		r.Get("/", spotHandler.List)
		r.Get("/admin/{id}", spotHandler.ListByAdmin)
	})

	r.Post("/check-point", alertHandler.CheckPoint)
	r.Post("/send_coords", alertHandler.SendCoords)
	r.Get("/latest-coords", alertHandler.LatestCoords)
	r.Post("/device-alert/", alertHandler.DeviceAlert)

	r.Get("/nearest-police-stations/", policeHandler.Nearest)

	r.Get("/ws/user", hub.ServeRole(realtime.RoleUser))
	r.Get("/ws/admin", hub.ServeRole(realtime.RoleAdmin))

	return r
}
