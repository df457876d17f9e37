package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"rfp-service/internal/config"
	"rfp-service/internal/middleware"
	propHnd "rfp-service/internal/proposal/handler"
	"rfp-service/internal/proposal/service"
	"rfp-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, svc *service.Service, reg *prometheus.Registry) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health(svc.Catalog().Len))
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", propHnd.ListCatalog(svc))
		r.Get("/{sku}", propHnd.GetCatalogItem(svc))
	})
	r.Post("/match", propHnd.Match(svc, logger))
	r.Post("/proposals", propHnd.Propose(svc, logger))

	return r
}
