package server

import (
	"net/http"

	"github.com/Lutefd/currency-converter/internal/handler"
	api_middleware "github.com/Lutefd/currency-converter/internal/middleware"
	"github.com/Lutefd/currency-converter/internal/service"
	"github.com/Lutefd/currency-converter/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) registerRoutes(conversionService service.ConversionServiceInterface) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(telemetry.Instrument)

	var probe handler.ProbeStatusReporter
	if s.probe != nil {
		probe = s.probe
	}
	rateLimiter := api_middleware.NewRateLimiter(s.config.RateLimitRPS)
	conversionHandler := handler.NewConversionHandler(conversionService)
	pageHandler := handler.NewPageHandler(conversionService.Currencies())

	router.Get("/", pageHandler.Index)
	router.Get("/healthz", handler.HandlerReadiness(probe))
	router.Method(http.MethodGet, "/metrics", telemetry.Handler())
	router.Route("/api", func(r chi.Router) {
		r.Get("/currencies", conversionHandler.ListCurrencies)
		r.With(rateLimiter.Middleware).Get("/convert", conversionHandler.ConvertCurrency)
		r.Get("/history", conversionHandler.ListHistory)
		r.With(api_middleware.RequireAdminToken(s.config.AdminTokenHash)).Delete("/history", conversionHandler.ClearHistory)
	})
	s.Router = router
}
