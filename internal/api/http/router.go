package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	platformhealth "github.com/shestoi/GoBigTech/gamestore/platform/health/http"
	platformobservability "github.com/shestoi/GoBigTech/gamestore/platform/observability"
)

// NewRouter создаёт и настраивает HTTP роутер GameStore API
// readiness - функция для проверки готовности сервиса; nil = всегда готов.
// logger используется для observability HTTP middleware (trace_id в логах).
func NewRouter(handler *Handler, readiness func() bool, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	// Observability: trace context + span на каждый запрос, logger с trace_id в контексте
	if logger != nil {
		router.Use(platformobservability.HTTPMiddleware("gamestore-api", logger))
	}

	router.Get("/providers", handler.GetProviders)
	router.Post("/purchases", handler.PostPurchases)
	router.Post("/sales/day", handler.PostSalesDay)
	router.Get("/balance", handler.GetBalance)

	router.Route("/inventory", func(r chi.Router) {
		r.Get("/", handler.GetInventory)
		r.Post("/", handler.PostInventory)

		// статические маршруты chi проверяет раньше параметров
		r.Get("/value", handler.GetInventoryValue)
		r.Get("/most-expensive", handler.GetMostExpensive)
		r.Get("/average-price", handler.GetAveragePrice)

		r.Put("/{name}/price", handler.PutItemPrice)
		r.Put("/{name}/stock", handler.PutItemStock)
		r.Delete("/{name}", handler.DeleteItem)
	})

	router.Get("/health", platformhealth.Handler(readiness))

	return router
}
