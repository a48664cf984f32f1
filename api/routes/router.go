package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elcobre-lavanderia/tracking-backend/api/controllers"
	"github.com/elcobre-lavanderia/tracking-backend/api/middleware"
	"github.com/elcobre-lavanderia/tracking-backend/internal/despachos"
	"github.com/elcobre-lavanderia/tracking-backend/internal/incidencias"
	"github.com/elcobre-lavanderia/tracking-backend/internal/seguimientos"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/config"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	seguimientosSvc seguimientos.Service,
	despachosSvc despachos.Service,
	incidenciasSvc incidencias.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/seguimientos", func(r chi.Router) {
			r.Get("/", controllers.ListSeguimientos(seguimientosSvc, logg))
			r.Get("/orden/{numeroOrden}", controllers.GetSeguimientoByOrden(seguimientosSvc, logg))

			r.Route("/{seguimientoId}", func(r chi.Router) {
				r.Get("/", controllers.GetSeguimiento(seguimientosSvc, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(logg, enums.RoleOperario, enums.RoleRecepcion))
					r.Post("/avanzar", controllers.AdvanceSeguimiento(seguimientosSvc, logg))
					r.Post("/retroceder", controllers.ReverseSeguimiento(seguimientosSvc, logg))
					r.Post("/desmanche", controllers.ActivateDesmanche(seguimientosSvc, logg))
				})

				r.Route("/incidencias", func(r chi.Router) {
					r.Get("/", controllers.ListIncidencias(incidenciasSvc, logg))
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRole(logg, enums.RoleOperario, enums.RoleRecepcion))
						r.Post("/", controllers.ReportIncidencia(incidenciasSvc, logg))
						r.Post("/{incidenciaId}/resolver", controllers.ResolveIncidencia(incidenciasSvc, logg))
					})
				})
			})
		})

		r.Route("/despachos", func(r chi.Router) {
			r.Get("/en-ruta", controllers.ListDespachosEnRuta(despachosSvc, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.RoleRepartidor, enums.RoleRecepcion))
				r.Post("/{seguimientoId}/iniciar", controllers.StartDespacho(despachosSvc, logg))
				r.Post("/{seguimientoId}/confirmar", controllers.ConfirmEntrega(despachosSvc, logg))
				r.Post("/{seguimientoId}/incidencia", controllers.ReportDespachoIncidencia(despachosSvc, logg))
			})
		})
	})

	return r
}
