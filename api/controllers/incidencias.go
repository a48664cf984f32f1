package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/elcobre-lavanderia/tracking-backend/api/responses"
	"github.com/elcobre-lavanderia/tracking-backend/api/validators"
	"github.com/elcobre-lavanderia/tracking-backend/internal/incidencias"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	pkgerrors "github.com/elcobre-lavanderia/tracking-backend/pkg/errors"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/logger"
)

type reportIncidenciaRequest struct {
	Categoria   string `json:"categoria" validate:"required"`
	Descripcion string `json:"descripcion" validate:"required"`
}

// ReportIncidencia files a plant incident against a seguimiento.
func ReportIncidencia(svc incidencias.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "incidencias service unavailable"))
			return
		}

		id, err := parseSeguimientoID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload reportIncidenciaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoria, err := enums.ParseIncidentCategory(payload.Categoria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid categoria"))
			return
		}

		created, err := svc.Reportar(r.Context(), incidencias.ReportInput{
			SeguimientoID: id,
			Actor:         incidencias.ActorInput(actor),
			Categoria:     categoria,
			Descripcion:   strings.TrimSpace(payload.Descripcion),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ResolveIncidencia marks a plant incident as resolved.
func ResolveIncidencia(svc incidencias.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "incidencias service unavailable"))
			return
		}

		id, err := parseSeguimientoID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rawIncidencia := strings.TrimSpace(chi.URLParam(r, "incidenciaId"))
		if rawIncidencia == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "incidencia id is required"))
			return
		}
		incidenciaID, err := uuid.Parse(rawIncidencia)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid incidencia id"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Resolver(r.Context(), id, incidenciaID, incidencias.ActorInput(actor)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// ListIncidencias returns every plant incident filed against a seguimiento.
func ListIncidencias(svc incidencias.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "incidencias service unavailable"))
			return
		}

		id, err := parseSeguimientoID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListBySeguimiento(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
