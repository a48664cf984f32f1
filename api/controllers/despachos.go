package controllers

import (
	"net/http"
	"strings"

	"github.com/elcobre-lavanderia/tracking-backend/api/responses"
	"github.com/elcobre-lavanderia/tracking-backend/api/validators"
	"github.com/elcobre-lavanderia/tracking-backend/internal/despachos"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	pkgerrors "github.com/elcobre-lavanderia/tracking-backend/pkg/errors"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/logger"
)

type startDespachoRequest struct {
	RepartidorID     string `json:"repartidor_id" validate:"required"`
	RepartidorNombre string `json:"repartidor_nombre" validate:"required"`
	Vehiculo         string `json:"vehiculo" validate:"required"`
	Patente          string `json:"patente" validate:"required"`
}

type confirmEntregaRequest struct {
	Codigo           string `json:"codigo" validate:"required"`
	PersonaQueRecibe string `json:"persona_que_recibe" validate:"required"`
}

type despachoIncidentRequest struct {
	Categoria   string `json:"categoria" validate:"required"`
	Descripcion string `json:"descripcion" validate:"required"`
}

// StartDespacho puts a listo_despacho comanda on the street.
func StartDespacho(svc despachos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "despachos service unavailable"))
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

		var payload startDespachoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Start(r.Context(), despachos.StartInput{
			SeguimientoID:    id,
			Actor:            despachos.ActorInput(actor),
			RepartidorID:     strings.TrimSpace(payload.RepartidorID),
			RepartidorNombre: strings.TrimSpace(payload.RepartidorNombre),
			Vehiculo:         strings.TrimSpace(payload.Vehiculo),
			Patente:          strings.TrimSpace(payload.Patente),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ConfirmEntrega closes a delivery against the verification code.
func ConfirmEntrega(svc despachos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "despachos service unavailable"))
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

		var payload confirmEntregaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.ConfirmarEntrega(r.Context(), despachos.ConfirmInput{
			SeguimientoID:    id,
			Actor:            despachos.ActorInput(actor),
			Codigo:           strings.TrimSpace(payload.Codigo),
			PersonaQueRecibe: strings.TrimSpace(payload.PersonaQueRecibe),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ReportDespachoIncidencia marks the street leg as failed.
func ReportDespachoIncidencia(svc despachos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "despachos service unavailable"))
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

		var payload despachoIncidentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoria, err := enums.ParseDispatchIncidentCategory(payload.Categoria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid categoria"))
			return
		}

		updated, err := svc.ReportarIncidencia(r.Context(), despachos.IncidentInput{
			SeguimientoID: id,
			Actor:         despachos.ActorInput(actor),
			Categoria:     categoria,
			Descripcion:   strings.TrimSpace(payload.Descripcion),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ListDespachosEnRuta returns the despachos currently on the street.
func ListDespachosEnRuta(svc despachos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "despachos service unavailable"))
			return
		}

		rows, err := svc.ListEnRuta(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
