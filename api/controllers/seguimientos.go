package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/elcobre-lavanderia/tracking-backend/api/middleware"
	"github.com/elcobre-lavanderia/tracking-backend/api/responses"
	"github.com/elcobre-lavanderia/tracking-backend/api/validators"
	"github.com/elcobre-lavanderia/tracking-backend/internal/seguimientos"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	pkgerrors "github.com/elcobre-lavanderia/tracking-backend/pkg/errors"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/logger"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/pagination"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/types"
)

type advanceRequest struct {
	Turno     *string       `json:"turno,omitempty" validate:"omitempty,oneof=A B"`
	Operarios []workerInput `json:"operarios,omitempty" validate:"omitempty,dive"`
}

type workerInput struct {
	ID     string `json:"id" validate:"required"`
	Nombre string `json:"nombre" validate:"required"`
}

// ListSeguimientos returns a page of active tracking records for the panels.
func ListSeguimientos(svc seguimientos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seguimientos service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters, err := buildListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListActivos(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetSeguimiento returns the full comanda view by seguimiento id.
func GetSeguimiento(svc seguimientos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seguimientos service unavailable"))
			return
		}

		id, err := parseSeguimientoID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		completa, err := svc.GetCompleta(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, completa)
	}
}

// GetSeguimientoByOrden returns the full comanda view by numero de orden.
func GetSeguimientoByOrden(svc seguimientos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seguimientos service unavailable"))
			return
		}

		numeroOrden := strings.TrimSpace(chi.URLParam(r, "numeroOrden"))
		if numeroOrden == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "numero de orden is required"))
			return
		}

		completa, err := svc.GetCompletaByNumeroOrden(r.Context(), numeroOrden)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, completa)
	}
}

// AdvanceSeguimiento moves a tracking record one estado forward.
func AdvanceSeguimiento(svc seguimientos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seguimientos service unavailable"))
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

		var payload advanceRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		input := seguimientos.AdvanceInput{
			SeguimientoID: id,
			Actor:         actor,
			Operarios:     buildWorkers(payload.Operarios),
		}
		if payload.Turno != nil {
			turno, err := enums.ParseShift(*payload.Turno)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid turno"))
				return
			}
			input.Turno = &turno
		}

		updated, err := svc.Advance(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ReverseSeguimiento undoes the most recent transition.
func ReverseSeguimiento(svc seguimientos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seguimientos service unavailable"))
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

		updated, err := svc.Reverse(r.Context(), seguimientos.ReverseInput{
			SeguimientoID: id,
			Actor:         actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ActivateDesmanche sends a comanda back through the wash line for rework.
func ActivateDesmanche(svc seguimientos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seguimientos service unavailable"))
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

		updated, err := svc.ActivateDesmanche(r.Context(), seguimientos.DesmancheInput{
			SeguimientoID: id,
			Actor:         actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func buildListFilters(r *http.Request) (seguimientos.ListFilters, error) {
	var filters seguimientos.ListFilters
	for _, raw := range r.URL.Query()["estado"] {
		for _, token := range strings.Split(raw, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			estado, err := enums.ParseComandaState(token)
			if err != nil {
				return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid estado %q", token))
			}
			filters.Estados = append(filters.Estados, estado)
		}
	}
	return filters, nil
}

func buildWorkers(inputs []workerInput) types.Workers {
	if len(inputs) == 0 {
		return nil
	}
	workers := make(types.Workers, 0, len(inputs))
	for _, in := range inputs {
		workers = append(workers, types.Worker{
			ID:     strings.TrimSpace(in.ID),
			Nombre: strings.TrimSpace(in.Nombre),
		})
	}
	return workers
}

func parseSeguimientoID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "seguimientoId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "seguimiento id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid seguimiento id")
	}
	return id, nil
}

func actorFromRequest(r *http.Request) (seguimientos.ActorInput, error) {
	actorID := middleware.ActorIDFromContext(r.Context())
	if actorID == "" {
		return seguimientos.ActorInput{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing")
	}
	return seguimientos.ActorInput{
		ID:     actorID,
		Nombre: middleware.ActorNameFromContext(r.Context()),
		Role:   middleware.RoleFromContext(r.Context()),
	}, nil
}
