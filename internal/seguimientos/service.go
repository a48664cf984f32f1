package seguimientos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	pkgerrors "github.com/elcobre-lavanderia/tracking-backend/pkg/errors"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/metrics"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/outbox"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/pagination"
)

var (
	// ErrNoNextState is returned when the current estado has no forward transition.
	ErrNoNextState = pkgerrors.New(pkgerrors.CodeStateConflict, "no next estado from current estado")
	// ErrNoPriorState is returned when the history is too short to step back.
	ErrNoPriorState = pkgerrors.New(pkgerrors.CodeStateConflict, "no prior estado in history")
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Notifier fires customer messages after a transition commits. Implementations
// swallow and log failures; a lost message never fails a transition.
type Notifier interface {
	ProcessStarted(ctx context.Context, seguimientoID uuid.UUID)
	ReadyForPickup(ctx context.Context, seguimientoID uuid.UUID)
}

// Service defines the tracking operations offered to the panels.
type Service interface {
	Advance(ctx context.Context, input AdvanceInput) (*models.Seguimiento, error)
	Reverse(ctx context.Context, input ReverseInput) (*models.Seguimiento, error)
	ActivateDesmanche(ctx context.Context, input DesmancheInput) (*models.Seguimiento, error)
	GetCompleta(ctx context.Context, id uuid.UUID) (*ComandaCompleta, error)
	GetCompletaByNumeroOrden(ctx context.Context, numeroOrden string) (*ComandaCompleta, error)
	ListActivos(ctx context.Context, params pagination.Params, filters ListFilters) (*SeguimientoList, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	notifier Notifier
	metrics  *metrics.TrackingMetrics
}

// NewService builds a seguimientos service with the required dependencies.
// Metrics may be nil; everything else is mandatory.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, notifier Notifier, trackingMetrics *metrics.TrackingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("seguimientos repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   outboxSvc,
		notifier: notifier,
		metrics:  trackingMetrics,
	}, nil
}

func (s *service) Advance(ctx context.Context, input AdvanceInput) (*models.Seguimiento, error) {
	if input.SeguimientoID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seguimiento id required")
	}
	if input.Actor.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if input.Turno != nil && !input.Turno.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid turno")
	}

	var (
		updated *models.Seguimiento
		desde   enums.ComandaState
		hasta   enums.ComandaState
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		seg, err := repo.FindSeguimiento(ctx, input.SeguimientoID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "seguimiento not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seguimiento")
		}

		desde = seg.EstadoActual

		// the delivery branch only matters leaving empaquetado
		delivery := enums.DeliveryRetiro
		if desde == enums.StateEmpaquetado {
			comanda, err := repo.FindComanda(ctx, seg.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comanda")
			}
			delivery = comanda.TipoEntrega
		}

		next, ok := NextState(desde, delivery)
		if !ok {
			return ErrNoNextState
		}
		hasta = next

		turno := seg.TurnoActual
		if input.Turno != nil {
			turno = input.Turno
		}

		now := time.Now()
		seq, err := repo.NextSeq(ctx, seg.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next history seq")
		}
		evento := &models.SeguimientoEvento{
			SeguimientoID:  seg.ID,
			Seq:            seq,
			Estado:         next,
			OperarioID:     input.Actor.ID,
			OperarioNombre: input.Actor.Nombre,
			Turno:          turno,
			Comentario:     fmt.Sprintf("Avanzó de %s a %s", desde, next),
			OccurredAt:     now,
		}
		if err := repo.AppendEvento(ctx, evento); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append history evento")
		}

		updates := map[string]any{
			"estado_actual": next,
			"updated_at":    now,
		}
		if input.Turno != nil {
			updates["turno_actual"] = *input.Turno
		}
		// delivery closes the record, whether it left the counter or a van
		if next == enums.StateEntregado {
			updates["activo"] = false
		}
		if err := repo.UpdateSeguimiento(ctx, seg.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seguimiento")
		}

		if len(input.Operarios) > 0 && input.Turno != nil && next.RequiresStaffing() {
			asignacion := &models.AsignacionEstado{
				SeguimientoID: seg.ID,
				Estado:        next,
				Turno:         *input.Turno,
				Operarios:     input.Operarios,
			}
			if err := repo.UpsertAsignacion(ctx, asignacion); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert asignacion")
			}
		}

		seg.EstadoActual = next
		seg.TurnoActual = turno
		if next == enums.StateEntregado {
			seg.Activo = false
		}
		seg.UpdatedAt = now
		updated = seg

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventEstadoAdvanced,
			AggregateType: enums.AggregateSeguimiento,
			AggregateID:   seg.ID,
			Version:       1,
			Actor:         buildActor(input.Actor),
			Data: EstadoChangedEvent{
				SeguimientoID: seg.ID,
				NumeroOrden:   seg.NumeroOrden,
				Desde:         desde,
				Hasta:         next,
				Turno:         turno,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(string(hasta))

	switch {
	case desde == enums.StatePendiente && hasta == enums.StateLavando:
		s.notifier.ProcessStarted(ctx, updated.ID)
	case hasta == enums.StateListoRetiro:
		s.notifier.ReadyForPickup(ctx, updated.ID)
	}

	return updated, nil
}

func (s *service) Reverse(ctx context.Context, input ReverseInput) (*models.Seguimiento, error) {
	if input.SeguimientoID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seguimiento id required")
	}
	if input.Actor.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	var (
		updated *models.Seguimiento
		prior   enums.ComandaState
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		seg, err := repo.FindSeguimiento(ctx, input.SeguimientoID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "seguimiento not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seguimiento")
		}

		last, err := repo.LastEventos(ctx, seg.ID, 2)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load history")
		}
		if len(last) < 2 {
			return ErrNoPriorState
		}

		desde := seg.EstadoActual
		prior = last[1].Estado

		now := time.Now()
		seq, err := repo.NextSeq(ctx, seg.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next history seq")
		}
		evento := &models.SeguimientoEvento{
			SeguimientoID:  seg.ID,
			Seq:            seq,
			Estado:         prior,
			OperarioID:     input.Actor.ID,
			OperarioNombre: input.Actor.Nombre,
			Turno:          seg.TurnoActual,
			Comentario:     fmt.Sprintf("Retrocedió de %s a %s", desde, prior),
			OccurredAt:     now,
		}
		if err := repo.AppendEvento(ctx, evento); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append history evento")
		}

		updates := map[string]any{
			"estado_actual": prior,
			"updated_at":    now,
		}
		// stepping out of desmanche deactivates the rework flag; the counter
		// keeps its value
		if desde == enums.StateDesmanche {
			updates["desmanche_activo"] = false
			seg.DesmancheActivo = false
		}
		if err := repo.UpdateSeguimiento(ctx, seg.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seguimiento")
		}

		seg.EstadoActual = prior
		seg.UpdatedAt = now
		updated = seg

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventEstadoReversed,
			AggregateType: enums.AggregateSeguimiento,
			AggregateID:   seg.ID,
			Version:       1,
			Actor:         buildActor(input.Actor),
			Data: EstadoChangedEvent{
				SeguimientoID: seg.ID,
				NumeroOrden:   seg.NumeroOrden,
				Desde:         desde,
				Hasta:         prior,
				Turno:         seg.TurnoActual,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(string(prior))
	return updated, nil
}

func (s *service) ActivateDesmanche(ctx context.Context, input DesmancheInput) (*models.Seguimiento, error) {
	if input.SeguimientoID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seguimiento id required")
	}
	if input.Actor.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	var updated *models.Seguimiento

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		seg, err := repo.FindSeguimiento(ctx, input.SeguimientoID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "seguimiento not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seguimiento")
		}

		desde := seg.EstadoActual
		now := time.Now()

		seq, err := repo.NextSeq(ctx, seg.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next history seq")
		}
		evento := &models.SeguimientoEvento{
			SeguimientoID:  seg.ID,
			Seq:            seq,
			Estado:         enums.StateDesmanche,
			OperarioID:     input.Actor.ID,
			OperarioNombre: input.Actor.Nombre,
			Turno:          seg.TurnoActual,
			Comentario:     "Iniciado proceso de desmanche",
			OccurredAt:     now,
		}
		if err := repo.AppendEvento(ctx, evento); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append history evento")
		}

		veces := seg.DesmancheVeces + 1
		updates := map[string]any{
			"estado_actual":             enums.StateDesmanche,
			"desmanche_activo":          true,
			"desmanche_veces":           veces,
			"desmanche_ultima_fecha":    now,
			"desmanche_operario_id":     input.Actor.ID,
			"desmanche_operario_nombre": input.Actor.Nombre,
			"updated_at":                now,
		}
		if err := repo.UpdateSeguimiento(ctx, seg.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seguimiento")
		}

		seg.EstadoActual = enums.StateDesmanche
		seg.DesmancheActivo = true
		seg.DesmancheVeces = veces
		seg.DesmancheUltimaFecha = &now
		seg.DesmancheOperarioID = &input.Actor.ID
		seg.DesmancheOperarioNombre = &input.Actor.Nombre
		seg.UpdatedAt = now
		updated = seg

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDesmancheActivated,
			AggregateType: enums.AggregateSeguimiento,
			AggregateID:   seg.ID,
			Version:       1,
			Actor:         buildActor(input.Actor),
			Data: DesmancheActivatedEvent{
				SeguimientoID: seg.ID,
				NumeroOrden:   seg.NumeroOrden,
				Desde:         desde,
				Veces:         veces,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(string(enums.StateDesmanche))
	return updated, nil
}

func (s *service) GetCompleta(ctx context.Context, id uuid.UUID) (*ComandaCompleta, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seguimiento id required")
	}

	seg, err := s.repo.FindSeguimiento(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seguimiento not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seguimiento")
	}
	return s.buildCompleta(ctx, seg)
}

func (s *service) GetCompletaByNumeroOrden(ctx context.Context, numeroOrden string) (*ComandaCompleta, error) {
	if numeroOrden == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "numero de orden required")
	}

	seg, err := s.repo.FindSeguimientoByNumeroOrden(ctx, numeroOrden)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seguimiento not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seguimiento")
	}
	return s.buildCompleta(ctx, seg)
}

func (s *service) buildCompleta(ctx context.Context, seg *models.Seguimiento) (*ComandaCompleta, error) {
	comanda, err := s.repo.FindComanda(ctx, seg.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comanda")
	}
	eventos, err := s.repo.ListEventos(ctx, seg.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load eventos")
	}
	asignaciones, err := s.repo.ListAsignaciones(ctx, seg.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load asignaciones")
	}
	incidencias, err := s.repo.ListIncidencias(ctx, seg.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load incidencias")
	}

	completa := &ComandaCompleta{
		Comanda:      *comanda,
		Seguimiento:  *seg,
		Eventos:      eventos,
		Asignaciones: asignaciones,
		Incidencias:  incidencias,
	}

	if comanda.TipoEntrega == enums.DeliveryDespacho {
		despacho, err := s.repo.FindDespacho(ctx, seg.ID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load despacho")
		}
		completa.Despacho = despacho
	}

	return completa, nil
}

func (s *service) ListActivos(ctx context.Context, params pagination.Params, filters ListFilters) (*SeguimientoList, error) {
	for _, estado := range filters.Estados {
		if !estado.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid estado %q", estado))
		}
	}
	list, err := s.repo.ListActivos(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seguimientos")
	}
	return list, nil
}

func buildActor(actor ActorInput) *outbox.ActorRef {
	return &outbox.ActorRef{
		ActorID: actor.ID,
		Nombre:  actor.Nombre,
		Role:    actor.Role,
	}
}
