package despachos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	pkgerrors "github.com/elcobre-lavanderia/tracking-backend/pkg/errors"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/metrics"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/outbox"
)

var (
	// ErrInvalidState is returned when the seguimiento is not in the estado the
	// dispatch operation requires.
	ErrInvalidState = pkgerrors.New(pkgerrors.CodeStateConflict, "seguimiento not in required estado")
	// ErrCodigoMismatch is returned when the presented verification code does
	// not match. The comanda stays untouched.
	ErrCodigoMismatch = pkgerrors.New(pkgerrors.CodeForbidden, "codigo de entrega does not match")
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Notifier fires the customer message when the driver departs.
type Notifier interface {
	DespachoStarted(ctx context.Context, seguimientoID uuid.UUID)
}

// Service defines the street-leg operations for despacho comandas.
type Service interface {
	Start(ctx context.Context, input StartInput) (*models.Despacho, error)
	ConfirmarEntrega(ctx context.Context, input ConfirmInput) (*models.Despacho, error)
	ReportarIncidencia(ctx context.Context, input IncidentInput) (*models.Despacho, error)
	ListEnRuta(ctx context.Context) ([]models.Despacho, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	notifier Notifier
	metrics  *metrics.TrackingMetrics
}

// NewService builds a despachos service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, notifier Notifier, trackingMetrics *metrics.TrackingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("despachos repository required")
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

func (s *service) Start(ctx context.Context, input StartInput) (*models.Despacho, error) {
	if input.SeguimientoID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seguimiento id required")
	}
	if input.Actor.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if input.RepartidorNombre == "" || input.Vehiculo == "" || input.Patente == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "repartidor, vehiculo and patente required")
	}

	var updated *models.Despacho

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		seg, err := repo.FindSeguimiento(ctx, input.SeguimientoID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "seguimiento not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seguimiento")
		}
		if seg.EstadoActual != enums.StateListoDespacho {
			return ErrInvalidState
		}

		despacho, err := repo.FindDespacho(ctx, seg.ID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "comanda has no despacho leg")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load despacho")
		}

		now := time.Now()
		seq, err := repo.NextSeq(ctx, seg.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next history seq")
		}
		evento := &models.SeguimientoEvento{
			SeguimientoID:  seg.ID,
			Seq:            seq,
			Estado:         enums.StateEnDespacho,
			OperarioID:     input.Actor.ID,
			OperarioNombre: input.Actor.Nombre,
			Turno:          seg.TurnoActual,
			Comentario:     "Despacho iniciado",
			OccurredAt:     now,
		}
		if err := repo.AppendEvento(ctx, evento); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append history evento")
		}

		if err := repo.UpdateSeguimiento(ctx, seg.ID, map[string]any{
			"estado_actual": enums.StateEnDespacho,
			"updated_at":    now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seguimiento")
		}

		if err := repo.UpdateDespacho(ctx, seg.ID, map[string]any{
			"estado":            enums.DispatchEnCamino,
			"repartidor_id":     input.RepartidorID,
			"repartidor_nombre": input.RepartidorNombre,
			"vehiculo":          input.Vehiculo,
			"patente":           input.Patente,
			"hora_salida":       now,
			"updated_at":        now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update despacho")
		}

		despacho.Estado = enums.DispatchEnCamino
		despacho.RepartidorID = &input.RepartidorID
		despacho.RepartidorNombre = &input.RepartidorNombre
		despacho.Vehiculo = &input.Vehiculo
		despacho.Patente = &input.Patente
		despacho.HoraSalida = &now
		despacho.UpdatedAt = now
		updated = despacho

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDespachoStarted,
			AggregateType: enums.AggregateDespacho,
			AggregateID:   seg.ID,
			Version:       1,
			Actor:         buildActor(input.Actor),
			Data: DespachoStartedEvent{
				SeguimientoID:    seg.ID,
				NumeroOrden:      seg.NumeroOrden,
				RepartidorID:     input.RepartidorID,
				RepartidorNombre: input.RepartidorNombre,
				Vehiculo:         input.Vehiculo,
				Patente:          input.Patente,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(string(enums.StateEnDespacho))
	s.notifier.DespachoStarted(ctx, input.SeguimientoID)

	return updated, nil
}

func (s *service) ConfirmarEntrega(ctx context.Context, input ConfirmInput) (*models.Despacho, error) {
	if input.SeguimientoID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seguimiento id required")
	}
	if input.Actor.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if strings.TrimSpace(input.Codigo) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "codigo de entrega required")
	}
	if strings.TrimSpace(input.PersonaQueRecibe) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "persona que recibe required")
	}

	var updated *models.Despacho

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		seg, err := repo.FindSeguimiento(ctx, input.SeguimientoID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "seguimiento not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seguimiento")
		}
		if seg.EstadoActual != enums.StateEnDespacho {
			return ErrInvalidState
		}

		comanda, err := repo.FindComanda(ctx, seg.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comanda")
		}

		// case-insensitive compare; a mismatch leaves every row untouched
		if !strings.EqualFold(strings.TrimSpace(input.Codigo), strings.TrimSpace(comanda.CodigoEntrega)) {
			return ErrCodigoMismatch
		}

		despacho, err := repo.FindDespacho(ctx, seg.ID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "comanda has no despacho leg")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load despacho")
		}

		now := time.Now()
		seq, err := repo.NextSeq(ctx, seg.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next history seq")
		}
		evento := &models.SeguimientoEvento{
			SeguimientoID:  seg.ID,
			Seq:            seq,
			Estado:         enums.StateEntregado,
			OperarioID:     input.Actor.ID,
			OperarioNombre: input.Actor.Nombre,
			Turno:          seg.TurnoActual,
			Comentario:     fmt.Sprintf("Entregado a: %s", input.PersonaQueRecibe),
			OccurredAt:     now,
		}
		if err := repo.AppendEvento(ctx, evento); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append history evento")
		}

		if err := repo.UpdateSeguimiento(ctx, seg.ID, map[string]any{
			"estado_actual": enums.StateEntregado,
			"activo":        false,
			"updated_at":    now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seguimiento")
		}

		if err := repo.UpdateDespacho(ctx, seg.ID, map[string]any{
			"estado":             enums.DispatchEntregado,
			"codigo_verificado":  true,
			"persona_que_recibe": input.PersonaQueRecibe,
			"hora_entrega":       now,
			"updated_at":         now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update despacho")
		}

		despacho.Estado = enums.DispatchEntregado
		despacho.CodigoVerificado = true
		despacho.PersonaQueRecibe = &input.PersonaQueRecibe
		despacho.HoraEntrega = &now
		despacho.UpdatedAt = now
		updated = despacho

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventEntregaConfirmed,
			AggregateType: enums.AggregateDespacho,
			AggregateID:   seg.ID,
			Version:       1,
			Actor:         buildActor(input.Actor),
			Data: EntregaConfirmedEvent{
				SeguimientoID:    seg.ID,
				NumeroOrden:      seg.NumeroOrden,
				PersonaQueRecibe: input.PersonaQueRecibe,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(string(enums.StateEntregado))
	return updated, nil
}

func (s *service) ReportarIncidencia(ctx context.Context, input IncidentInput) (*models.Despacho, error) {
	if input.SeguimientoID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seguimiento id required")
	}
	if input.Actor.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if !input.Categoria.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid categoria")
	}
	if strings.TrimSpace(input.Descripcion) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "descripcion required")
	}

	var updated *models.Despacho

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		seg, err := repo.FindSeguimiento(ctx, input.SeguimientoID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "seguimiento not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seguimiento")
		}

		despacho, err := repo.FindDespacho(ctx, seg.ID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "comanda has no despacho leg")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load despacho")
		}

		// the main estado stays put; only the street leg fails
		now := time.Now()
		if err := repo.UpdateDespacho(ctx, seg.ID, map[string]any{
			"estado":                  enums.DispatchFallido,
			"incidencia_categoria":    input.Categoria,
			"incidencia_descripcion":  input.Descripcion,
			"incidencia_reportada_at": now,
			"updated_at":              now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update despacho")
		}

		despacho.Estado = enums.DispatchFallido
		despacho.IncidenciaCategoria = &input.Categoria
		despacho.IncidenciaDescripcion = &input.Descripcion
		despacho.IncidenciaReportadaAt = &now
		despacho.UpdatedAt = now
		updated = despacho

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDespachoIncidentReported,
			AggregateType: enums.AggregateDespacho,
			AggregateID:   seg.ID,
			Version:       1,
			Actor:         buildActor(input.Actor),
			Data: DespachoIncidentEvent{
				SeguimientoID: seg.ID,
				NumeroOrden:   seg.NumeroOrden,
				Categoria:     input.Categoria,
				Descripcion:   input.Descripcion,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *service) ListEnRuta(ctx context.Context) ([]models.Despacho, error) {
	rows, err := s.repo.ListEnRuta(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list despachos en ruta")
	}
	return rows, nil
}

func buildActor(actor ActorInput) *outbox.ActorRef {
	return &outbox.ActorRef{
		ActorID: actor.ID,
		Nombre:  actor.Nombre,
		Role:    actor.Role,
	}
}
