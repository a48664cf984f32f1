package incidencias

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
	"github.com/elcobre-lavanderia/tracking-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ActorInput identifies who reports or resolves an incident.
type ActorInput struct {
	ID     string
	Nombre string
	Role   string
}

// ReportInput captures a new plant incident.
type ReportInput struct {
	SeguimientoID uuid.UUID
	Actor         ActorInput
	Categoria     enums.IncidentCategory
	Descripcion   string
}

// IncidenciaEvent is the outbox payload for incident lifecycle changes.
type IncidenciaEvent struct {
	IncidenciaID  uuid.UUID              `json:"incidencia_id"`
	SeguimientoID uuid.UUID              `json:"seguimiento_id"`
	Categoria     enums.IncidentCategory `json:"categoria"`
	Resuelta      bool                   `json:"resuelta"`
}

// Service defines incident reporting and resolution.
type Service interface {
	Reportar(ctx context.Context, input ReportInput) (*models.Incidencia, error)
	Resolver(ctx context.Context, seguimientoID, incidenciaID uuid.UUID, actor ActorInput) error
	ListBySeguimiento(ctx context.Context, seguimientoID uuid.UUID) ([]models.Incidencia, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds an incidencias service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("incidencias repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc}, nil
}

func (s *service) Reportar(ctx context.Context, input ReportInput) (*models.Incidencia, error) {
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

	var created *models.Incidencia

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		seg, err := repo.FindSeguimiento(ctx, input.SeguimientoID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "seguimiento not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seguimiento")
		}

		row := &models.Incidencia{
			SeguimientoID:   seg.ID,
			EstadoAlReporte: seg.EstadoActual,
			Categoria:       input.Categoria,
			Descripcion:     input.Descripcion,
			OperarioID:      input.Actor.ID,
			OperarioNombre:  input.Actor.Nombre,
			Resuelta:        false,
			ReportadaAt:     time.Now(),
		}
		created, err = repo.Create(ctx, row)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create incidencia")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventIncidenciaReported,
			AggregateType: enums.AggregateIncidencia,
			AggregateID:   created.ID,
			Version:       1,
			Actor:         buildActor(input.Actor),
			Data: IncidenciaEvent{
				IncidenciaID:  created.ID,
				SeguimientoID: seg.ID,
				Categoria:     input.Categoria,
				Resuelta:      false,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Resolver(ctx context.Context, seguimientoID, incidenciaID uuid.UUID, actor ActorInput) error {
	if seguimientoID == uuid.Nil || incidenciaID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "seguimiento and incidencia ids required")
	}
	if actor.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindSeguimiento(ctx, seguimientoID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "seguimiento not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seguimiento")
		}

		incidencia, err := repo.FindByID(ctx, incidenciaID)
		if err != nil {
			// resolving an unknown incidencia is a no-op
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load incidencia")
		}
		if incidencia.SeguimientoID != seguimientoID {
			return nil
		}
		if incidencia.Resuelta {
			return nil
		}

		if err := repo.MarkResuelta(ctx, incidencia.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark incidencia resuelta")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventIncidenciaResolved,
			AggregateType: enums.AggregateIncidencia,
			AggregateID:   incidencia.ID,
			Version:       1,
			Actor:         buildActor(actor),
			Data: IncidenciaEvent{
				IncidenciaID:  incidencia.ID,
				SeguimientoID: seguimientoID,
				Categoria:     incidencia.Categoria,
				Resuelta:      true,
			},
		})
	})
}

func (s *service) ListBySeguimiento(ctx context.Context, seguimientoID uuid.UUID) ([]models.Incidencia, error) {
	if seguimientoID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seguimiento id required")
	}
	rows, err := s.repo.ListBySeguimiento(ctx, seguimientoID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list incidencias")
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
