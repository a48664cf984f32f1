package sync

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
	"github.com/elcobre-lavanderia/tracking-backend/pkg/logger"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/normalize"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/outbox"
)

const systemOperarioID = "sistema"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service applies intake change-stream entries to the tracking store.
type Service interface {
	ProcessChange(ctx context.Context, change ChangeEnvelope) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	logg   *logger.Logger
}

// NewService builds a synchronizer service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sync repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc, logg: logg}, nil
}

func (s *service) ProcessChange(ctx context.Context, change ChangeEnvelope) error {
	if change.Comanda.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "comanda id required")
	}
	if strings.TrimSpace(change.Comanda.NumeroOrden) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "numero de orden required")
	}

	switch change.ChangeType {
	case enums.SyncChangeAdded:
		return s.applyAdded(ctx, change)
	case enums.SyncChangeModified:
		return s.applyModified(ctx, change)
	case enums.SyncChangeRemoved:
		return s.applyRemoved(ctx, change)
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown change type")
	}
}

func (s *service) applyAdded(ctx context.Context, change ChangeEnvelope) error {
	comanda, err := buildMirror(change.Comanda)
	if err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.UpsertComanda(ctx, comanda); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert comanda mirror")
		}

		// redelivered "added" entries refresh the mirror but never reopen
		// an existing seguimiento
		if _, err := repo.FindSeguimiento(ctx, comanda.ID); err == nil {
			return nil
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check seguimiento")
		}

		seguimiento := &models.Seguimiento{
			ID:           comanda.ID,
			NumeroOrden:  comanda.NumeroOrden,
			EstadoActual: enums.StatePendiente,
			Activo:       true,
		}
		if err := repo.CreateSeguimiento(ctx, seguimiento); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create seguimiento")
		}

		evento := &models.SeguimientoEvento{
			SeguimientoID:  seguimiento.ID,
			Seq:            1,
			Estado:         enums.StatePendiente,
			OperarioID:     systemOperarioID,
			OperarioNombre: systemOperarioID,
			Comentario:     "Comanda creada",
			OccurredAt:     time.Now(),
		}
		if err := repo.AppendEvento(ctx, evento); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append evento")
		}

		if comanda.TipoEntrega == enums.DeliveryDespacho {
			despacho := &models.Despacho{
				SeguimientoID: seguimiento.ID,
				Estado:        enums.DispatchPendiente,
			}
			if err := repo.CreateDespacho(ctx, despacho); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create despacho")
			}
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSeguimientoCreated,
			AggregateType: enums.AggregateSeguimiento,
			AggregateID:   seguimiento.ID,
			Version:       1,
			Data: SeguimientoCreatedEvent{
				SeguimientoID: seguimiento.ID,
				NumeroOrden:   seguimiento.NumeroOrden,
				Estado:        seguimiento.EstadoActual,
				TipoEntrega:   comanda.TipoEntrega,
			},
		})
	})
}

func (s *service) applyModified(ctx context.Context, change ChangeEnvelope) error {
	comanda, err := buildMirror(change.Comanda)
	if err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.UpsertComanda(ctx, comanda); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert comanda mirror")
		}

		seguimiento, err := repo.FindSeguimiento(ctx, comanda.ID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				// a "modified" entry can arrive before its "added" twin
				s.logg.Warn(ctx, "sync: modified comanda has no seguimiento yet")
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seguimiento")
		}

		// content-only edits still stamp the record as touched
		updates := map[string]any{"updated_at": time.Now()}
		if seguimiento.NumeroOrden != comanda.NumeroOrden {
			updates["numero_orden"] = comanda.NumeroOrden
		}
		if err := repo.UpdateSeguimiento(ctx, seguimiento.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seguimiento")
		}
		return nil
	})
}

func (s *service) applyRemoved(ctx context.Context, change ChangeEnvelope) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		seguimiento, err := repo.FindSeguimiento(ctx, change.Comanda.ID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seguimiento")
		}

		// seguimiento, eventos, asignaciones and despacho go with the comanda
		if err := repo.DeleteComanda(ctx, change.Comanda.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete comanda")
		}

		if seguimiento == nil {
			return nil
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSeguimientoDeleted,
			AggregateType: enums.AggregateSeguimiento,
			AggregateID:   seguimiento.ID,
			Version:       1,
			Data: SeguimientoDeletedEvent{
				SeguimientoID: seguimiento.ID,
				NumeroOrden:   seguimiento.NumeroOrden,
			},
		})
	})
}

func buildMirror(payload ComandaPayload) (*models.Comanda, error) {
	codigo := strings.ToUpper(strings.TrimSpace(payload.CodigoEntrega))
	if codigo == "" {
		// old intake versions shipped comandas without a code
		generated, err := normalize.VerificationCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate codigo de entrega")
		}
		codigo = generated
	}

	recibida := payload.RecibidaAt
	if recibida.IsZero() {
		recibida = time.Now()
	}

	return &models.Comanda{
		ID:               payload.ID,
		NumeroOrden:      strings.TrimSpace(payload.NumeroOrden),
		CodigoEntrega:    codigo,
		NombreCliente:    strings.TrimSpace(payload.NombreCliente),
		TelefonoContacto: normalize.Phone(payload.TelefonoContacto),
		TipoCliente:      normalize.CustomerType(payload.TipoCliente),
		TipoEntrega:      normalize.DeliveryType(payload.TipoEntrega),
		Direccion:        payload.Direccion,
		Express:          payload.Express,
		Items:            payload.Items,
		Subtotal:         payload.Subtotal,
		Total:            payload.Total,
		RecibidaAt:       recibida,
	}, nil
}
