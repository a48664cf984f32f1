package sync

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	pkgerrors "github.com/elcobre-lavanderia/tracking-backend/pkg/errors"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/logger"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/outbox"
)

type stubSyncRepo struct {
	seguimiento        *models.Seguimiento
	upserted           *models.Comanda
	deleted            []uuid.UUID
	createdSeguimiento *models.Seguimiento
	createdDespacho    *models.Despacho
	eventos            []models.SeguimientoEvento
	updates            map[string]any
}

func (s *stubSyncRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubSyncRepo) UpsertComanda(ctx context.Context, comanda *models.Comanda) error {
	s.upserted = comanda
	return nil
}

func (s *stubSyncRepo) DeleteComanda(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubSyncRepo) FindSeguimiento(ctx context.Context, id uuid.UUID) (*models.Seguimiento, error) {
	if s.seguimiento == nil || s.seguimiento.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.seguimiento, nil
}

func (s *stubSyncRepo) CreateSeguimiento(ctx context.Context, seguimiento *models.Seguimiento) error {
	s.createdSeguimiento = seguimiento
	return nil
}

func (s *stubSyncRepo) UpdateSeguimiento(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubSyncRepo) AppendEvento(ctx context.Context, evento *models.SeguimientoEvento) error {
	s.eventos = append(s.eventos, *evento)
	return nil
}

func (s *stubSyncRepo) CreateDespacho(ctx context.Context, despacho *models.Despacho) error {
	s.createdDespacho = despacho
	return nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository, emitter outboxPublisher) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, stubTxRunner{}, emitter, logg)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func addedChange(id uuid.UUID, tipoEntrega string) ChangeEnvelope {
	return ChangeEnvelope{
		EventID:    uuid.New(),
		ChangeType: enums.SyncChangeAdded,
		Comanda: ComandaPayload{
			ID:               id,
			NumeroOrden:      "A-300",
			CodigoEntrega:    "k7m2p",
			NombreCliente:    "Carla Soto",
			TelefonoContacto: "9 1234 5678",
			TipoCliente:      "hotel",
			TipoEntrega:      tipoEntrega,
		},
	}
}

func TestProcessChangeAdded(t *testing.T) {
	id := uuid.New()
	repo := &stubSyncRepo{}
	emitter := &stubOutboxPublisher{}
	svc := newTestService(t, repo, emitter)

	if err := svc.ProcessChange(context.Background(), addedChange(id, "retiro")); err != nil {
		t.Fatalf("expected success got %v", err)
	}

	if repo.upserted == nil || repo.upserted.ID != id {
		t.Fatal("expected comanda mirror upsert")
	}
	if repo.upserted.CodigoEntrega != "K7M2P" {
		t.Fatalf("expected uppercased codigo got %q", repo.upserted.CodigoEntrega)
	}
	if repo.upserted.TelefonoContacto != "+56912345678" {
		t.Fatalf("expected normalized phone got %q", repo.upserted.TelefonoContacto)
	}
	if repo.upserted.TipoCliente != enums.CustomerHotel {
		t.Fatalf("expected hotel got %s", repo.upserted.TipoCliente)
	}
	if repo.upserted.RecibidaAt.IsZero() {
		t.Fatal("expected recibida_at defaulted")
	}

	if repo.createdSeguimiento == nil || repo.createdSeguimiento.EstadoActual != enums.StatePendiente {
		t.Fatalf("expected pendiente seguimiento, got %+v", repo.createdSeguimiento)
	}
	if !repo.createdSeguimiento.Activo {
		t.Fatal("new seguimiento must be active")
	}
	if len(repo.eventos) != 1 || repo.eventos[0].Seq != 1 || repo.eventos[0].OperarioID != systemOperarioID {
		t.Fatalf("expected system seed evento, got %+v", repo.eventos)
	}
	if repo.createdDespacho != nil {
		t.Fatal("retiro comandas must not get a despacho row")
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventSeguimientoCreated {
		t.Fatalf("expected created event, got %+v", emitter.events)
	}
}

func TestProcessChangeAddedDespacho(t *testing.T) {
	id := uuid.New()
	repo := &stubSyncRepo{}
	svc := newTestService(t, repo, &stubOutboxPublisher{})

	if err := svc.ProcessChange(context.Background(), addedChange(id, "despacho")); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.createdDespacho == nil || repo.createdDespacho.Estado != enums.DispatchPendiente {
		t.Fatalf("expected pendiente despacho row, got %+v", repo.createdDespacho)
	}
}

func TestProcessChangeAddedRedelivered(t *testing.T) {
	id := uuid.New()
	repo := &stubSyncRepo{
		seguimiento: &models.Seguimiento{
			ID:           id,
			NumeroOrden:  "A-300",
			EstadoActual: enums.StateSecando,
			Activo:       true,
		},
	}
	emitter := &stubOutboxPublisher{}
	svc := newTestService(t, repo, emitter)

	if err := svc.ProcessChange(context.Background(), addedChange(id, "retiro")); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.upserted == nil {
		t.Fatal("redelivery must still refresh the mirror")
	}
	if repo.createdSeguimiento != nil || len(repo.eventos) != 0 || len(emitter.events) != 0 {
		t.Fatal("redelivery must not reopen the seguimiento")
	}
}

func TestProcessChangeAddedBlankCodigoGenerated(t *testing.T) {
	id := uuid.New()
	repo := &stubSyncRepo{}
	svc := newTestService(t, repo, &stubOutboxPublisher{})

	change := addedChange(id, "retiro")
	change.Comanda.CodigoEntrega = ""
	if err := svc.ProcessChange(context.Background(), change); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(repo.upserted.CodigoEntrega) != 5 {
		t.Fatalf("expected generated codigo, got %q", repo.upserted.CodigoEntrega)
	}
}

func TestProcessChangeModified(t *testing.T) {
	id := uuid.New()
	repo := &stubSyncRepo{
		seguimiento: &models.Seguimiento{
			ID:          id,
			NumeroOrden: "A-OLD",
		},
	}
	svc := newTestService(t, repo, &stubOutboxPublisher{})

	change := addedChange(id, "retiro")
	change.ChangeType = enums.SyncChangeModified
	if err := svc.ProcessChange(context.Background(), change); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.updates["numero_orden"] != "A-300" {
		t.Fatalf("expected numero_orden synced, got %+v", repo.updates)
	}
}

func TestProcessChangeModifiedContentOnlyTouchesTimestamp(t *testing.T) {
	id := uuid.New()
	repo := &stubSyncRepo{
		seguimiento: &models.Seguimiento{
			ID:          id,
			NumeroOrden: "A-300",
		},
	}
	svc := newTestService(t, repo, &stubOutboxPublisher{})

	change := addedChange(id, "retiro")
	change.ChangeType = enums.SyncChangeModified
	if err := svc.ProcessChange(context.Background(), change); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.updates == nil {
		t.Fatal("a modified entry must stamp the seguimiento")
	}
	if _, ok := repo.updates["updated_at"]; !ok {
		t.Fatalf("expected updated_at refreshed, got %+v", repo.updates)
	}
	if _, ok := repo.updates["numero_orden"]; ok {
		t.Fatal("unchanged numero_orden must not be rewritten")
	}
}

func TestProcessChangeModifiedBeforeAdded(t *testing.T) {
	id := uuid.New()
	repo := &stubSyncRepo{}
	svc := newTestService(t, repo, &stubOutboxPublisher{})

	change := addedChange(id, "retiro")
	change.ChangeType = enums.SyncChangeModified
	if err := svc.ProcessChange(context.Background(), change); err != nil {
		t.Fatalf("out-of-order modified must be a warn-level no-op, got %v", err)
	}
	if repo.upserted == nil {
		t.Fatal("the mirror refresh still applies")
	}
	if repo.updates != nil {
		t.Fatal("no seguimiento to update yet")
	}
}

func TestProcessChangeRemoved(t *testing.T) {
	id := uuid.New()
	repo := &stubSyncRepo{
		seguimiento: &models.Seguimiento{ID: id, NumeroOrden: "A-300"},
	}
	emitter := &stubOutboxPublisher{}
	svc := newTestService(t, repo, emitter)

	change := addedChange(id, "retiro")
	change.ChangeType = enums.SyncChangeRemoved
	if err := svc.ProcessChange(context.Background(), change); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != id {
		t.Fatal("expected comanda deletion")
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventSeguimientoDeleted {
		t.Fatalf("expected deleted event, got %+v", emitter.events)
	}
}

func TestProcessChangeRemovedUnknown(t *testing.T) {
	repo := &stubSyncRepo{}
	emitter := &stubOutboxPublisher{}
	svc := newTestService(t, repo, emitter)

	change := addedChange(uuid.New(), "retiro")
	change.ChangeType = enums.SyncChangeRemoved
	if err := svc.ProcessChange(context.Background(), change); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(emitter.events) != 0 {
		t.Fatal("nothing tracked, nothing to announce")
	}
}

func TestProcessChangeValidation(t *testing.T) {
	svc := newTestService(t, &stubSyncRepo{}, &stubOutboxPublisher{})

	err := svc.ProcessChange(context.Background(), ChangeEnvelope{ChangeType: enums.SyncChangeAdded})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	change := addedChange(uuid.New(), "retiro")
	change.ChangeType = enums.SyncChangeType("bogus")
	err = svc.ProcessChange(context.Background(), change)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
