package incidencias

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	pkgerrors "github.com/elcobre-lavanderia/tracking-backend/pkg/errors"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/outbox"
)

type stubIncidenciasRepo struct {
	seguimiento *models.Seguimiento
	incidencia  *models.Incidencia
	resueltas   []uuid.UUID
}

func (s *stubIncidenciasRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubIncidenciasRepo) FindSeguimiento(ctx context.Context, id uuid.UUID) (*models.Seguimiento, error) {
	if s.seguimiento == nil || s.seguimiento.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.seguimiento, nil
}

func (s *stubIncidenciasRepo) Create(ctx context.Context, incidencia *models.Incidencia) (*models.Incidencia, error) {
	if incidencia.ID == uuid.Nil {
		incidencia.ID = uuid.New()
	}
	s.incidencia = incidencia
	return incidencia, nil
}

func (s *stubIncidenciasRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Incidencia, error) {
	if s.incidencia == nil || s.incidencia.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.incidencia, nil
}

func (s *stubIncidenciasRepo) MarkResuelta(ctx context.Context, id uuid.UUID) error {
	s.resueltas = append(s.resueltas, id)
	return nil
}

func (s *stubIncidenciasRepo) ListBySeguimiento(ctx context.Context, seguimientoID uuid.UUID) ([]models.Incidencia, error) {
	if s.incidencia != nil && s.incidencia.SeguimientoID == seguimientoID {
		return []models.Incidencia{*s.incidencia}, nil
	}
	return nil, nil
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

func testActor() ActorInput {
	return ActorInput{ID: "op-1", Nombre: "Maria", Role: "operario"}
}

func TestReportarStampsEstado(t *testing.T) {
	segID := uuid.New()
	repo := &stubIncidenciasRepo{
		seguimiento: &models.Seguimiento{
			ID:           segID,
			EstadoActual: enums.StatePlanchando,
		},
	}
	emitter := &stubOutboxPublisher{}
	svc, err := NewService(repo, stubTxRunner{}, emitter)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	created, err := svc.Reportar(context.Background(), ReportInput{
		SeguimientoID: segID,
		Actor:         testActor(),
		Categoria:     enums.IncidentPrendaDanada,
		Descripcion:   "boton suelto en camisa",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if created.EstadoAlReporte != enums.StatePlanchando {
		t.Fatalf("expected estado_al_reporte planchando got %s", created.EstadoAlReporte)
	}
	if created.Resuelta {
		t.Fatal("new incidencia must start unresolved")
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventIncidenciaReported {
		t.Fatalf("expected reported event, got %+v", emitter.events)
	}
}

func TestReportarUnknownSeguimiento(t *testing.T) {
	svc, _ := NewService(&stubIncidenciasRepo{}, stubTxRunner{}, &stubOutboxPublisher{})
	_, err := svc.Reportar(context.Background(), ReportInput{
		SeguimientoID: uuid.New(),
		Actor:         testActor(),
		Categoria:     enums.IncidentOtro,
		Descripcion:   "x",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestResolver(t *testing.T) {
	segID := uuid.New()
	incID := uuid.New()
	repo := &stubIncidenciasRepo{
		seguimiento: &models.Seguimiento{ID: segID, EstadoActual: enums.StateSecando},
		incidencia: &models.Incidencia{
			ID:            incID,
			SeguimientoID: segID,
			Categoria:     enums.IncidentManchaPersistente,
		},
	}
	emitter := &stubOutboxPublisher{}
	svc, _ := NewService(repo, stubTxRunner{}, emitter)

	if err := svc.Resolver(context.Background(), segID, incID, testActor()); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(repo.resueltas) != 1 || repo.resueltas[0] != incID {
		t.Fatal("expected incidencia marked resuelta")
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventIncidenciaResolved {
		t.Fatalf("expected resolved event, got %+v", emitter.events)
	}
}

func TestResolverUnknownIncidenciaIsNoop(t *testing.T) {
	segID := uuid.New()
	repo := &stubIncidenciasRepo{
		seguimiento: &models.Seguimiento{ID: segID, EstadoActual: enums.StateSecando},
	}
	emitter := &stubOutboxPublisher{}
	svc, _ := NewService(repo, stubTxRunner{}, emitter)

	if err := svc.Resolver(context.Background(), segID, uuid.New(), testActor()); err != nil {
		t.Fatalf("expected no-op got %v", err)
	}
	if len(repo.resueltas) != 0 || len(emitter.events) != 0 {
		t.Fatal("unknown incidencia must not mutate or emit")
	}
}

func TestResolverWrongSeguimientoIsNoop(t *testing.T) {
	segID := uuid.New()
	incID := uuid.New()
	repo := &stubIncidenciasRepo{
		seguimiento: &models.Seguimiento{ID: segID, EstadoActual: enums.StateSecando},
		incidencia: &models.Incidencia{
			ID:            incID,
			SeguimientoID: uuid.New(),
			Categoria:     enums.IncidentOtro,
		},
	}
	svc, _ := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{})

	if err := svc.Resolver(context.Background(), segID, incID, testActor()); err != nil {
		t.Fatalf("expected no-op got %v", err)
	}
	if len(repo.resueltas) != 0 {
		t.Fatal("incidencia of another seguimiento must stay untouched")
	}
}

func TestResolverAlreadyResueltaIsNoop(t *testing.T) {
	segID := uuid.New()
	incID := uuid.New()
	repo := &stubIncidenciasRepo{
		seguimiento: &models.Seguimiento{ID: segID, EstadoActual: enums.StateSecando},
		incidencia: &models.Incidencia{
			ID:            incID,
			SeguimientoID: segID,
			Categoria:     enums.IncidentOtro,
			Resuelta:      true,
		},
	}
	emitter := &stubOutboxPublisher{}
	svc, _ := NewService(repo, stubTxRunner{}, emitter)

	if err := svc.Resolver(context.Background(), segID, incID, testActor()); err != nil {
		t.Fatalf("expected no-op got %v", err)
	}
	if len(repo.resueltas) != 0 || len(emitter.events) != 0 {
		t.Fatal("resolving twice must not mutate or emit")
	}
}
