package despachos

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

type stubDespachosRepo struct {
	seguimiento        *models.Seguimiento
	comanda            *models.Comanda
	despacho           *models.Despacho
	eventos            []models.SeguimientoEvento
	seguimientoUpdates map[string]any
	despachoUpdates    map[string]any
}

func (s *stubDespachosRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubDespachosRepo) FindSeguimiento(ctx context.Context, id uuid.UUID) (*models.Seguimiento, error) {
	if s.seguimiento == nil || s.seguimiento.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.seguimiento
	return &copied, nil
}

func (s *stubDespachosRepo) FindComanda(ctx context.Context, id uuid.UUID) (*models.Comanda, error) {
	if s.comanda == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.comanda, nil
}

func (s *stubDespachosRepo) FindDespacho(ctx context.Context, seguimientoID uuid.UUID) (*models.Despacho, error) {
	if s.despacho == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.despacho
	return &copied, nil
}

func (s *stubDespachosRepo) UpdateSeguimiento(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.seguimientoUpdates = updates
	return nil
}

func (s *stubDespachosRepo) UpdateDespacho(ctx context.Context, seguimientoID uuid.UUID, updates map[string]any) error {
	s.despachoUpdates = updates
	return nil
}

func (s *stubDespachosRepo) NextSeq(ctx context.Context, seguimientoID uuid.UUID) (int64, error) {
	return int64(len(s.eventos)) + 1, nil
}

func (s *stubDespachosRepo) AppendEvento(ctx context.Context, evento *models.SeguimientoEvento) error {
	s.eventos = append(s.eventos, *evento)
	return nil
}

func (s *stubDespachosRepo) ListEnRuta(ctx context.Context) ([]models.Despacho, error) {
	if s.despacho != nil && s.despacho.Estado == enums.DispatchEnCamino {
		return []models.Despacho{*s.despacho}, nil
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

type stubNotifier struct {
	started []uuid.UUID
}

func (s *stubNotifier) DespachoStarted(ctx context.Context, seguimientoID uuid.UUID) {
	s.started = append(s.started, seguimientoID)
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(repo Repository, emitter outboxPublisher, notifier Notifier) Service {
	svc, err := NewService(repo, stubTxRunner{}, emitter, notifier, nil)
	if err != nil {
		panic(err)
	}
	return svc
}

func testActor() ActorInput {
	return ActorInput{ID: "rep-1", Nombre: "Jorge", Role: "repartidor"}
}

func TestStartDespacho(t *testing.T) {
	segID := uuid.New()
	repo := &stubDespachosRepo{
		seguimiento: &models.Seguimiento{
			ID:           segID,
			NumeroOrden:  "A-200",
			EstadoActual: enums.StateListoDespacho,
			Activo:       true,
		},
		despacho: &models.Despacho{SeguimientoID: segID, Estado: enums.DispatchPendiente},
	}
	emitter := &stubOutboxPublisher{}
	notifier := &stubNotifier{}
	svc := newTestService(repo, emitter, notifier)

	updated, err := svc.Start(context.Background(), StartInput{
		SeguimientoID:    segID,
		Actor:            testActor(),
		RepartidorID:     "rep-1",
		RepartidorNombre: "Jorge",
		Vehiculo:         "furgon",
		Patente:          "ABCD12",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Estado != enums.DispatchEnCamino {
		t.Fatalf("expected en_camino got %s", updated.Estado)
	}
	if updated.HoraSalida == nil {
		t.Fatal("expected hora_salida stamped")
	}
	if repo.seguimientoUpdates["estado_actual"] != enums.StateEnDespacho {
		t.Fatalf("expected seguimiento moved to en_despacho, got %+v", repo.seguimientoUpdates)
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventDespachoStarted {
		t.Fatalf("expected despacho started event, got %+v", emitter.events)
	}
	if len(notifier.started) != 1 || notifier.started[0] != segID {
		t.Fatal("expected en-ruta notification")
	}
}

func TestStartDespachoRequiresListoDespacho(t *testing.T) {
	segID := uuid.New()
	repo := &stubDespachosRepo{
		seguimiento: &models.Seguimiento{
			ID:           segID,
			EstadoActual: enums.StateEmpaquetado,
		},
		despacho: &models.Despacho{SeguimientoID: segID, Estado: enums.DispatchPendiente},
	}
	svc := newTestService(repo, &stubOutboxPublisher{}, &stubNotifier{})

	_, err := svc.Start(context.Background(), StartInput{
		SeguimientoID:    segID,
		Actor:            testActor(),
		RepartidorID:     "rep-1",
		RepartidorNombre: "Jorge",
		Vehiculo:         "furgon",
		Patente:          "ABCD12",
	})
	if err != ErrInvalidState {
		t.Fatalf("expected ErrInvalidState got %v", err)
	}
	if repo.despachoUpdates != nil {
		t.Fatal("despacho must stay untouched")
	}
}

func TestConfirmarEntrega(t *testing.T) {
	segID := uuid.New()
	repo := &stubDespachosRepo{
		seguimiento: &models.Seguimiento{
			ID:           segID,
			NumeroOrden:  "A-201",
			EstadoActual: enums.StateEnDespacho,
			Activo:       true,
		},
		comanda:  &models.Comanda{ID: segID, CodigoEntrega: "K7M2P"},
		despacho: &models.Despacho{SeguimientoID: segID, Estado: enums.DispatchEnCamino},
	}
	emitter := &stubOutboxPublisher{}
	svc := newTestService(repo, emitter, &stubNotifier{})

	// the code is accepted regardless of case
	updated, err := svc.ConfirmarEntrega(context.Background(), ConfirmInput{
		SeguimientoID:    segID,
		Actor:            testActor(),
		Codigo:           " k7m2p ",
		PersonaQueRecibe: "Ana Rojas",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Estado != enums.DispatchEntregado || !updated.CodigoVerificado {
		t.Fatalf("expected verified entregado leg, got %+v", updated)
	}
	if repo.seguimientoUpdates["estado_actual"] != enums.StateEntregado {
		t.Fatalf("expected terminal estado, got %+v", repo.seguimientoUpdates)
	}
	if repo.seguimientoUpdates["activo"] != false {
		t.Fatal("delivered comanda must leave the active panels")
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventEntregaConfirmed {
		t.Fatalf("expected entrega confirmed event, got %+v", emitter.events)
	}
}

func TestConfirmarEntregaCodigoMismatch(t *testing.T) {
	segID := uuid.New()
	repo := &stubDespachosRepo{
		seguimiento: &models.Seguimiento{
			ID:           segID,
			EstadoActual: enums.StateEnDespacho,
		},
		comanda:  &models.Comanda{ID: segID, CodigoEntrega: "K7M2P"},
		despacho: &models.Despacho{SeguimientoID: segID, Estado: enums.DispatchEnCamino},
	}
	emitter := &stubOutboxPublisher{}
	svc := newTestService(repo, emitter, &stubNotifier{})

	_, err := svc.ConfirmarEntrega(context.Background(), ConfirmInput{
		SeguimientoID:    segID,
		Actor:            testActor(),
		Codigo:           "WRONG",
		PersonaQueRecibe: "Ana Rojas",
	})
	if err != ErrCodigoMismatch {
		t.Fatalf("expected ErrCodigoMismatch got %v", err)
	}
	if repo.seguimientoUpdates != nil || repo.despachoUpdates != nil || len(repo.eventos) != 0 {
		t.Fatal("a mismatch must not mutate anything")
	}
	if len(emitter.events) != 0 {
		t.Fatal("unexpected outbox event")
	}
}

func TestConfirmarEntregaRequiresEnDespacho(t *testing.T) {
	segID := uuid.New()
	repo := &stubDespachosRepo{
		seguimiento: &models.Seguimiento{
			ID:           segID,
			EstadoActual: enums.StateListoDespacho,
		},
	}
	svc := newTestService(repo, &stubOutboxPublisher{}, &stubNotifier{})

	_, err := svc.ConfirmarEntrega(context.Background(), ConfirmInput{
		SeguimientoID:    segID,
		Actor:            testActor(),
		Codigo:           "K7M2P",
		PersonaQueRecibe: "Ana Rojas",
	})
	if err != ErrInvalidState {
		t.Fatalf("expected ErrInvalidState got %v", err)
	}
}

func TestReportarIncidenciaKeepsEstado(t *testing.T) {
	segID := uuid.New()
	repo := &stubDespachosRepo{
		seguimiento: &models.Seguimiento{
			ID:           segID,
			NumeroOrden:  "A-202",
			EstadoActual: enums.StateEnDespacho,
		},
		despacho: &models.Despacho{SeguimientoID: segID, Estado: enums.DispatchEnCamino},
	}
	emitter := &stubOutboxPublisher{}
	svc := newTestService(repo, emitter, &stubNotifier{})

	updated, err := svc.ReportarIncidencia(context.Background(), IncidentInput{
		SeguimientoID: segID,
		Actor:         testActor(),
		Categoria:     enums.DispatchIncidentClienteAusente,
		Descripcion:   "nadie en el domicilio",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Estado != enums.DispatchFallido {
		t.Fatalf("expected fallido leg got %s", updated.Estado)
	}
	if repo.seguimientoUpdates != nil {
		t.Fatal("the main estado must stay put")
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventDespachoIncidentReported {
		t.Fatalf("expected incident event, got %+v", emitter.events)
	}
}

func TestReportarIncidenciaInvalidCategoria(t *testing.T) {
	svc := newTestService(&stubDespachosRepo{}, &stubOutboxPublisher{}, &stubNotifier{})
	_, err := svc.ReportarIncidencia(context.Background(), IncidentInput{
		SeguimientoID: uuid.New(),
		Actor:         testActor(),
		Categoria:     enums.DispatchIncidentCategory("bogus"),
		Descripcion:   "x",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
