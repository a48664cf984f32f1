package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/config"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/logger"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/normalize"
)

// Repository defines the reads needed to build customer messages.
type Repository interface {
	FindComanda(ctx context.Context, id uuid.UUID) (*models.Comanda, error)
	FindDespacho(ctx context.Context, seguimientoID uuid.UUID) (*models.Despacho, error)
}

// PublishResult resolves to the server-assigned message ID.
type PublishResult interface {
	Get(ctx context.Context) (string, error)
}

// MessagePublisher abstracts the outbound notification topic.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) PublishResult
}

type gcpPublisher struct {
	publisher *gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) PublishResult {
	return p.publisher.Publish(ctx, msg)
}

// NewGCPPublisher wraps a Pub/Sub publisher handle for the notification topic.
func NewGCPPublisher(publisher *gcppubsub.Publisher) MessagePublisher {
	return &gcpPublisher{publisher: publisher}
}

// OutboundMessage is the payload published for the messaging gateway.
type OutboundMessage struct {
	Tipo        Kind   `json:"tipo"`
	NumeroOrden string `json:"numero_orden"`
	Telefono    string `json:"telefono"`
	Mensaje     string `json:"mensaje"`
	URL         string `json:"url"`
}

// Service fires customer WhatsApp messages. All methods are fire-and-forget:
// failures are logged and never bubble up to the caller.
type Service struct {
	repo      Repository
	publisher MessagePublisher
	cfg       config.NotifyConfig
	logg      *logger.Logger
}

// NewService builds the notification service.
func NewService(repo Repository, publisher MessagePublisher, cfg config.NotifyConfig, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notify repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("message publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		logg:      logg,
	}, nil
}

// ProcessStarted tells the customer their comanda entered the wash line.
func (s *Service) ProcessStarted(ctx context.Context, seguimientoID uuid.UUID) {
	ctx = s.logg.WithTrackingID(ctx, seguimientoID.String())
	comanda, ok := s.loadComanda(ctx, seguimientoID)
	if !ok {
		return
	}
	mensaje := procesoIniciadoMessage(comanda.NombreCliente, comanda.NumeroOrden)
	s.send(ctx, KindProcesoIniciado, comanda, mensaje)
}

// ReadyForPickup tells the customer their comanda waits at the counter.
func (s *Service) ReadyForPickup(ctx context.Context, seguimientoID uuid.UUID) {
	ctx = s.logg.WithTrackingID(ctx, seguimientoID.String())
	comanda, ok := s.loadComanda(ctx, seguimientoID)
	if !ok {
		return
	}
	deadlineDays := s.cfg.PickupDeadlineDays
	if deadlineDays <= 0 {
		deadlineDays = 7
	}
	fechaLimite := time.Now().AddDate(0, 0, deadlineDays)
	mensaje := listoRetiroMessage(comanda.NombreCliente, comanda.NumeroOrden, fechaLimite)
	s.send(ctx, KindListoRetiro, comanda, mensaje)
}

// DespachoStarted tells the customer the driver departed with their comanda.
func (s *Service) DespachoStarted(ctx context.Context, seguimientoID uuid.UUID) {
	ctx = s.logg.WithTrackingID(ctx, seguimientoID.String())
	comanda, ok := s.loadComanda(ctx, seguimientoID)
	if !ok {
		return
	}

	despacho, err := s.repo.FindDespacho(ctx, seguimientoID)
	if err != nil {
		s.logg.Error(ctx, "notify: load despacho failed", err)
		return
	}

	mensaje := despachoEnRutaMessage(
		comanda.NombreCliente,
		comanda.NumeroOrden,
		strDeref(despacho.RepartidorNombre),
		strDeref(despacho.Vehiculo),
		strDeref(despacho.Patente),
	)
	s.send(ctx, KindDespachoEnRuta, comanda, mensaje)
}

func (s *Service) loadComanda(ctx context.Context, seguimientoID uuid.UUID) (*models.Comanda, bool) {
	comanda, err := s.repo.FindComanda(ctx, seguimientoID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.logg.Error(ctx, "notify: load comanda failed", err)
		}
		return nil, false
	}
	return comanda, true
}

func (s *Service) send(ctx context.Context, tipo Kind, comanda *models.Comanda, mensaje string) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"numero_orden": comanda.NumeroOrden,
		"tipo":         string(tipo),
	})

	telefono := normalize.Phone(comanda.TelefonoContacto)
	if strings.TrimSpace(telefono) == "" {
		s.logg.Warn(ctx, "notify: comanda has no contact phone")
		return
	}

	payload := OutboundMessage{
		Tipo:        tipo,
		NumeroOrden: comanda.NumeroOrden,
		Telefono:    telefono,
		Mensaje:     mensaje,
		URL:         WhatsAppURL(telefono, mensaje),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.logg.Error(ctx, "notify: marshal message failed", err)
		return
	}

	result := s.publisher.Publish(ctx, &gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"tipo":         string(tipo),
			"numero_orden": comanda.NumeroOrden,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		s.logg.Error(ctx, "notify: publish failed", err)
		return
	}

	s.logg.Info(ctx, "notify: message queued")
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
