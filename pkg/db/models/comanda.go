package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/types"
)

// Comanda mirrors the order record owned by the intake system. The tracking
// core reads it and never writes it; the synchronizer keeps the mirror fresh.
type Comanda struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	NumeroOrden      string             `gorm:"column:numero_orden;not null;uniqueIndex"`
	CodigoEntrega    string             `gorm:"column:codigo_entrega;not null"`
	NombreCliente    string             `gorm:"column:nombre_cliente;not null"`
	TelefonoContacto string             `gorm:"column:telefono_contacto;not null"`
	TipoCliente      enums.CustomerType `gorm:"column:tipo_cliente;type:text;not null;default:'particular'"`
	TipoEntrega      enums.DeliveryType `gorm:"column:tipo_entrega;type:text;not null"`
	Direccion        *string            `gorm:"column:direccion"`
	Express          bool               `gorm:"column:express;not null;default:false"`
	Items            types.ComandaItems `gorm:"column:items;type:jsonb;serializer:json"`
	Subtotal         decimal.Decimal    `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Total            decimal.Decimal    `gorm:"column:total;type:numeric(12,2);not null"`
	RecibidaAt       time.Time          `gorm:"column:recibida_at;not null"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Comanda) TableName() string { return "comandas" }
