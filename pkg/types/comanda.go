package types

import "github.com/shopspring/decimal"

// ComandaItem is one garment line inside the comanda, stored as JSONB.
type ComandaItem struct {
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Total          decimal.Decimal `json:"total"`
}

// ComandaItems is the JSONB list stored on the comandas row.
type ComandaItems []ComandaItem

// Worker identifies one crew member assigned to a processing stage.
type Worker struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// Workers is the JSONB crew list stored on the asignaciones_estado row.
type Workers []Worker
