package seguimientos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/pagination"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/types"
)

func setupSeguimientosTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	comandas := `
CREATE TABLE IF NOT EXISTS comandas (
  id TEXT PRIMARY KEY,
  numero_orden TEXT NOT NULL,
  codigo_entrega TEXT NOT NULL,
  nombre_cliente TEXT NOT NULL,
  telefono_contacto TEXT NOT NULL,
  tipo_cliente TEXT NOT NULL DEFAULT 'particular',
  tipo_entrega TEXT NOT NULL,
  direccion TEXT,
  express INTEGER NOT NULL DEFAULT 0,
  items TEXT,
  subtotal NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL DEFAULT 0,
  recibida_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	seguimientos := `
CREATE TABLE IF NOT EXISTS seguimientos (
  id TEXT PRIMARY KEY,
  numero_orden TEXT NOT NULL,
  estado_actual TEXT NOT NULL DEFAULT 'pendiente',
  turno_actual TEXT,
  activo INTEGER NOT NULL DEFAULT 1,
  desmanche_activo INTEGER NOT NULL DEFAULT 0,
  desmanche_veces INTEGER NOT NULL DEFAULT 0,
  desmanche_ultima_fecha DATETIME,
  desmanche_operario_id TEXT,
  desmanche_operario_nombre TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	eventos := `
CREATE TABLE IF NOT EXISTS seguimiento_eventos (
  id TEXT PRIMARY KEY,
  seguimiento_id TEXT NOT NULL,
  seq INTEGER NOT NULL,
  estado TEXT NOT NULL,
  operario_id TEXT NOT NULL,
  operario_nombre TEXT NOT NULL,
  turno TEXT,
  comentario TEXT NOT NULL,
  occurred_at DATETIME NOT NULL
);`
	asignaciones := `
CREATE TABLE IF NOT EXISTS asignaciones_estado (
  id TEXT PRIMARY KEY,
  seguimiento_id TEXT NOT NULL,
  estado TEXT NOT NULL,
  turno TEXT NOT NULL,
  operarios TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (seguimiento_id, estado)
);`
	incidencias := `
CREATE TABLE IF NOT EXISTS incidencias (
  id TEXT PRIMARY KEY,
  seguimiento_id TEXT NOT NULL,
  estado_al_reporte TEXT NOT NULL,
  categoria TEXT NOT NULL,
  descripcion TEXT NOT NULL,
  operario_id TEXT NOT NULL,
  operario_nombre TEXT NOT NULL,
  resuelta INTEGER NOT NULL DEFAULT 0,
  reportada_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	despachos := `
CREATE TABLE IF NOT EXISTS despachos (
  seguimiento_id TEXT PRIMARY KEY,
  estado TEXT NOT NULL DEFAULT 'pendiente',
  repartidor_id TEXT,
  repartidor_nombre TEXT,
  vehiculo TEXT,
  patente TEXT,
  hora_salida DATETIME,
  hora_entrega DATETIME,
  codigo_verificado INTEGER NOT NULL DEFAULT 0,
  persona_que_recibe TEXT,
  incidencia_categoria TEXT,
  incidencia_descripcion TEXT,
  incidencia_reportada_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, stmt := range []string{comandas, seguimientos, eventos, asignaciones, incidencias, despachos} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newSeguimiento(t *testing.T, db *gorm.DB, estado enums.ComandaState) *models.Seguimiento {
	t.Helper()

	seg := &models.Seguimiento{
		ID:           uuid.New(),
		NumeroOrden:  "A-" + uuid.NewString()[:8],
		EstadoActual: estado,
		Activo:       true,
	}
	require.NoError(t, db.Create(seg).Error)
	return seg
}

func newEvento(seguimientoID uuid.UUID, seq int64, estado enums.ComandaState) *models.SeguimientoEvento {
	return &models.SeguimientoEvento{
		ID:             uuid.New(),
		SeguimientoID:  seguimientoID,
		Seq:            seq,
		Estado:         estado,
		OperarioID:     "op-1",
		OperarioNombre: "Maria",
		Comentario:     "test",
		OccurredAt:     time.Now(),
	}
}

func TestRepositoryNextSeq(t *testing.T) {
	db := setupSeguimientosTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seg := newSeguimiento(t, db, enums.StatePendiente)

	seq, err := repo.NextSeq(ctx, seg.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	require.NoError(t, repo.AppendEvento(ctx, newEvento(seg.ID, 1, enums.StatePendiente)))
	require.NoError(t, repo.AppendEvento(ctx, newEvento(seg.ID, 2, enums.StateLavando)))

	seq, err = repo.NextSeq(ctx, seg.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), seq)
}

func TestRepositoryEventosOrdering(t *testing.T) {
	db := setupSeguimientosTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seg := newSeguimiento(t, db, enums.StateSecando)
	require.NoError(t, repo.AppendEvento(ctx, newEvento(seg.ID, 1, enums.StatePendiente)))
	require.NoError(t, repo.AppendEvento(ctx, newEvento(seg.ID, 2, enums.StateLavando)))
	require.NoError(t, repo.AppendEvento(ctx, newEvento(seg.ID, 3, enums.StateSecando)))

	last, err := repo.LastEventos(ctx, seg.ID, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, enums.StateSecando, last[0].Estado)
	assert.Equal(t, enums.StateLavando, last[1].Estado)

	all, err := repo.ListEventos(ctx, seg.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, enums.StatePendiente, all[0].Estado)
	assert.Equal(t, enums.StateSecando, all[2].Estado)
}

func TestRepositoryUpsertAsignacionReplacesCrew(t *testing.T) {
	db := setupSeguimientosTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seg := newSeguimiento(t, db, enums.StateLavando)

	first := &models.AsignacionEstado{
		ID:            uuid.New(),
		SeguimientoID: seg.ID,
		Estado:        enums.StateLavando,
		Turno:         enums.ShiftA,
		Operarios:     types.Workers{{ID: "op-1", Nombre: "Maria"}},
	}
	require.NoError(t, repo.UpsertAsignacion(ctx, first))

	second := &models.AsignacionEstado{
		ID:            uuid.New(),
		SeguimientoID: seg.ID,
		Estado:        enums.StateLavando,
		Turno:         enums.ShiftB,
		Operarios:     types.Workers{{ID: "op-2", Nombre: "Pedro"}},
	}
	require.NoError(t, repo.UpsertAsignacion(ctx, second))

	rows, err := repo.ListAsignaciones(ctx, seg.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.ShiftB, rows[0].Turno)
	require.Len(t, rows[0].Operarios, 1)
	assert.Equal(t, "op-2", rows[0].Operarios[0].ID)
}

func TestRepositoryFindByNumeroOrden(t *testing.T) {
	db := setupSeguimientosTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seg := newSeguimiento(t, db, enums.StatePlanchando)

	found, err := repo.FindSeguimientoByNumeroOrden(ctx, seg.NumeroOrden)
	require.NoError(t, err)
	assert.Equal(t, seg.ID, found.ID)

	_, err = repo.FindSeguimientoByNumeroOrden(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListActivos(t *testing.T) {
	db := setupSeguimientosTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	// the shared in-memory db leaks rows between tests
	require.NoError(t, db.Exec("DELETE FROM seguimientos").Error)

	active := newSeguimiento(t, db, enums.StateLavando)
	newSeguimiento(t, db, enums.StateSecando)

	delivered := newSeguimiento(t, db, enums.StateEntregado)
	require.NoError(t, db.Model(&models.Seguimiento{}).
		Where("id = ?", delivered.ID).
		Update("activo", false).Error)

	list, err := repo.ListActivos(ctx, pagination.Params{Limit: 10}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	for _, item := range list.Items {
		assert.True(t, item.Activo)
	}
	assert.Nil(t, list.NextCursor)

	filtered, err := repo.ListActivos(ctx, pagination.Params{Limit: 10}, ListFilters{
		Estados: []enums.ComandaState{enums.StateLavando},
	})
	require.NoError(t, err)
	require.Len(t, filtered.Items, 1)
	assert.Equal(t, active.ID, filtered.Items[0].ID)
}
