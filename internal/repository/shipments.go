package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dfelipe-rojas/guias-tracker/internal/common"
	"github.com/dfelipe-rojas/guias-tracker/internal/entity"
)

// ShipmentRepository persists the working shipment set. Payloads are stored
// verbatim; the risk annotation inside them is stale by definition and must
// be recomputed by the caller after every load.
type ShipmentRepository interface {
	SaveBatch(ctx context.Context, shipments []*entity.Shipment) error
	ListAll(ctx context.Context) ([]*entity.Shipment, error)
	Get(ctx context.Context, id string) (*entity.Shipment, error)
	UpdatePhone(ctx context.Context, id, phone string) error
	Delete(ctx context.Context, id string) error
}

type shipmentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewShipmentRepository(db *sql.DB, logger *slog.Logger) ShipmentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &shipmentRepository{db: db, logger: logger}
}

// SaveBatch upserts every shipment by guide: a newer batch's record replaces
// the older one wholesale, no field-level merging.
func (r *shipmentRepository) SaveBatch(ctx context.Context, shipments []*entity.Shipment) error {
	if len(shipments) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return common.WrapError(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO shipments (id, payload, batch_id, batch_date, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload    = excluded.payload,
			batch_id   = excluded.batch_id,
			batch_date = excluded.batch_date,
			updated_at = excluded.updated_at`)
	if err != nil {
		return common.WrapError(err, "prepare upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, s := range shipments {
		payload, err := json.Marshal(s)
		if err != nil {
			return common.WrapError(err, "encode shipment")
		}
		if _, err := stmt.ExecContext(ctx, s.ID, string(payload), s.BatchID.String(),
			s.BatchDate.UTC().Format(time.RFC3339), now); err != nil {
			r.logger.Error("failed to upsert shipment", "id", s.ID, "error", err)
			return common.WrapError(err, "upsert shipment")
		}
	}
	if err := tx.Commit(); err != nil {
		return common.WrapError(err, "commit batch")
	}
	r.logger.Info("batch saved", "count", len(shipments))
	return nil
}

func (r *shipmentRepository) ListAll(ctx context.Context) ([]*entity.Shipment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM shipments ORDER BY batch_date DESC, id`)
	if err != nil {
		r.logger.Error("failed to list shipments", "error", err)
		return nil, common.WrapError(err, "list shipments")
	}
	defer rows.Close()

	var out []*entity.Shipment
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, common.WrapError(err, "scan shipment")
		}
		var s entity.Shipment
		if err := json.Unmarshal([]byte(payload), &s); err != nil {
			return nil, common.WrapError(err, "decode shipment")
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *shipmentRepository) Get(ctx context.Context, id string) (*entity.Shipment, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM shipments WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "get shipment")
	}
	var s entity.Shipment
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return nil, common.WrapError(err, "decode shipment")
	}
	return &s, nil
}

// UpdatePhone rewrites a single shipment's payload with a new phone; every
// other field is preserved as stored.
func (r *shipmentRepository) UpdatePhone(ctx context.Context, id, phone string) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Phone = phone
	payload, err := json.Marshal(s)
	if err != nil {
		return common.WrapError(err, "encode shipment")
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE shipments SET payload = ?, updated_at = ? WHERE id = ?`,
		string(payload), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		r.logger.Error("failed to update phone", "id", id, "error", err)
		return common.WrapError(err, "update phone")
	}
	return nil
}

func (r *shipmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shipments WHERE id = ?`, id)
	if err != nil {
		return common.WrapError(err, "delete shipment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
