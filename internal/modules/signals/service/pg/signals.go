package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"forex_bot/internal/models"
	"forex_bot/internal/modules/signals/service"
	"forex_bot/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const schema = `
CREATE TABLE IF NOT EXISTS signals (
	id          TEXT PRIMARY KEY,
	pair        TEXT NOT NULL,
	timeframe   TEXT NOT NULL,
	signal_type TEXT NOT NULL,
	entry       DOUBLE PRECISION NOT NULL,
	tp          DOUBLE PRECISION NOT NULL,
	sl          DOUBLE PRECISION NOT NULL,
	status      TEXT NOT NULL DEFAULT 'PENDING',
	created_at  TIMESTAMPTZ NOT NULL,
	result_time TIMESTAMPTZ,
	close_price DOUBLE PRECISION,
	indicator   JSONB NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS signals_pending_created_idx
	ON signals (created_at DESC) WHERE status = 'PENDING';
`

const selectColumns = `id, pair, timeframe, signal_type, entry, tp, sl, status,
	created_at, result_time, close_price, indicator`

const (
	insertSQL = `INSERT INTO signals (id, pair, timeframe, signal_type, entry, tp, sl, status, created_at, indicator)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	getSQL = `SELECT ` + selectColumns + ` FROM signals WHERE id = $1`

	resolveSQL = `UPDATE signals SET status = $2, close_price = $3, result_time = $4
WHERE id = $1 AND status = 'PENDING'`

	existsSQL = `SELECT EXISTS (SELECT 1 FROM signals WHERE id = $1)`

	pendingSQL = `SELECT ` + selectColumns + ` FROM signals
WHERE status = 'PENDING' ORDER BY created_at DESC LIMIT $1`
)

// Signals is the postgres signal store.
type Signals struct {
	db db.TxManager
}

var _ service.Store = (*Signals)(nil)

func NewSignals(tm db.TxManager) *Signals {
	return &Signals{db: tm}
}

// EnsureSchema creates the signals table when it does not exist.
func (s *Signals) EnsureSchema(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.EnsureSchema: %w", err)
		}
	}()
	_, err = s.db.Conn().Exec(ctx, schema)
	return err
}

func (s *Signals) Insert(ctx context.Context, sig models.Signal) (id string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Insert: %w", err)
		}
	}()

	snapshot, err := sonic.Marshal(sig.Snapshot)
	if err != nil {
		return "", err
	}
	id = uuid.NewString()

	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctxTx, insertSQL,
			id, sig.Pair, string(sig.Timeframe), string(sig.Direction),
			sig.Entry, sig.TP, sig.SL, string(models.StatusPending), sig.CreatedAt.UTC(), snapshot)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Signals) Get(ctx context.Context, id string) (sig models.Signal, err error) {
	defer func() {
		if err != nil && !errors.Is(err, service.ErrNotFound) {
			err = fmt.Errorf("pg.Get: %w", err)
		}
	}()

	sig, err = scanSignal(s.db.Conn().QueryRow(ctx, getSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Signal{}, service.ErrNotFound
	}
	return sig, err
}

// UpdateStatus applies r only while the row is still PENDING.
func (s *Signals) UpdateStatus(ctx context.Context, id string, r models.Resolution) (updated bool, err error) {
	defer func() {
		if err != nil && !errors.Is(err, service.ErrNotFound) {
			err = fmt.Errorf("pg.UpdateStatus: %w", err)
		}
	}()

	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		tag, err := tx.Exec(ctxTx, resolveSQL, id, string(r.Status), r.ClosePrice, r.ResolvedAt.UTC())
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			updated = true
			return nil
		}
		var exists bool
		if err := tx.QueryRow(ctxTx, existsSQL, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return service.ErrNotFound
		}
		return nil
	})
	return updated, err
}

func (s *Signals) QueryPending(ctx context.Context, limit int) (out []models.Signal, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.QueryPending: %w", err)
		}
	}()

	rows, err := s.db.Conn().Query(ctx, pendingSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

func scanSignal(row pgx.Row) (models.Signal, error) {
	var (
		sig        models.Signal
		timeframe  string
		direction  string
		status     string
		resultTime *time.Time
		closePrice *float64
		snapshot   []byte
	)
	err := row.Scan(&sig.ID, &sig.Pair, &timeframe, &direction,
		&sig.Entry, &sig.TP, &sig.SL, &status,
		&sig.CreatedAt, &resultTime, &closePrice, &snapshot)
	if err != nil {
		return models.Signal{}, err
	}

	sig.Timeframe = models.Timeframe(timeframe)
	sig.Direction = models.Direction(direction)
	sig.Status = models.Status(status)
	sig.ResolvedAt = resultTime
	sig.ClosePrice = closePrice
	if len(snapshot) > 0 {
		if err := sonic.Unmarshal(snapshot, &sig.Snapshot); err != nil {
			return models.Signal{}, fmt.Errorf("decode indicator snapshot: %w", err)
		}
	}
	return sig, nil
}
