package pg

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"forex_bot/internal/models"
	"forex_bot/internal/modules/signals/service"
	"forex_bot/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

type fakeTx struct {
	execs    []execCall
	affected int64
	row      fakeRow
}

func (f *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("UPDATE " + strings.Repeat("1", int(f.affected))), nil
}

func (f *fakeTx) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	panic("not used")
}

func (f *fakeTx) QueryRow(context.Context, string, ...interface{}) pgx.Row { return f.row }

type fakeTxManager struct{ tx *fakeTx }

func (m fakeTxManager) RunMaster(ctx context.Context, fn func(context.Context, db.Transaction) error) error {
	return fn(ctx, m.tx)
}

func (m fakeTxManager) RunRepeatableRead(ctx context.Context, fn func(context.Context, db.Transaction) error) error {
	return fn(ctx, m.tx)
}

func (m fakeTxManager) Conn() db.Transaction { return m.tx }

func TestInsertWritesPendingRow(t *testing.T) {
	tx := &fakeTx{}
	store := NewSignals(fakeTxManager{tx: tx})

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	sig := models.NewSignal(models.Candidate{
		Pair: "EURUSD", Timeframe: models.Timeframe15m, Direction: models.DirectionBuy,
		Entry: 1.1, TP: 1.101, SL: 1.0985,
		Snapshot: models.IndicatorSnapshot{EMAFast: 1.2, EMASlow: 1.1, RSI: 60},
	}, created)

	id, err := store.Insert(context.Background(), sig)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Len(t, tx.execs, 1)

	args := tx.execs[0].args
	assert.Equal(t, id, args[0])
	assert.Equal(t, "BUY", args[3])
	assert.Equal(t, "PENDING", args[7])
	assert.Equal(t, created, args[8])

	var snap models.IndicatorSnapshot
	require.NoError(t, sonic.Unmarshal(args[9].([]byte), &snap))
	assert.Equal(t, 60.0, snap.RSI)
}

func TestUpdateStatusConditional(t *testing.T) {
	res := models.Resolution{Status: models.StatusTPHit, ClosePrice: 1.101, ResolvedAt: time.Now()}

	t.Run("pending row updated", func(t *testing.T) {
		tx := &fakeTx{affected: 1}
		ok, err := NewSignals(fakeTxManager{tx: tx}).UpdateStatus(context.Background(), "a", res)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Contains(t, tx.execs[0].sql, "status = 'PENDING'")
	})

	t.Run("already terminal", func(t *testing.T) {
		tx := &fakeTx{affected: 0, row: fakeRow{values: []any{true}}}
		ok, err := NewSignals(fakeTxManager{tx: tx}).UpdateStatus(context.Background(), "a", res)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing", func(t *testing.T) {
		tx := &fakeTx{affected: 0, row: fakeRow{values: []any{false}}}
		_, err := NewSignals(fakeTxManager{tx: tx}).UpdateStatus(context.Background(), "a", res)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestGet(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	resolved := created.Add(time.Hour)
	closePrice := 1.0985

	tx := &fakeTx{row: fakeRow{values: []any{
		"id-1", "EURUSD", "15m", "BUY", 1.1, 1.101, 1.0985, "SL_HIT",
		created, &resolved, &closePrice, []byte(`{"ema_fast":1.2,"ema_slow":1.1,"rsi":40}`),
	}}}
	sig, err := NewSignals(fakeTxManager{tx: tx}).Get(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSLHit, sig.Status)
	assert.Equal(t, models.DirectionBuy, sig.Direction)
	require.NotNil(t, sig.ClosePrice)
	assert.Equal(t, 1.0985, *sig.ClosePrice)
	assert.Equal(t, 40.0, sig.Snapshot.RSI)

	tx = &fakeTx{row: fakeRow{err: pgx.ErrNoRows}}
	_, err = NewSignals(fakeTxManager{tx: tx}).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
