package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/centavo-sv/centavo/internal/shared"
)

type levelKey struct {
	orgID int64
	sku   string
}

type memoryRepo struct {
	levels    map[levelKey]StockLevel
	movements []Movement
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{levels: make(map[levelKey]StockLevel), nextID: 1}
}

func (m *memoryRepo) ListLevels(ctx context.Context, orgID int64) ([]StockLevel, error) {
	var out []StockLevel
	for key, level := range m.levels {
		if key.orgID == orgID {
			out = append(out, level)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListMovements(ctx context.Context, orgID int64, sku string) ([]Movement, error) {
	var out []Movement
	for _, mv := range m.movements {
		if mv.OrgID == orgID && mv.SKU == sku {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *memoryRepo) GetLevelForUpdate(ctx context.Context, orgID int64, sku string) (StockLevel, error) {
	level, ok := m.levels[levelKey{orgID, sku}]
	if !ok {
		return StockLevel{}, ErrLevelNotFound
	}
	return level, nil
}

func (m *memoryRepo) UpsertLevel(ctx context.Context, level StockLevel) error {
	m.levels[levelKey{level.OrgID, level.SKU}] = level
	return nil
}

func (m *memoryRepo) InsertMovement(ctx context.Context, mv Movement) (int64, error) {
	id := m.nextID
	m.nextID++
	mv.ID = id
	m.movements = append(m.movements, mv)
	return id, nil
}

type recorderStub struct {
	logs []shared.AuditLog
}

func (r *recorderStub) Record(ctx context.Context, log shared.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func post(t *testing.T, svc *Service, typ MovementType, qty float64) (Movement, error) {
	t.Helper()
	return svc.PostMovement(context.Background(), MovementInput{
		OrgID:    7,
		SKU:      "CEM-425",
		Type:     typ,
		Quantity: qty,
		ActorID:  1,
	})
}

func TestPostMovementInCreatesLevel(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	posted, err := post(t, svc, MovementIn, 50)
	require.NoError(t, err)
	require.Equal(t, 50.0, posted.Delta)
	require.Equal(t, 50.0, posted.Balance)

	levels, err := svc.ListLevels(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	require.Equal(t, 50.0, levels[0].Quantity)
}

func TestPostMovementOutDecrements(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := post(t, svc, MovementIn, 50)
	require.NoError(t, err)

	posted, err := post(t, svc, MovementOut, 20)
	require.NoError(t, err)
	require.Equal(t, -20.0, posted.Delta)
	require.Equal(t, 30.0, posted.Balance)
}

func TestPostMovementOutGuardsNegativeStock(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := post(t, svc, MovementIn, 10)
	require.NoError(t, err)

	_, err = post(t, svc, MovementOut, 11)
	require.ErrorIs(t, err, ErrNegativeStock)

	// The failed movement must not change the level.
	levels, err := svc.ListLevels(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 10.0, levels[0].Quantity)
}

func TestPostMovementOutUnknownSKU(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := post(t, svc, MovementOut, 1)
	require.ErrorIs(t, err, ErrNegativeStock)
}

func TestPostAdjustmentSetsAbsoluteTarget(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := post(t, svc, MovementIn, 50)
	require.NoError(t, err)

	// Physical count found 42 units: the stored delta is the difference.
	posted, err := post(t, svc, MovementAdjustment, 42)
	require.NoError(t, err)
	require.Equal(t, -8.0, posted.Delta)
	require.Equal(t, 42.0, posted.Balance)

	// Adjusting upwards derives a positive delta.
	posted, err = post(t, svc, MovementAdjustment, 60)
	require.NoError(t, err)
	require.Equal(t, 18.0, posted.Delta)
	require.Equal(t, 60.0, posted.Balance)
}

func TestPostAdjustmentToZero(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := post(t, svc, MovementIn, 5)
	require.NoError(t, err)

	posted, err := post(t, svc, MovementAdjustment, 0)
	require.NoError(t, err)
	require.Equal(t, -5.0, posted.Delta)
	require.Equal(t, 0.0, posted.Balance)
}

func TestPostMovementValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := post(t, svc, MovementIn, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = post(t, svc, MovementOut, -3)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = post(t, svc, MovementAdjustment, -1)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = post(t, svc, MovementType("TRANSFER"), 1)
	require.Error(t, err)

	_, err = svc.PostMovement(context.Background(), MovementInput{OrgID: 7, SKU: "  ", Type: MovementIn, Quantity: 1})
	require.Error(t, err)
}

func TestPostMovementRecordsAudit(t *testing.T) {
	recorder := &recorderStub{}
	svc := NewService(newMemoryRepo(), recorder, nil)

	_, err := post(t, svc, MovementIn, 50)
	require.NoError(t, err)
	_, err = post(t, svc, MovementAdjustment, 45)
	require.NoError(t, err)

	require.Len(t, recorder.logs, 2)
	require.Equal(t, "inventory.in", recorder.logs[0].Action)
	require.Equal(t, "inventory.adjustment", recorder.logs[1].Action)
	require.Equal(t, "CEM-425", recorder.logs[1].EntityID)
}

func TestMovementLogKeepsRunningBalance(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	steps := []struct {
		typ MovementType
		qty float64
	}{
		{MovementIn, 100},
		{MovementOut, 30},
		{MovementAdjustment, 65},
		{MovementIn, 10},
	}
	wantBalances := []float64{100, 70, 65, 75}

	for i, step := range steps {
		posted, err := post(t, svc, step.typ, step.qty)
		require.NoError(t, err)
		require.Equal(t, wantBalances[i], posted.Balance, "step %d", i)
	}

	movements, err := svc.ListMovements(context.Background(), 7, "CEM-425")
	require.NoError(t, err)
	require.Len(t, movements, 4)
}
