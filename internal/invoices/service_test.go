package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/centavo-sv/centavo/internal/shared"
)

type memoryRepo struct {
	nextID  int64
	byID    map[int64]Invoice
	numbers map[string]struct{}
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byID: make(map[int64]Invoice), numbers: make(map[string]struct{})}
}

func (m *memoryRepo) List(ctx context.Context, orgID int64) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range m.byID {
		if inv.OrgID == orgID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memoryRepo) Get(ctx context.Context, orgID, id int64) (Invoice, error) {
	inv, ok := m.byID[id]
	if !ok || inv.OrgID != orgID {
		return Invoice{}, shared.ErrNotFound
	}
	return inv, nil
}

func (m *memoryRepo) InsertWithLines(ctx context.Context, inv Invoice) (Invoice, error) {
	if _, ok := m.numbers[inv.Number]; ok {
		return Invoice{}, ErrDuplicateNumber
	}
	inv.ID = m.nextID
	m.nextID++
	m.byID[inv.ID] = inv
	m.numbers[inv.Number] = struct{}{}
	return inv, nil
}

func (m *memoryRepo) UpdateStatus(ctx context.Context, orgID, id int64, from, to Status) (bool, error) {
	inv, ok := m.byID[id]
	if !ok || inv.OrgID != orgID || inv.Status != from {
		return false, nil
	}
	inv.Status = to
	m.byID[id] = inv
	return true, nil
}

func (m *memoryRepo) Delete(ctx context.Context, orgID, id int64) (bool, error) {
	inv, ok := m.byID[id]
	if !ok || inv.OrgID != orgID {
		return false, nil
	}
	delete(m.byID, id)
	delete(m.numbers, inv.Number)
	return true, nil
}

func (m *memoryRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	var flagged int64
	for id, inv := range m.byID {
		if inv.Status == StatusIssued && inv.DueDate.Before(asOf) {
			inv.Status = StatusOverdue
			m.byID[id] = inv
			flagged++
		}
	}
	return flagged, nil
}

func draftInvoice(number string) Invoice {
	return Invoice{
		OrgID:        7,
		Number:       number,
		CustomerName: "Distribuidora Salinas",
		Lines: []Line{
			{Description: "Cemento 42.5kg", Quantity: 10, UnitPrice: 8.75},
			{Description: "Lámina galvanizada", Quantity: 3, UnitPrice: 12.40},
		},
	}
}

func TestCreateComputesIVATotals(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	created, err := svc.Create(context.Background(), draftInvoice("F-0001"), 1)
	require.NoError(t, err)

	require.Equal(t, StatusDraft, created.Status)
	require.InDelta(t, 87.50, created.Lines[0].LineTotal, 0.001)
	require.InDelta(t, 37.20, created.Lines[1].LineTotal, 0.001)
	require.InDelta(t, 124.70, created.Subtotal, 0.001)
	require.InDelta(t, 16.21, created.IVA, 0.001)
	require.InDelta(t, 140.91, created.Total, 0.001)
	require.False(t, created.IssueDate.IsZero())
	require.Equal(t, created.IssueDate.AddDate(0, 1, 0), created.DueDate)
}

func TestCreateRejectsEmptyLines(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	inv := draftInvoice("F-0001")
	inv.Lines = nil
	_, err := svc.Create(context.Background(), inv, 1)
	require.ErrorIs(t, err, ErrNoLines)
}

func TestCreateRejectsDuplicateNumber(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := svc.Create(context.Background(), draftInvoice("F-0001"), 1)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), draftInvoice("F-0001"), 1)
	require.ErrorIs(t, err, ErrDuplicateNumber)
}

func TestTransitionLifecycle(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	created, err := svc.Create(context.Background(), draftInvoice("F-0001"), 1)
	require.NoError(t, err)

	issued, err := svc.Transition(context.Background(), 7, created.ID, StatusIssued, 1)
	require.NoError(t, err)
	require.Equal(t, StatusIssued, issued.Status)

	paid, err := svc.Transition(context.Background(), 7, created.ID, StatusPaid, 1)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, paid.Status)

	// PAID is terminal.
	_, err = svc.Transition(context.Background(), 7, created.ID, StatusVoid, 1)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionRejectsSkippingIssue(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	created, err := svc.Create(context.Background(), draftInvoice("F-0001"), 1)
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), 7, created.ID, StatusPaid, 1)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeleteOnlyDrafts(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	created, err := svc.Create(context.Background(), draftInvoice("F-0001"), 1)
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), 7, created.ID, StatusIssued, 1)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), 7, created.ID, 1)
	require.ErrorIs(t, err, ErrNotDraft)

	second, err := svc.Create(context.Background(), draftInvoice("F-0002"), 1)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), 7, second.ID, 1))

	_, err = svc.Get(context.Background(), 7, second.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMarkOverdueFlagsIssuedPastDue(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	past := draftInvoice("F-0001")
	past.IssueDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	past.DueDate = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(context.Background(), past, 1)
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), 7, created.ID, StatusIssued, 1)
	require.NoError(t, err)

	current := draftInvoice("F-0002")
	current.DueDate = time.Now().UTC().AddDate(0, 1, 0)
	_, err = svc.Create(context.Background(), current, 1)
	require.NoError(t, err)

	flagged, err := svc.MarkOverdue(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.EqualValues(t, 1, flagged)

	got, err := svc.Get(context.Background(), 7, created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusOverdue, got.Status)
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusIssued, true},
		{StatusDraft, StatusVoid, true},
		{StatusDraft, StatusPaid, false},
		{StatusIssued, StatusPaid, true},
		{StatusIssued, StatusOverdue, true},
		{StatusIssued, StatusDraft, false},
		{StatusOverdue, StatusPaid, true},
		{StatusOverdue, StatusIssued, false},
		{StatusPaid, StatusVoid, false},
		{StatusVoid, StatusDraft, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
