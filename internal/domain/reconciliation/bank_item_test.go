package reconciliation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincontrol/backend/internal/domain/shared"
	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
)

func newTestItem(t *testing.T) *BankStatementItem {
	t.Helper()
	item, err := NewBankStatementItem(
		uuid.New(),
		time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		valueobject.NewMoneyBRLFromFloat(150.75),
		"PIX RECEBIDO",
	)
	require.NoError(t, err)
	return item
}

func TestNewBankStatementItem(t *testing.T) {
	t.Run("creates pending item", func(t *testing.T) {
		item := newTestItem(t)
		assert.Equal(t, BankItemStatusPending, item.Status)
		assert.Nil(t, item.TransactionID)
	})

	t.Run("rejects zero date", func(t *testing.T) {
		_, err := NewBankStatementItem(uuid.New(), time.Time{}, valueobject.NewMoneyBRLFromFloat(10), "x")
		assert.Error(t, err)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := NewBankStatementItem(uuid.New(), time.Now(), valueobject.ZeroBRL(), "x")
		assert.Error(t, err)
	})
}

func TestBankItemMatchTo(t *testing.T) {
	t.Run("links pending item", func(t *testing.T) {
		item := newTestItem(t)
		txID := uuid.New()
		require.NoError(t, item.MatchTo(txID))

		assert.Equal(t, BankItemStatusReconciled, item.Status)
		require.NotNil(t, item.TransactionID)
		assert.Equal(t, txID, *item.TransactionID)
		assert.True(t, item.IsMatchedTo(txID))

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBankItemMatched, events[0].EventType())
	})

	t.Run("same pair re-match is a no-op", func(t *testing.T) {
		item := newTestItem(t)
		txID := uuid.New()
		require.NoError(t, item.MatchTo(txID))
		require.NoError(t, item.MatchTo(txID))

		assert.Equal(t, txID, *item.TransactionID)
		// no second event for the no-op
		assert.Len(t, item.GetDomainEvents(), 1)
	})

	t.Run("different transaction conflicts", func(t *testing.T) {
		item := newTestItem(t)
		require.NoError(t, item.MatchTo(uuid.New()))

		err := item.MatchTo(uuid.New())
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "CONFLICT", de.Code)
	})
}
