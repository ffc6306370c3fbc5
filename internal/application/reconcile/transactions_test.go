package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
)

func TestTransactionsList_MergesLocalState(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	gateway := newFakeGateway()
	assignments := newFakeAssignmentStore()
	payouts := newFakePayoutStore()

	reversed := outboundTx("tx-rev", 8000, "0700000000", 3*time.Hour, now)
	plain := inboundTx("tx-in", 5000, "0511223344", time.Hour, now)
	gateway.page = &TransactionPage{
		Date:       now,
		Items:      []*entity.Transaction{reversed, compensatingOf(reversed), plain},
		NextCursor: "curseur-suivant",
	}
	require.NoError(t, assignments.Upsert(&entity.Assignment{
		ID: "a-1", TransactionID: "tx-in", Type: entity.AssignmentTypeRevenue, Description: "Acompte",
	}))

	uc := NewTransactionsUseCase(gateway, assignments, payouts, testLogger(), testLifecycleConfig())
	uc.now = func() time.Time { return now }

	resp, err := uc.List(context.Background(), "2026-03-10", "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", resp.Date)
	assert.Equal(t, "curseur-suivant", resp.NextCursor)
	require.Len(t, resp.Transactions, 3)

	byPos := resp.Transactions

	// L'originale compensée porte le statut dérivé et perd ses actions
	assert.Equal(t, "tx-rev", byPos[0].ID)
	assert.Equal(t, "Annulé", byPos[0].DerivedStatus)
	assert.False(t, byPos[0].Actions.CanReverse)

	// La ligne compensatoire elle-même reste neutre
	assert.True(t, byPos[1].IsReversal)
	assert.Empty(t, byPos[1].DerivedStatus)
	assert.False(t, byPos[1].Actions.CanAssign)

	// La transaction entrante est fusionnée avec son affectation locale
	assert.Equal(t, "tx-in", byPos[2].ID)
	require.NotNil(t, byPos[2].Assignment)
	assert.Equal(t, "a-1", byPos[2].Assignment.ID)
	assert.True(t, byPos[2].Actions.CanRefund)
	assert.True(t, byPos[2].Actions.CanUnassign)
}

func TestTransactionsList_LinksPendingPayout(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	gateway := newFakeGateway()
	payouts := newFakePayoutStore()

	// Tentative encore en vol, pas encore rattachée à sa transaction de relevé
	payouts.byID["pay-9"] = &entity.Payout{
		ID: "pay-9", GatewayID: "wav-9", Status: entity.PayoutStatusProcessing,
		CreatedAt: now.Add(-5 * time.Minute),
	}
	gateway.payoutStatus["wav-9"] = &PayoutResult{
		GatewayID: "wav-9", TransactionID: "tx-out", Status: entity.PayoutStatusProcessing,
	}
	gateway.page = &TransactionPage{
		Date:  now,
		Items: []*entity.Transaction{outboundTx("tx-out", 12000, "0700000000", 5*time.Minute, now)},
	}

	uc := NewTransactionsUseCase(gateway, newFakeAssignmentStore(), payouts, testLogger(), testLifecycleConfig())
	uc.now = func() time.Time { return now }

	resp, err := uc.List(context.Background(), "2026-03-10", "")
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)

	// Le rattachement appris de la passerelle rend l'abandon proposable
	assert.True(t, resp.Transactions[0].Actions.CanCancelPending)
	assert.False(t, resp.Transactions[0].Actions.CanReverse)

	p, _ := payouts.GetByID("pay-9")
	assert.Equal(t, "tx-out", p.TransactionID)
}

func TestTransactionsList_RejectsBadDate(t *testing.T) {
	uc := NewTransactionsUseCase(newFakeGateway(), newFakeAssignmentStore(), newFakePayoutStore(), testLogger(), testLifecycleConfig())

	_, err := uc.List(context.Background(), "10/03/2026", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
