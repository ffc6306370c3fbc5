package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koffiyao/freelance-api/internal/application/dto"
	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
)

type lifecycleFixture struct {
	gateway *fakeGateway
	payouts *fakePayoutStore
	uc      *LifecycleUseCase
	now     time.Time
}

func newLifecycleFixture() *lifecycleFixture {
	f := &lifecycleFixture{
		gateway: newFakeGateway(),
		payouts: newFakePayoutStore(),
		now:     time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	f.uc = NewLifecycleUseCase(f.gateway, f.payouts, testLogger(), testLifecycleConfig())
	f.uc.now = func() time.Time { return f.now }
	return f
}

func TestReverse_WindowCheckedBeforeGatewayCall(t *testing.T) {
	f := newLifecycleFixture()
	// Paiement sortant vieux de 4 jours : hors fenêtre de 72 h
	f.gateway.occurrences["tx-old"] = []*entity.Transaction{
		outboundTx("tx-old", 8000, "0700000000", 96*time.Hour, f.now),
	}

	_, err := f.uc.Reverse(context.Background(), "tx-old")
	assert.ErrorIs(t, err, domain.ErrReversalWindowExpired)
	// Rejet local : la passerelle n'a jamais été sollicitée
	assert.Empty(t, f.gateway.reverseCalls)
}

func TestReverse_WithinWindow(t *testing.T) {
	f := newLifecycleFixture()
	f.gateway.occurrences["tx-1"] = []*entity.Transaction{
		outboundTx("tx-1", 8000, "0700000000", 24*time.Hour, f.now),
	}
	f.payouts.byID["pay-1"] = &entity.Payout{
		ID: "pay-1", GatewayID: "wav-123", TransactionID: "tx-1",
		Status: entity.PayoutStatusSucceeded, Amount: decimal.NewFromInt(8000),
	}

	resp, err := f.uc.Reverse(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.Equal(t, "Annulé", resp.DerivedStatus)

	// La commande passerelle vise l'ordre, pas la transaction
	require.Len(t, f.gateway.reverseCalls, 1)
	assert.Equal(t, "wav-123", f.gateway.reverseCalls[0])

	// La tentative locale reflète l'annulation
	p, _ := f.payouts.GetByID("pay-1")
	assert.Equal(t, entity.PayoutStatusReversed, p.Status)
}

func TestReverse_Preconditions(t *testing.T) {
	f := newLifecycleFixture()
	inTx := inboundTx("tx-in", 5000, "0700000000", time.Hour, f.now)
	f.gateway.occurrences["tx-in"] = []*entity.Transaction{inTx}

	outTx := outboundTx("tx-done", 8000, "0700000000", time.Hour, f.now)
	f.gateway.occurrences["tx-done"] = []*entity.Transaction{outTx, compensatingOf(outTx)}

	// Un encaissement ne s'annule pas (il se rembourse)
	_, err := f.uc.Reverse(context.Background(), "tx-in")
	assert.ErrorIs(t, err, domain.ErrNotReversible)

	// Déjà compensé : idempotence, pas de double annulation
	_, err = f.uc.Reverse(context.Background(), "tx-done")
	assert.ErrorIs(t, err, domain.ErrAlreadyRefunded)
	assert.Empty(t, f.gateway.reverseCalls)

	_, err = f.uc.Reverse(context.Background(), "tx-absente")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestReverse_StoreFailureFallsBackToTransactionID(t *testing.T) {
	f := newLifecycleFixture()
	f.gateway.occurrences["tx-1"] = []*entity.Transaction{
		outboundTx("tx-1", 8000, "0700000000", 24*time.Hour, f.now),
	}
	// Registre local en panne : l'annulation passe quand même, par l'ID de
	// transaction
	f.payouts.getByTxErr = errors.New("connexion perdue")

	resp, err := f.uc.Reverse(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.Equal(t, "Annulé", resp.DerivedStatus)
	assert.Equal(t, []string{"tx-1"}, f.gateway.reverseCalls)
}

func TestRefund(t *testing.T) {
	f := newLifecycleFixture()
	inTx := inboundTx("tx-in", 5000, "0700000000", 200*time.Hour, f.now)
	f.gateway.occurrences["tx-in"] = []*entity.Transaction{inTx}

	// Pas de fenêtre locale pour un remboursement, même à 200 h
	resp, err := f.uc.Refund(context.Background(), "tx-in")
	require.NoError(t, err)
	assert.Equal(t, "Remboursement", resp.DerivedStatus)
	assert.Equal(t, []string{"tx-in"}, f.gateway.refundCalls)

	// Un décaissement ne se rembourse pas
	f.gateway.occurrences["tx-out"] = []*entity.Transaction{
		outboundTx("tx-out", 8000, "0700000000", time.Hour, f.now),
	}
	_, err = f.uc.Refund(context.Background(), "tx-out")
	assert.ErrorIs(t, err, domain.ErrNotRefundable)

	// Déjà remboursé
	f.gateway.occurrences["tx-in"] = append(f.gateway.occurrences["tx-in"], compensatingOf(inTx))
	_, err = f.uc.Refund(context.Background(), "tx-in")
	assert.ErrorIs(t, err, domain.ErrAlreadyRefunded)
}

func TestCancelPending_GatewayStatusAuthoritative(t *testing.T) {
	f := newLifecycleFixture()
	f.payouts.byID["pay-1"] = &entity.Payout{
		ID: "pay-1", GatewayID: "wav-1", Status: entity.PayoutStatusProcessing,
		CreatedAt: f.now.Add(-5 * time.Minute),
	}
	f.gateway.payoutStatus["wav-1"] = &PayoutResult{GatewayID: "wav-1", Status: entity.PayoutStatusProcessing}

	resp, err := f.uc.CancelPending(context.Background(), "pay-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PayoutStatusCancelled, resp.Status)
	assert.Equal(t, []string{"wav-1"}, f.gateway.cancelCalls)
}

func TestCancelPending_AlreadySettledPerGateway(t *testing.T) {
	f := newLifecycleFixture()
	// Le cache local croit l'ordre encore en vol ; la passerelle dit réglé
	f.payouts.byID["pay-1"] = &entity.Payout{
		ID: "pay-1", GatewayID: "wav-1", Status: entity.PayoutStatusProcessing,
		CreatedAt: f.now.Add(-5 * time.Minute),
	}
	f.gateway.payoutStatus["wav-1"] = &PayoutResult{
		GatewayID: "wav-1", TransactionID: "tx-77", Status: entity.PayoutStatusSucceeded,
	}

	_, err := f.uc.CancelPending(context.Background(), "pay-1")
	assert.ErrorIs(t, err, domain.ErrPayoutNotCancellable)
	assert.Empty(t, f.gateway.cancelCalls)

	// Le statut passerelle fait foi : le cache local est rattrapé, transaction
	// de relevé comprise
	p, _ := f.payouts.GetByID("pay-1")
	assert.Equal(t, entity.PayoutStatusSucceeded, p.Status)
	assert.Equal(t, "tx-77", p.TransactionID)
}

func TestCancelPending_HeuristicWhenStatusUnavailable(t *testing.T) {
	f := newLifecycleFixture()
	f.gateway.statusErr = domain.NewGatewayError("service_unavailable", "indisponible")

	// Tentative jeune : l'heuristique la considère encore en vol
	f.payouts.byID["pay-young"] = &entity.Payout{
		ID: "pay-young", GatewayID: "wav-y", Status: entity.PayoutStatusProcessing,
		CreatedAt: f.now.Add(-5 * time.Minute),
	}
	resp, err := f.uc.CancelPending(context.Background(), "pay-young")
	require.NoError(t, err)
	assert.Equal(t, entity.PayoutStatusCancelled, resp.Status)

	// Tentative de 45 min : au-delà de la fenêtre de 30 min, refus
	f.payouts.byID["pay-old"] = &entity.Payout{
		ID: "pay-old", GatewayID: "wav-o", Status: entity.PayoutStatusProcessing,
		CreatedAt: f.now.Add(-45 * time.Minute),
	}
	_, err = f.uc.CancelPending(context.Background(), "pay-old")
	assert.ErrorIs(t, err, domain.ErrPayoutNotCancellable)

	_, err = f.uc.CancelPending(context.Background(), "pay-absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSendPayout(t *testing.T) {
	f := newLifecycleFixture()
	f.gateway.sendResult = &PayoutResult{GatewayID: "wav-42", Status: entity.PayoutStatusProcessing}

	resp, err := f.uc.SendPayout(context.Background(), dto.SendPayoutRequest{
		Amount: decimal.NewFromInt(12000), Mobile: "0700000000", Reason: "Hébergement mars",
	})
	require.NoError(t, err)
	assert.Equal(t, "wav-42", resp.GatewayID)
	assert.Equal(t, entity.PayoutStatusProcessing, resp.Status)

	// La tentative est enregistrée localement
	p, _ := f.payouts.GetByGatewayID("wav-42")
	require.NotNil(t, p)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(12000)))

	// Quand la passerelle renvoie déjà la transaction, le rattachement est
	// enregistré dès la création
	f.gateway.sendResult = &PayoutResult{
		GatewayID: "wav-43", TransactionID: "tx-43", Status: entity.PayoutStatusSucceeded,
	}
	_, err = f.uc.SendPayout(context.Background(), dto.SendPayoutRequest{
		Amount: decimal.NewFromInt(5000), Mobile: "0711111111",
	})
	require.NoError(t, err)
	linked, _ := f.payouts.GetByTransactionID("tx-43")
	require.NotNil(t, linked)
	assert.Equal(t, "wav-43", linked.GatewayID)

	_, err = f.uc.SendPayout(context.Background(), dto.SendPayoutRequest{Mobile: "0700000000"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.SendPayout(context.Background(), dto.SendPayoutRequest{Amount: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
