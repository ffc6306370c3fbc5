package reconcile

import (
	"time"

	"github.com/koffiyao/freelance-api/internal/application/dto"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
)

// computeActions dérive les actions disponibles sur une transaction. Jamais
// stocké : les entrées (âge, statut passerelle, lignes compensatoires)
// varient avec le temps, la vue est recalculée à chaque lecture.
// Invariant : annuler-un-réglé (reverse) et abandonner-un-en-vol
// (cancel-pending) ne sont jamais proposés ensemble.
func computeActions(
	tx *entity.Transaction,
	hasCompensating bool,
	assignment *entity.Assignment,
	payout *entity.Payout,
	now time.Time,
	cfg LifecycleConfig,
) dto.TransactionActions {
	actions := dto.TransactionActions{
		CanAssign:   !tx.IsReversal,
		CanUnassign: assignment != nil,
	}
	if tx.IsReversal || hasCompensating {
		return actions
	}

	if tx.IsInbound() {
		actions.CanRefund = true
		return actions
	}

	// Sortant : d'abord l'éventuel abandon d'un paiement encore en vol
	pending := payout != nil && payout.Status == entity.PayoutStatusProcessing &&
		now.Sub(payout.CreatedAt) < cfg.PendingWindow
	if pending {
		actions.CanCancelPending = true
		return actions
	}
	actions.CanReverse = tx.Age(now) <= cfg.ReversalWindow
	return actions
}
