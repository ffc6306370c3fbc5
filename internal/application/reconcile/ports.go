package reconcile

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/koffiyao/freelance-api/internal/domain/entity"
)

// Balance solde du compte mobile money.
type Balance struct {
	Amount   decimal.Decimal
	Currency string
}

// TransactionPage page de transactions rapportées par la passerelle.
type TransactionPage struct {
	Date         time.Time
	Items        []*entity.Transaction
	NextCursor   string
}

// PayoutResult état d'un ordre d'envoi d'argent côté passerelle.
// TransactionID n'est renseigné qu'une fois l'ordre exécuté : c'est par lui
// que la tentative locale se rattache à la transaction du relevé.
type PayoutResult struct {
	GatewayID     string
	TransactionID string
	Status        string
}

// Gateway contrat étroit vers la passerelle mobile money (Wave). Les appels
// sont des opérations réseau bloquantes : aucun verrou du registre local ne
// doit être tenu pendant un appel, et un échec passerelle laisse l'état local
// inchangé. Les erreurs remontent en *domain.GatewayError, code d'origine
// préservé.
type Gateway interface {
	Balance(ctx context.Context) (*Balance, error)
	ListTransactions(ctx context.Context, date time.Time, cursor string) (*TransactionPage, error)

	// FindTransaction renvoie toutes les occurrences portant cet ID : la
	// transaction d'origine et, le cas échéant, sa ligne compensatoire
	// (remboursement ou annulation). Idempotent.
	FindTransaction(ctx context.Context, id string) ([]*entity.Transaction, error)

	SendPayout(ctx context.Context, amount decimal.Decimal, currency, mobile, reason string) (*PayoutResult, error)
	PayoutStatus(ctx context.Context, gatewayID string) (*PayoutResult, error)
	ReversePayout(ctx context.Context, gatewayID string) error
	CancelPayout(ctx context.Context, gatewayID string) error
	RefundTransaction(ctx context.Context, transactionID string) error
}

// originalOf extrait la transaction d'origine (non compensatoire) parmi les
// occurrences d'un même ID, et signale la présence d'une ligne compensatoire.
func originalOf(occurrences []*entity.Transaction) (tx *entity.Transaction, hasCompensating bool) {
	for _, t := range occurrences {
		if t.IsReversal {
			hasCompensating = true
		} else if tx == nil {
			tx = t
		}
	}
	if tx == nil && len(occurrences) > 0 {
		tx = occurrences[0]
	}
	return tx, hasCompensating
}
