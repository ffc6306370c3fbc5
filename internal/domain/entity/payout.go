package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'une tentative de paiement sortant.
const (
	PayoutStatusProcessing = "processing"
	PayoutStatusSucceeded  = "succeeded"
	PayoutStatusFailed     = "failed"
	PayoutStatusReversed   = "reversed"
	PayoutStatusCancelled  = "cancelled"
)

// Payout enregistre un ordre d'envoi d'argent passé à la passerelle.
// TransactionID est renseigné une fois la transaction correspondante connue
// côté passerelle.
type Payout struct {
	ID            string
	GatewayID     string // ID de la tentative côté Wave
	Amount        decimal.Decimal
	Mobile        string
	Reason        string
	Status        string
	TransactionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsTerminal indique si le statut ne peut plus évoluer.
func (p *Payout) IsTerminal() bool {
	switch p.Status {
	case PayoutStatusSucceeded, PayoutStatusFailed, PayoutStatusReversed, PayoutStatusCancelled:
		return true
	}
	return false
}
