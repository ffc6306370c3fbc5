package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction représente une transaction mobile money rapportée par la
// passerelle Wave. Fait immuable possédé par la passerelle : jamais modifié
// localement, toujours re-lu par ID de façon idempotente.
// Montant signé : positif = entrant, négatif = sortant.
type Transaction struct {
	ID                 string
	Amount             decimal.Decimal
	Fee                decimal.Decimal
	Currency           string
	Timestamp          time.Time
	CounterpartyMobile string
	CounterpartyName   string
	IsReversal         bool // true si cette ligne est elle-même une annulation/remboursement
}

// IsInbound indique un encaissement (montant strictement positif).
func (t *Transaction) IsInbound() bool { return t.Amount.GreaterThan(decimal.Zero) }

// IsOutbound indique un décaissement (montant strictement négatif).
func (t *Transaction) IsOutbound() bool { return t.Amount.LessThan(decimal.Zero) }

// Age renvoie l'ancienneté de la transaction par rapport à now.
func (t *Transaction) Age(now time.Time) time.Duration { return now.Sub(t.Timestamp) }
