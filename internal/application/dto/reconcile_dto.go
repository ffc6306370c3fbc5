package dto

import "github.com/shopspring/decimal"

// ── Rapprochement / affectation ───────────────────────────────────────────────

// CandidateResponse candidat interne lors d'un rapprochement ambigu.
type CandidateResponse struct {
	Kind string `json:"kind"` // client | provider
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MatchResponse candidats renvoyés par le rapprochement d'un numéro mobile.
// Le rapprochement expose les ensembles complets sans décider.
type MatchResponse struct {
	Clients   []CandidateResponse `json:"clients"`
	Providers []CandidateResponse `json:"providers"`
}

// AssignRequest requête d'affectation d'une transaction.
// Les liens explicites (client, prestataire, projet, facture) court-circuitent
// la détection de conflit.
type AssignRequest struct {
	Type        string `json:"type"` // revenue | expense
	Description string `json:"description"`
	Notes       string `json:"notes,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
	ProviderID  string `json:"provider_id,omitempty"`
	InvoiceID   string `json:"invoice_id,omitempty"`
}

// ResolveConflictRequest tranche un conflit avec un candidat de l'ensemble proposé.
type ResolveConflictRequest struct {
	Kind string `json:"kind"` // client | provider
	ID   string `json:"id"`
}

// AssignmentResponse affectation avec son état dérivé.
type AssignmentResponse struct {
	ID            string              `json:"id"`
	TransactionID string              `json:"transaction_id"`
	State         string              `json:"state"`
	Type          string              `json:"type"`
	Description   string              `json:"description"`
	Notes         string              `json:"notes,omitempty"`
	ProjectID     string              `json:"project_id,omitempty"`
	ClientID      string              `json:"client_id,omitempty"`
	ProviderID    string              `json:"provider_id,omitempty"`
	InvoiceID     string              `json:"invoice_id,omitempty"`
	Candidates    []CandidateResponse `json:"candidates,omitempty"`
}

// AssignResponse résultat d'une affectation : l'affectation créée et les
// avertissements non bloquants (ex. écart de montant avec la facture liée).
type AssignResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	Warnings   []Warning          `json:"warnings,omitempty"`
}

// ── Transactions et actions dérivées ─────────────────────────────────────────

// TransactionActions actions disponibles sur une transaction, recalculées à
// chaque lecture (leurs entrées — âge, statut passerelle — varient avec le temps).
type TransactionActions struct {
	CanAssign        bool `json:"can_assign"`
	CanUnassign      bool `json:"can_unassign"`
	CanRefund        bool `json:"can_refund"`
	CanReverse       bool `json:"can_reverse"`
	CanCancelPending bool `json:"can_cancel_pending"`
}

// TransactionResponse transaction passerelle enrichie de son affectation
// locale et des actions dérivées.
type TransactionResponse struct {
	ID                 string              `json:"id"`
	Amount             decimal.Decimal     `json:"amount"`
	Fee                decimal.Decimal     `json:"fee"`
	Currency           string              `json:"currency"`
	Timestamp          string              `json:"timestamp"`
	CounterpartyMobile string              `json:"counterparty_mobile"`
	CounterpartyName   string              `json:"counterparty_name,omitempty"`
	IsReversal         bool                `json:"is_reversal"`
	DerivedStatus      string              `json:"derived_status,omitempty"` // ex. Remboursement
	Assignment         *AssignmentResponse `json:"assignment,omitempty"`
	Actions            TransactionActions  `json:"actions"`
}

// TransactionListResponse page de transactions fusionnée avec le registre local.
type TransactionListResponse struct {
	Date         string                `json:"date"`
	NextCursor   string                `json:"next_cursor,omitempty"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ── Trésorerie ────────────────────────────────────────────────────────────────

// BalanceResponse solde du compte mobile money.
type BalanceResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// SendPayoutRequest ordre d'envoi d'argent.
type SendPayoutRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Mobile string          `json:"mobile"`
	Reason string          `json:"reason"`
}

// PayoutResponse tentative de paiement sortant.
type PayoutResponse struct {
	ID            string          `json:"id"`
	GatewayID     string          `json:"gateway_id"`
	Amount        decimal.Decimal `json:"amount"`
	Mobile        string          `json:"mobile"`
	Reason        string          `json:"reason,omitempty"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	CreatedAt     string          `json:"created_at"`
}
