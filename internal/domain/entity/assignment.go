package entity

import (
	"time"

	"github.com/koffiyao/freelance-api/internal/domain"
)

// Types d'affectation comptable d'une transaction.
const (
	AssignmentTypeRevenue = "revenue"
	AssignmentTypeExpense = "expense"
)

// États du cycle de vie d'une affectation.
const (
	AssignmentStateUnassigned = "UNASSIGNED"
	AssignmentStateAssigned   = "ASSIGNED"
	AssignmentStateConflict   = "CONFLICT"
	AssignmentStateResolved   = "RESOLVED"
)

// Genres de candidat lors d'un rapprochement ambigu.
const (
	CandidateKindClient   = "client"
	CandidateKindProvider = "provider"
)

// Candidate identifie une entité interne candidate au rapprochement d'une
// transaction dont le numéro mobile est partagé.
type Candidate struct {
	Kind string `json:"kind"` // client | provider
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assignment relie une transaction mobile money à la comptabilité interne.
// Une affectation en conflit porte l'ensemble des candidats et aucun lien
// concret ; une affectation résolue porte exactement un lien concret et un
// ensemble de candidats vide — les deux à la fois sont un état illégal,
// rejeté par Validate.
type Assignment struct {
	ID            string
	TransactionID string
	Type          string // revenue | expense
	Description   string
	Notes         string
	ProjectID     string
	ClientID      string
	ProviderID    string
	InvoiceID     string
	Candidates    []Candidate
	Resolved      bool // true quand un conflit a été tranché manuellement
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasConcreteLink indique si l'affectation référence une entité interne précise.
func (a *Assignment) HasConcreteLink() bool {
	return a.ClientID != "" || a.ProviderID != "" || a.ProjectID != "" || a.InvoiceID != ""
}

// State dérive l'état du cycle de vie depuis les champs — jamais stocké.
func (a *Assignment) State() string {
	switch {
	case len(a.Candidates) > 0 && !a.HasConcreteLink():
		return AssignmentStateConflict
	case a.Resolved:
		return AssignmentStateResolved
	default:
		return AssignmentStateAssigned
	}
}

// OffersCandidate vérifie qu'un candidat fait partie de l'ensemble proposé
// lors de la mise en conflit (re-validation défensive à la résolution).
func (a *Assignment) OffersCandidate(kind, id string) bool {
	for _, c := range a.Candidates {
		if c.Kind == kind && c.ID == id {
			return true
		}
	}
	return false
}

// Validate rejette les états irreprésentables : lien concret et ensemble de
// candidats non vide en même temps, ou type d'affectation inconnu.
func (a *Assignment) Validate() error {
	if a.Type != AssignmentTypeRevenue && a.Type != AssignmentTypeExpense {
		return domain.ErrInvalidInput
	}
	if len(a.Candidates) > 0 && a.HasConcreteLink() {
		return domain.ErrAmbiguousAssignment
	}
	return nil
}
