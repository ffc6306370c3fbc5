package domain

import (
	"errors"
	"fmt"
)

// Erreurs de domaine (sans dépendances externes).
var (
	ErrNotFound     = errors.New("ressource introuvable")
	ErrInvalidInput = errors.New("entrée invalide")
	ErrDuplicate    = errors.New("ressource dupliquée")

	// Conversion proforma → facture
	ErrEmptySelection   = errors.New("aucune ligne sélectionnée")
	ErrInvalidSelection = errors.New("sélection invalide : ligne inconnue, quantité nulle ou supérieure au restant")
	ErrQuoteConverted   = errors.New("proforma déjà entièrement converti")
	ErrConcurrentWrite  = errors.New("écriture concurrente détectée sur le proforma")

	// Rapprochement et affectation
	ErrAmbiguousAssignment  = errors.New("affectation ambiguë : lien concret et candidats à la fois")
	ErrNotInConflict        = errors.New("l'affectation n'est pas en conflit")
	ErrCandidateNotOffered  = errors.New("le candidat ne fait pas partie de l'ensemble proposé")
	ErrTransactionNotFound  = errors.New("transaction introuvable auprès de la passerelle")
	ErrInvalidAssignmentTx  = errors.New("transaction non affectable")

	// Cycle de vie des paiements
	ErrReversalWindowExpired = errors.New("délai d'annulation dépassé (72h)")
	ErrNotRefundable         = errors.New("transaction non remboursable")
	ErrNotReversible         = errors.New("transaction non annulable")
	ErrAlreadyRefunded       = errors.New("transaction déjà remboursée ou annulée")
	ErrPayoutNotCancellable  = errors.New("le paiement n'est plus en cours de traitement")
)

// GatewayError porte l'erreur renvoyée par la passerelle mobile money, code
// d'origine préservé : l'opérateur a besoin de distinguer solde insuffisant,
// compte clôturé, transaction inconnue… Jamais réécrit en message générique.
type GatewayError struct {
	Code    string // code d'erreur Wave : insufficient-funds, payout-reversal-time-limit-exceeded…
	Message string
}

// Error implémente error.
func (e *GatewayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("passerelle: %s", e.Code)
	}
	return fmt.Sprintf("passerelle: %s: %s", e.Code, e.Message)
}

// NewGatewayError construit une erreur passerelle typée.
func NewGatewayError(code, message string) *GatewayError {
	return &GatewayError{Code: code, Message: message}
}
