package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Types de document de facturation.
const (
	InvoiceTypeProforma = "PROFORMA" // Devis (proforma), porteur des lignes de prestation
	InvoiceTypeInvoice  = "INVOICE"  // Facture encaissable
)

// Statuts d'un document. Un proforma avance DRAFT → PENDING → CONVERTED
// (jamais en arrière) ; une facture vit entre PENDING, PAID, OVERDUE et CANCELLED.
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusPending   = "PENDING"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusOverdue   = "OVERDUE"
	InvoiceStatusCancelled = "CANCELLED"
	InvoiceStatusConverted = "CONVERTED"
)

// Invoice représente un document de facturation : proforma (devis) ou facture.
// Les champs Client* sont une photographie prise à la création — jamais une
// référence vive — pour que les documents historiques restent stables même si
// la fiche client change ensuite.
type Invoice struct {
	ID            string
	ProjectID     string
	Type          string // PROFORMA | INVOICE
	Number        string // Numéro unique, séquentiel par préfixe
	Amount        decimal.Decimal
	Status        string
	SourceQuoteID string // Pour une facture issue d'une conversion : ID du proforma d'origine (référence, pas propriété)
	DueDate       *time.Time
	PaymentLink   string // URL de paiement Wave (checkout session)
	PaymentLinkID string
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	ClientAddress string
	PaidDate      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsQuote indique si le document est un proforma (devis).
func (i *Invoice) IsQuote() bool { return i.Type == InvoiceTypeProforma }

// CountsTowardConversion indique si les lignes de ce document consomment
// des quantités du proforma source. Une facture annulée libère ses quantités.
func (i *Invoice) CountsTowardConversion() bool {
	return i.Type == InvoiceTypeInvoice && i.Status != InvoiceStatusCancelled
}
