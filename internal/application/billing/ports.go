package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
)

// ConversionTxRunner exécute une fonction dans une transaction SQL avec un
// repo de facturation lié à la transaction. C'est l'unité de travail atomique
// de la conversion : la re-validation du restant et l'écriture de la facture
// se font sous le même verrou, puis Commit ou Rollback.
type ConversionTxRunner interface {
	RunConversion(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// CheckoutParams paramètres de création d'un lien de paiement.
type CheckoutParams struct {
	Amount      decimal.Decimal
	Currency    string
	SuccessURL  string
	ErrorURL    string
	Reference   string // numéro de facture, repris dans les webhooks Wave
	Description string
}

// CheckoutSession lien de paiement renvoyé par la passerelle.
type CheckoutSession struct {
	ID        string
	LaunchURL string
}

// PaymentLinkCreator port vers la passerelle pour les checkout sessions.
// Un échec ici n'annule jamais la facture déjà créée : il est remonté en
// avertissement séparé.
type PaymentLinkCreator interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error)
}

// InvoiceNotifier couche de notification (e-mail) appelée après création
// d'une facture. Les échecs n'affectent pas l'état financier déjà commité.
type InvoiceNotifier interface {
	SendInvoiceCreated(ctx context.Context, invoice *entity.Invoice, items []*entity.InvoiceItem) error
}

// InvoicePDFGenerator génération de la représentation PDF d'une facture.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, items []*entity.InvoiceItem) ([]byte, error)
}
