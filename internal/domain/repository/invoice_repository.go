package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/koffiyao/freelance-api/internal/domain/entity"
)

// InvoiceRepository accès aux documents de facturation (proformas et factures)
// et à leurs lignes.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetItems(invoiceID string) ([]*entity.InvoiceItem, error)

	// GetForUpdate lit le document en verrouillant sa ligne (SELECT FOR UPDATE).
	// Sérialise les conversions concurrentes d'un même proforma.
	GetForUpdate(id string) (*entity.Invoice, error)

	// SumConvertedQuantities agrège, par ligne de prestation du proforma, les
	// quantités déjà facturées sur l'ensemble des factures non annulées qui le
	// référencent. La consommation est dérivée, jamais un compteur mutable.
	SumConvertedQuantities(quoteID string) (map[string]decimal.Decimal, error)

	// NextNumber réserve le prochain numéro séquentiel pour un préfixe,
	// sous verrou de ligne sur le compteur.
	NextNumber(prefix string) (int64, error)

	UpdateStatus(id, status string) error
	MarkPaid(id string, paidDate time.Time) error
	SetPaymentLink(id, link, linkID string) error
}
