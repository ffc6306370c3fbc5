package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implémentation de InvoiceRepository (utilisable avec pool ou tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, project_id, type, number, amount, status,
		COALESCE(source_quote_id, ''), due_date,
		COALESCE(payment_link, ''), COALESCE(payment_link_id, ''),
		COALESCE(client_name, ''), COALESCE(client_email, ''),
		COALESCE(client_phone, ''), COALESCE(client_address, ''),
		paid_date, created_at, updated_at`

// Create persiste l'en-tête du document (proforma ou facture).
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, project_id, type, number, amount, status, source_quote_id, due_date,
			payment_link, payment_link_id, client_name, client_email, client_phone, client_address,
			paid_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, nullIfEmpty(invoice.ProjectID), invoice.Type, invoice.Number, invoice.Amount, invoice.Status,
		nullIfEmpty(invoice.SourceQuoteID), invoice.DueDate,
		nullIfEmpty(invoice.PaymentLink), nullIfEmpty(invoice.PaymentLinkID),
		nullIfEmpty(invoice.ClientName), nullIfEmpty(invoice.ClientEmail),
		nullIfEmpty(invoice.ClientPhone), nullIfEmpty(invoice.ClientAddress),
		invoice.PaidDate, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste une ligne de document.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, source_service_line_id, name, description, quantity, unit_price, unit, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, nullIfEmpty(item.SourceServiceLineID), item.Name,
		nullIfEmpty(item.Description), item.Quantity, item.UnitPrice, nullIfEmpty(item.Unit), item.Total,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID lit un document par ID. Renvoie nil sans erreur s'il n'existe pas.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.scanOne(query, id)
}

// GetForUpdate lit le document en verrouillant sa ligne (SELECT FOR UPDATE).
// Deux conversions concurrentes du même proforma se sérialisent ici.
func (r *InvoiceRepo) GetForUpdate(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *InvoiceRepo) scanOne(query string, args ...any) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&inv.ID, &inv.ProjectID, &inv.Type, &inv.Number, &inv.Amount, &inv.Status,
		&inv.SourceQuoteID, &inv.DueDate,
		&inv.PaymentLink, &inv.PaymentLinkID,
		&inv.ClientName, &inv.ClientEmail, &inv.ClientPhone, &inv.ClientAddress,
		&inv.PaidDate, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetItems lit les lignes d'un document, dans l'ordre d'insertion.
func (r *InvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, COALESCE(source_service_line_id, ''), name, COALESCE(description, ''),
			quantity, unit_price, COALESCE(unit, ''), total
		FROM invoice_items WHERE invoice_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()

	var items []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.SourceServiceLineID, &it.Name, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.Unit, &it.Total,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// SumConvertedQuantities agrège les quantités facturées par ligne de
// prestation du proforma, sur les factures non annulées qui le référencent.
// L'agrégat SQL s'exécute dans la même transaction que l'insertion lors d'une
// conversion — la consommation est dérivée, pas un compteur mutable.
func (r *InvoiceRepo) SumConvertedQuantities(quoteID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT it.source_service_line_id, COALESCE(SUM(it.quantity), 0)
		FROM invoice_items it
		JOIN invoices i ON i.id = it.invoice_id
		WHERE i.source_quote_id = $1
		  AND i.type = 'INVOICE'
		  AND i.status <> 'CANCELLED'
		  AND it.source_service_line_id IS NOT NULL
		GROUP BY it.source_service_line_id`
	rows, err := r.q.Query(context.Background(), query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("sum converted quantities: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var lineID string
		var qty decimal.Decimal
		if err := rows.Scan(&lineID, &qty); err != nil {
			return nil, fmt.Errorf("scan converted quantity: %w", err)
		}
		sums[lineID] = qty
	}
	return sums, rows.Err()
}

// NextNumber réserve le prochain numéro séquentiel du préfixe, sous verrou de
// ligne sur le compteur (l'UPDATE verrouille jusqu'au commit de la tx).
func (r *InvoiceRepo) NextNumber(prefix string) (int64, error) {
	query := `
		INSERT INTO invoice_counters (prefix, last_value)
		VALUES ($1, 1)
		ON CONFLICT (prefix)
		DO UPDATE SET last_value = invoice_counters.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, prefix).Scan(&n); err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return n, nil
}

// UpdateStatus met à jour le statut d'un document.
func (r *InvoiceRepo) UpdateStatus(id, status string) error {
	query := `UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkPaid marque une facture payée à la date donnée (date de la transaction
// rapprochée, pas la date du jour).
func (r *InvoiceRepo) MarkPaid(id string, paidDate time.Time) error {
	query := `UPDATE invoices SET status = 'PAID', paid_date = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, paidDate)
	if err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetPaymentLink enregistre le lien de paiement obtenu après le commit de la
// conversion.
func (r *InvoiceRepo) SetPaymentLink(id, link, linkID string) error {
	query := `UPDATE invoices SET payment_link = $2, payment_link_id = $3, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, nullIfEmpty(link), nullIfEmpty(linkID))
	if err != nil {
		return fmt.Errorf("set payment link: %w", err)
	}
	return nil
}
