package dto

import "github.com/shopspring/decimal"

// ── Vue du restant à convertir ────────────────────────────────────────────────

// ServiceRemaining restant à facturer pour une ligne de prestation.
type ServiceRemaining struct {
	ServiceLineID  string          `json:"service_line_id"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	OriginalQty    decimal.Decimal `json:"original_qty"`
	InvoicedQty    decimal.Decimal `json:"invoiced_qty"`
	RemainingQty   decimal.Decimal `json:"remaining_qty"`
	RemainingValue decimal.Decimal `json:"remaining_value"`
}

// QuoteRemainingResponse vue autoritaire du restant à convertir d'un proforma.
type QuoteRemainingResponse struct {
	QuoteID           string             `json:"quote_id"`
	QuoteNumber       string             `json:"quote_number"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`
	InvoicedAmount    decimal.Decimal    `json:"invoiced_amount"`
	ConversionPercent decimal.Decimal    `json:"conversion_percent"`
	IsFullyConverted  bool               `json:"is_fully_converted"`
	Services          []ServiceRemaining `json:"services"`
}

// ── Conversion ────────────────────────────────────────────────────────────────

// ConvertSelection une ligne sélectionnée pour conversion : quantité à
// facturer sur une ligne de prestation du proforma.
type ConvertSelection struct {
	ServiceLineID string          `json:"service_line_id"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// ClientOverride champs de photographie client venant écraser ceux du client
// du projet sur la facture créée.
type ClientOverride struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// PaymentOptions options de paiement de la conversion.
type PaymentOptions struct {
	MarkAsPaid          bool   `json:"mark_as_paid"`
	GeneratePaymentLink bool   `json:"generate_payment_link"`
	DueDate             string `json:"due_date,omitempty"` // format 2006-01-02
}

// ConvertQuoteRequest requête de conversion partielle ou totale d'un proforma.
type ConvertQuoteRequest struct {
	Selections []ConvertSelection `json:"selections"`
	Client     *ClientOverride    `json:"client,omitempty"`
	Payment    PaymentOptions     `json:"payment"`
}

// InvoiceItemResponse ligne de facture dans les réponses.
type InvoiceItemResponse struct {
	ID                  string          `json:"id"`
	SourceServiceLineID string          `json:"source_service_line_id,omitempty"`
	Name                string          `json:"name"`
	Description         string          `json:"description,omitempty"`
	Quantity            decimal.Decimal `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	Unit                string          `json:"unit,omitempty"`
	Total               decimal.Decimal `json:"total"`
}

// InvoiceResponse facture (ou proforma) avec ses lignes.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	ProjectID     string                `json:"project_id"`
	Type          string                `json:"type"`
	Number        string                `json:"number"`
	Amount        decimal.Decimal       `json:"amount"`
	Status        string                `json:"status"`
	SourceQuoteID string                `json:"source_quote_id,omitempty"`
	DueDate       string                `json:"due_date,omitempty"`
	PaymentLink   string                `json:"payment_link,omitempty"`
	ClientName    string                `json:"client_name,omitempty"`
	ClientEmail   string                `json:"client_email,omitempty"`
	ClientPhone   string                `json:"client_phone,omitempty"`
	ClientAddress string                `json:"client_address,omitempty"`
	PaidDate      string                `json:"paid_date,omitempty"`
	CreatedAt     string                `json:"created_at"`
	Items         []InvoiceItemResponse `json:"items"`
}

// ConvertQuoteResponse résultat d'une conversion : la facture créée, la vue
// du restant mise à jour, et les avertissements non bloquants (lien de
// paiement indisponible, e-mail non parti…).
type ConvertQuoteResponse struct {
	Invoice   InvoiceResponse        `json:"invoice"`
	Remaining QuoteRemainingResponse `json:"remaining"`
	Warnings  []Warning              `json:"warnings,omitempty"`
}
