package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/koffiyao/freelance-api/internal/application/dto"
	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// ConversionLedger calcule la vue autoritaire du restant à convertir d'un
// proforma. La consommation par ligne est dérivée d'un agrégat sur les
// factures non annulées qui référencent le proforma — jamais d'un compteur
// mutable sur la ligne elle-même.
type ConversionLedger struct {
	invoiceRepo repository.InvoiceRepository
}

// NewConversionLedger construit le ledger.
func NewConversionLedger(invoiceRepo repository.InvoiceRepository) *ConversionLedger {
	return &ConversionLedger{invoiceRepo: invoiceRepo}
}

// Remaining renvoie, par ligne de prestation, les quantités d'origine,
// facturées et restantes, le pourcentage de conversion global et l'indicateur
// de conversion totale. remainingQty est borné à zéro.
func (l *ConversionLedger) Remaining(_ context.Context, quoteID string) (*dto.QuoteRemainingResponse, error) {
	quote, err := l.invoiceRepo.GetByID(quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil || !quote.IsQuote() {
		return nil, domain.ErrNotFound
	}
	items, err := l.invoiceRepo.GetItems(quoteID)
	if err != nil {
		return nil, err
	}
	sums, err := l.invoiceRepo.SumConvertedQuantities(quoteID)
	if err != nil {
		return nil, err
	}
	return buildRemaining(quote, items, sums), nil
}

// buildRemaining assemble la vue à partir du proforma, de ses lignes et de
// l'agrégat des quantités facturées. Réutilisé sous transaction par le moteur
// de conversion pour re-valider sur des données verrouillées.
func buildRemaining(quote *entity.Invoice, items []*entity.InvoiceItem, invoiced map[string]decimal.Decimal) *dto.QuoteRemainingResponse {
	resp := &dto.QuoteRemainingResponse{
		QuoteID:          quote.ID,
		QuoteNumber:      quote.Number,
		TotalAmount:      quote.Amount,
		InvoicedAmount:   decimal.Zero,
		IsFullyConverted: true,
		Services:         make([]dto.ServiceRemaining, 0, len(items)),
	}
	for _, it := range items {
		inv := invoiced[it.ID]
		remaining := it.Quantity.Sub(inv)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		if remaining.IsPositive() {
			resp.IsFullyConverted = false
		}
		resp.InvoicedAmount = resp.InvoicedAmount.Add(inv.Mul(it.UnitPrice))
		resp.Services = append(resp.Services, dto.ServiceRemaining{
			ServiceLineID:  it.ID,
			Name:           it.Name,
			Unit:           it.Unit,
			UnitPrice:      it.UnitPrice,
			OriginalQty:    it.Quantity,
			InvoicedQty:    inv,
			RemainingQty:   remaining,
			RemainingValue: remaining.Mul(it.UnitPrice),
		})
	}
	if quote.Amount.IsPositive() {
		resp.ConversionPercent = resp.InvoicedAmount.Div(quote.Amount).Mul(hundred).Round(2)
	}
	return resp
}
