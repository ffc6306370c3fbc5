package billing

import (
	"context"

	"github.com/koffiyao/freelance-api/internal/application/dto"
	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
)

// InvoiceUseCase lecture, annulation et rendu PDF des documents.
type InvoiceUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	pdfGenerator InvoicePDFGenerator
}

// NewInvoiceUseCase construit le cas d'usage. pdfGenerator peut être nil.
func NewInvoiceUseCase(invoiceRepo repository.InvoiceRepository, pdfGenerator InvoicePDFGenerator) *InvoiceUseCase {
	return &InvoiceUseCase{invoiceRepo: invoiceRepo, pdfGenerator: pdfGenerator}
}

// GetInvoice renvoie un document complet (proforma ou facture) avec ses lignes.
func (uc *InvoiceUseCase) GetInvoice(_ context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, items)
	return &resp, nil
}

// CancelInvoice annule une facture encore ouverte. Les quantités consommées
// par ses lignes retournent au restant du proforma source (l'agrégat exclut
// les factures annulées). Une facture payée ou un proforma ne s'annulent pas.
func (uc *InvoiceUseCase) CancelInvoice(_ context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Type != entity.InvoiceTypeInvoice {
		return nil, domain.ErrInvalidInput
	}
	switch inv.Status {
	case entity.InvoiceStatusPending, entity.InvoiceStatusOverdue:
		// annulable
	default:
		return nil, domain.ErrInvalidInput
	}
	if err := uc.invoiceRepo.UpdateStatus(id, entity.InvoiceStatusCancelled); err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatusCancelled
	items, err := uc.invoiceRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, items)
	return &resp, nil
}

// GeneratePDF rend le PDF d'un document.
func (uc *InvoiceUseCase) GeneratePDF(ctx context.Context, id string) ([]byte, error) {
	if uc.pdfGenerator == nil {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return uc.pdfGenerator.GenerateInvoicePDF(ctx, inv, items)
}
