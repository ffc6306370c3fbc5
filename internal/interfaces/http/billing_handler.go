package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/koffiyao/freelance-api/internal/application/billing"
	"github.com/koffiyao/freelance-api/internal/application/dto"
)

// BillingHandler requêtes HTTP de facturation : conversion proforma → facture,
// restant facturable, consultation, annulation et PDF.
type BillingHandler struct {
	convertUC *billing.ConvertQuoteUseCase
	ledger    *billing.ConversionLedger
	invoiceUC *billing.InvoiceUseCase
}

// NewBillingHandler construit le handler.
func NewBillingHandler(convertUC *billing.ConvertQuoteUseCase, ledger *billing.ConversionLedger, invoiceUC *billing.InvoiceUseCase) *BillingHandler {
	return &BillingHandler{convertUC: convertUC, ledger: ledger, invoiceUC: invoiceUC}
}

// ConvertQuote convertit une sélection de lignes d'un proforma en facture.
// POST /api/quotes/:id/convert
func (h *BillingHandler) ConvertQuote(c *fiber.Ctx) error {
	quoteID := c.Params("id")
	var in dto.ConvertQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	resp, err := h.convertUC.Convert(c.Context(), quoteID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetRemaining renvoie le restant facturable d'un proforma, ligne par ligne.
// GET /api/quotes/:id/remaining
func (h *BillingHandler) GetRemaining(c *fiber.Ctx) error {
	resp, err := h.ledger.Remaining(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// GetInvoice renvoie un document (proforma ou facture) avec ses lignes.
// GET /api/invoices/:id
func (h *BillingHandler) GetInvoice(c *fiber.Ctx) error {
	resp, err := h.invoiceUC.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// CancelInvoice annule une facture non payée. Les quantités qu'elle avait
// consommées redeviennent facturables sur le proforma source.
// POST /api/invoices/:id/cancel
func (h *BillingHandler) CancelInvoice(c *fiber.Ctx) error {
	resp, err := h.invoiceUC.CancelInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// DownloadPDF génère et renvoie le PDF d'un document.
// GET /api/invoices/:id/pdf
func (h *BillingHandler) DownloadPDF(c *fiber.Ctx) error {
	raw, err := h.invoiceUC.GeneratePDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="facture-`+c.Params("id")+`.pdf"`)
	return c.Send(raw)
}
