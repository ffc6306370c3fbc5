package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/koffiyao/freelance-api/internal/application/dto"
	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
	"github.com/koffiyao/freelance-api/pkg/logger"
)

// Nombre de tentatives de la séquence valider-puis-écrire avant de remonter
// l'écriture concurrente à l'appelant.
const convertMaxAttempts = 3

// ConvertConfig paramètres de la conversion.
type ConvertConfig struct {
	InvoicePrefix string // préfixe des numéros de facture (FAC)
	Currency      string // XOF
	SuccessURL    string // redirections de la checkout session
	ErrorURL      string
}

// ConvertQuoteUseCase convertit un proforma en facture, partiellement ou
// totalement, en garantissant qu'aucune ligne de prestation n'est jamais
// facturée au-delà de sa quantité d'origine. La re-validation du restant et
// l'écriture de la facture s'exécutent sous le même verrou de ligne sur le
// proforma, de sorte que deux conversions concurrentes ne puissent pas
// dépasser ensemble la quantité disponible.
type ConvertQuoteUseCase struct {
	txRunner    ConversionTxRunner
	invoiceRepo repository.InvoiceRepository
	projectRepo repository.ProjectRepository
	clientRepo  repository.ClientRepository
	linkCreator PaymentLinkCreator
	notifier    InvoiceNotifier
	log         *logger.Logger
	cfg         ConvertConfig
}

// NewConvertQuoteUseCase construit le cas d'usage. linkCreator et notifier
// peuvent être nil (fonctionnalités désactivées).
func NewConvertQuoteUseCase(
	txRunner ConversionTxRunner,
	invoiceRepo repository.InvoiceRepository,
	projectRepo repository.ProjectRepository,
	clientRepo repository.ClientRepository,
	linkCreator PaymentLinkCreator,
	notifier InvoiceNotifier,
	log *logger.Logger,
	cfg ConvertConfig,
) *ConvertQuoteUseCase {
	return &ConvertQuoteUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		linkCreator: linkCreator,
		notifier:    notifier,
		log:         log,
		cfg:         cfg,
	}
}

// Convert valide la sélection contre le restant au moment de la transaction
// et crée la facture. La conversion totale est le cas dégénéré où la
// sélection couvre tout le restant ; même chemin de code.
func (uc *ConvertQuoteUseCase) Convert(ctx context.Context, quoteID string, in dto.ConvertQuoteRequest) (*dto.ConvertQuoteResponse, error) {
	// Les lignes à quantité nulle ne sont pas retenues ; une sélection sans
	// aucune quantité positive équivaut à une sélection vide
	selections := make([]dto.ConvertSelection, 0, len(in.Selections))
	for _, sel := range in.Selections {
		if sel.Quantity.IsZero() {
			continue
		}
		if sel.ServiceLineID == "" || sel.Quantity.IsNegative() {
			return nil, domain.ErrInvalidSelection
		}
		selections = append(selections, sel)
	}
	if len(selections) == 0 {
		return nil, domain.ErrEmptySelection
	}
	in.Selections = selections

	// Lecture hors transaction : existence et état du proforma
	quote, err := uc.invoiceRepo.GetByID(quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil || !quote.IsQuote() {
		return nil, domain.ErrNotFound
	}
	if quote.Status == entity.InvoiceStatusConverted {
		return nil, domain.ErrQuoteConverted
	}

	snapshot, err := uc.clientSnapshot(quote, in.Client)
	if err != nil {
		return nil, err
	}

	var dueDate *time.Time
	if in.Payment.DueDate != "" {
		d, errParse := time.Parse("2006-01-02", in.Payment.DueDate)
		if errParse != nil {
			return nil, domain.ErrInvalidInput
		}
		dueDate = &d
	}

	var created *entity.Invoice
	var createdItems []*entity.InvoiceItem

	// Séquence valider-puis-écrire, réessayée un nombre borné de fois si une
	// écriture concurrente est détectée (SQLSTATE 40001/40P01).
	for attempt := 1; ; attempt++ {
		created, createdItems = nil, nil
		err = uc.txRunner.RunConversion(ctx, func(invRepo repository.InvoiceRepository) error {
			inv, items, errTx := uc.convertInTx(invRepo, quoteID, in, snapshot, dueDate)
			if errTx != nil {
				return errTx
			}
			created, createdItems = inv, items
			return nil
		})
		if err == nil || !errors.Is(err, domain.ErrConcurrentWrite) || attempt >= convertMaxAttempts {
			break
		}
		uc.log.Warn().Str("quote_id", quoteID).Int("attempt", attempt).
			Msg("conversion: écriture concurrente, nouvelle tentative")
	}
	if err != nil {
		return nil, err
	}

	warnings := uc.afterCommit(ctx, created, createdItems, in.Payment)

	remaining, err := NewConversionLedger(uc.invoiceRepo).Remaining(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	return &dto.ConvertQuoteResponse{
		Invoice:   toInvoiceResponse(created, createdItems),
		Remaining: *remaining,
		Warnings:  warnings,
	}, nil
}

// convertInTx re-valide chaque sélection contre le restant calculé sous le
// verrou du proforma, puis écrit la facture et ses lignes figées.
func (uc *ConvertQuoteUseCase) convertInTx(
	invRepo repository.InvoiceRepository,
	quoteID string,
	in dto.ConvertQuoteRequest,
	snapshot clientSnapshot,
	dueDate *time.Time,
) (*entity.Invoice, []*entity.InvoiceItem, error) {
	// Verrou de ligne : sérialise les conversions du même proforma
	quote, err := invRepo.GetForUpdate(quoteID)
	if err != nil {
		return nil, nil, err
	}
	if quote == nil || !quote.IsQuote() {
		return nil, nil, domain.ErrNotFound
	}
	if quote.Status == entity.InvoiceStatusConverted {
		return nil, nil, domain.ErrQuoteConverted
	}

	lines, err := invRepo.GetItems(quoteID)
	if err != nil {
		return nil, nil, err
	}
	linesByID := make(map[string]*entity.InvoiceItem, len(lines))
	for _, l := range lines {
		linesByID[l.ID] = l
	}

	invoiced, err := invRepo.SumConvertedQuantities(quoteID)
	if err != nil {
		return nil, nil, err
	}

	// Re-validation au moment de la transaction : la quantité sélectionnée ne
	// doit pas dépasser le restant de la ligne
	selected := make(map[string]decimal.Decimal, len(in.Selections))
	for _, sel := range in.Selections {
		line, ok := linesByID[sel.ServiceLineID]
		if !ok {
			return nil, nil, domain.ErrInvalidSelection
		}
		already := selected[sel.ServiceLineID]
		remaining := line.Quantity.Sub(invoiced[sel.ServiceLineID]).Sub(already)
		if sel.Quantity.GreaterThan(remaining) {
			return nil, nil, domain.ErrInvalidSelection
		}
		selected[sel.ServiceLineID] = already.Add(sel.Quantity)
	}

	seq, err := invRepo.NextNumber(uc.cfg.InvoicePrefix)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	status := entity.InvoiceStatusPending
	var paidDate *time.Time
	if in.Payment.MarkAsPaid {
		status = entity.InvoiceStatusPaid
		paidDate = &now
	}

	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		ProjectID:     quote.ProjectID,
		Type:          entity.InvoiceTypeInvoice,
		Number:        fmt.Sprintf("%s-%06d", uc.cfg.InvoicePrefix, seq),
		Amount:        decimal.Zero,
		Status:        status,
		SourceQuoteID: quote.ID,
		DueDate:       dueDate,
		ClientName:    snapshot.Name,
		ClientEmail:   snapshot.Email,
		ClientPhone:   snapshot.Phone,
		ClientAddress: snapshot.Address,
		PaidDate:      paidDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items := make([]*entity.InvoiceItem, 0, len(in.Selections))
	for _, sel := range in.Selections {
		line := linesByID[sel.ServiceLineID]
		// Prix unitaire figé au moment de la sélection
		total := sel.Quantity.Mul(line.UnitPrice)
		items = append(items, &entity.InvoiceItem{
			ID:                  uuid.New().String(),
			InvoiceID:           inv.ID,
			SourceServiceLineID: line.ID,
			Name:                line.Name,
			Description:         line.Description,
			Quantity:            sel.Quantity,
			UnitPrice:           line.UnitPrice,
			Unit:                line.Unit,
			Total:               total,
		})
		inv.Amount = inv.Amount.Add(total)
	}

	if err := invRepo.Create(inv); err != nil {
		return nil, nil, err
	}
	for _, it := range items {
		if err := invRepo.CreateItem(it); err != nil {
			return nil, nil, err
		}
	}

	// Si plus rien à convertir, le proforma avance à CONVERTED (sens unique)
	fully := true
	for _, line := range lines {
		consumed := invoiced[line.ID].Add(selected[line.ID])
		if consumed.LessThan(line.Quantity) {
			fully = false
			break
		}
	}
	if fully {
		if err := invRepo.UpdateStatus(quote.ID, entity.InvoiceStatusConverted); err != nil {
			return nil, nil, err
		}
	}

	return inv, items, nil
}

// afterCommit applique les effets hors transaction : lien de paiement et
// notification. Chaque échec devient un avertissement, jamais un rollback du
// document financier déjà commité.
func (uc *ConvertQuoteUseCase) afterCommit(ctx context.Context, inv *entity.Invoice, items []*entity.InvoiceItem, payment dto.PaymentOptions) []dto.Warning {
	var warnings []dto.Warning

	if payment.GeneratePaymentLink && uc.linkCreator != nil {
		sess, err := uc.linkCreator.CreateCheckoutSession(ctx, CheckoutParams{
			Amount:      inv.Amount,
			Currency:    uc.cfg.Currency,
			SuccessURL:  uc.cfg.SuccessURL,
			ErrorURL:    uc.cfg.ErrorURL,
			Reference:   inv.Number,
			Description: fmt.Sprintf("Facture %s", inv.Number),
		})
		if err != nil {
			uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("conversion: lien de paiement indisponible")
			warnings = append(warnings, dto.Warning{
				Code:    "PAYMENT_LINK_FAILED",
				Message: "facture créée mais lien de paiement indisponible",
			})
		} else {
			inv.PaymentLink = sess.LaunchURL
			inv.PaymentLinkID = sess.ID
			if err := uc.invoiceRepo.SetPaymentLink(inv.ID, sess.LaunchURL, sess.ID); err != nil {
				uc.log.Error().Err(err).Str("invoice_id", inv.ID).Msg("conversion: enregistrement du lien de paiement")
			}
		}
	}

	if uc.notifier != nil && inv.ClientEmail != "" {
		if err := uc.notifier.SendInvoiceCreated(ctx, inv, items); err != nil {
			uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("conversion: notification e-mail non envoyée")
			warnings = append(warnings, dto.Warning{
				Code:    "EMAIL_FAILED",
				Message: "facture créée mais e-mail non envoyé",
			})
		}
	}

	return warnings
}

// clientSnapshot photographie client figée sur la facture.
type clientSnapshot struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// clientSnapshot fusionne l'éventuelle surcharge de la requête par-dessus le
// client du projet du proforma.
func (uc *ConvertQuoteUseCase) clientSnapshot(quote *entity.Invoice, override *dto.ClientOverride) (clientSnapshot, error) {
	snap := clientSnapshot{
		Name:    quote.ClientName,
		Email:   quote.ClientEmail,
		Phone:   quote.ClientPhone,
		Address: quote.ClientAddress,
	}
	if quote.ProjectID != "" {
		project, err := uc.projectRepo.GetByID(quote.ProjectID)
		if err != nil {
			return snap, err
		}
		if project != nil && project.ClientID != "" {
			client, err := uc.clientRepo.GetByID(project.ClientID)
			if err != nil {
				return snap, err
			}
			if client != nil {
				snap = clientSnapshot{Name: client.Name, Email: client.Email, Phone: client.Phone, Address: client.Address}
			}
		}
	}
	if override != nil {
		if override.Name != "" {
			snap.Name = override.Name
		}
		if override.Email != "" {
			snap.Email = override.Email
		}
		if override.Phone != "" {
			snap.Phone = override.Phone
		}
		if override.Address != "" {
			snap.Address = override.Address
		}
	}
	return snap, nil
}

// toInvoiceResponse convertit l'entité en DTO de réponse.
func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:            inv.ID,
		ProjectID:     inv.ProjectID,
		Type:          inv.Type,
		Number:        inv.Number,
		Amount:        inv.Amount,
		Status:        inv.Status,
		SourceQuoteID: inv.SourceQuoteID,
		PaymentLink:   inv.PaymentLink,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		ClientPhone:   inv.ClientPhone,
		ClientAddress: inv.ClientAddress,
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
		Items:         make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	if inv.DueDate != nil {
		resp.DueDate = inv.DueDate.Format("2006-01-02")
	}
	if inv.PaidDate != nil {
		resp.PaidDate = inv.PaidDate.Format("2006-01-02")
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:                  it.ID,
			SourceServiceLineID: it.SourceServiceLineID,
			Name:                it.Name,
			Description:         it.Description,
			Quantity:            it.Quantity,
			UnitPrice:           it.UnitPrice,
			Unit:                it.Unit,
			Total:               it.Total,
		})
	}
	return resp
}
