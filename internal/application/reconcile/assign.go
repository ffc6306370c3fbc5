package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/koffiyao/freelance-api/internal/application/dto"
	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
	"github.com/koffiyao/freelance-api/pkg/logger"
)

// AssignUseCase machine à états des affectations : unassigned → assigned →
// conflict → resolved. L'affectation est possédée localement, modifiable et
// supprimable ; la transaction sous-jacente ne l'est jamais.
type AssignUseCase struct {
	gateway        Gateway
	matcher        *Matcher
	assignmentRepo repository.AssignmentRepository
	invoiceRepo    repository.InvoiceRepository
	clientRepo     repository.ClientRepository
	providerRepo   repository.ProviderRepository
	log            *logger.Logger
	tolerance      decimal.Decimal // écart toléré entre transaction et facture liée
}

// NewAssignUseCase construit le cas d'usage.
func NewAssignUseCase(
	gateway Gateway,
	matcher *Matcher,
	assignmentRepo repository.AssignmentRepository,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	providerRepo repository.ProviderRepository,
	log *logger.Logger,
	tolerance decimal.Decimal,
) *AssignUseCase {
	return &AssignUseCase{
		gateway:        gateway,
		matcher:        matcher,
		assignmentRepo: assignmentRepo,
		invoiceRepo:    invoiceRepo,
		clientRepo:     clientRepo,
		providerRepo:   providerRepo,
		log:            log,
		tolerance:      tolerance,
	}
}

// Assign crée ou écrase l'affectation d'une transaction. Écrasement entier,
// jamais de fusion partielle : ré-affecter une transaction déjà affectée est
// sûr et idempotent. Sans lien explicite, plus d'un candidat au rapprochement
// met l'affectation en conflit avec l'ensemble des candidats attaché.
func (uc *AssignUseCase) Assign(ctx context.Context, transactionID string, in dto.AssignRequest) (*dto.AssignResponse, error) {
	if in.Description == "" {
		return nil, domain.ErrInvalidInput
	}

	occurrences, err := uc.gateway.FindTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if len(occurrences) == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	tx, _ := originalOf(occurrences)
	if tx.IsReversal {
		// Une ligne compensatoire ne s'affecte pas : c'est l'originale qui porte le sens comptable
		return nil, domain.ErrInvalidAssignmentTx
	}

	now := time.Now()
	a := &entity.Assignment{
		ID:            uuid.New().String(),
		TransactionID: transactionID,
		Type:          in.Type,
		Description:   in.Description,
		Notes:         in.Notes,
		ProjectID:     in.ProjectID,
		ClientID:      in.ClientID,
		ProviderID:    in.ProviderID,
		InvoiceID:     in.InvoiceID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if existing, err := uc.assignmentRepo.GetByTransactionID(transactionID); err != nil {
		return nil, err
	} else if existing != nil {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	}

	var warnings []dto.Warning

	if a.HasConcreteLink() {
		w, err := uc.applyExplicitLinks(ctx, a, tx)
		if err != nil {
			return nil, err
		}
		warnings = w
	} else {
		match, err := uc.matcher.Match(ctx, tx.CounterpartyMobile)
		if err != nil {
			return nil, err
		}
		switch {
		case match.Total() > 1:
			// Ambiguïté légitime : état terminal en attente d'arbitrage humain
			a.Candidates = match.Candidates()
		case match.Total() == 1:
			if len(match.Clients) == 1 {
				a.ClientID = match.Clients[0].ID
			} else {
				a.ProviderID = match.Providers[0].ID
			}
		}
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := uc.assignmentRepo.Upsert(a); err != nil {
		return nil, err
	}

	resp := toAssignmentResponse(a)
	return &dto.AssignResponse{Assignment: resp, Warnings: warnings}, nil
}

// applyExplicitLinks valide les liens fournis par l'appelant et, pour un lien
// facture, marque celle-ci payée à la date de la transaction. Un écart de
// montant au-delà de la tolérance devient un avertissement journalisé — les
// paiements partiels et les trop-perçus sont une réalité métier, pas un rejet.
func (uc *AssignUseCase) applyExplicitLinks(_ context.Context, a *entity.Assignment, tx *entity.Transaction) ([]dto.Warning, error) {
	if a.ClientID != "" {
		c, err := uc.clientRepo.GetByID(a.ClientID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.ErrNotFound
		}
	}
	if a.ProviderID != "" {
		p, err := uc.providerRepo.GetByID(a.ProviderID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
	}

	var warnings []dto.Warning
	if a.InvoiceID != "" {
		inv, err := uc.invoiceRepo.GetByID(a.InvoiceID)
		if err != nil {
			return nil, err
		}
		if inv == nil || inv.Type != entity.InvoiceTypeInvoice {
			return nil, domain.ErrNotFound
		}
		diff := tx.Amount.Abs().Sub(inv.Amount).Abs()
		if diff.GreaterThan(uc.tolerance) {
			uc.log.Warn().
				Str("transaction_id", tx.ID).
				Str("invoice_id", inv.ID).
				Str("diff", diff.String()).
				Msg("affectation: écart de montant entre transaction et facture")
			warnings = append(warnings, dto.Warning{
				Code:    "AMOUNT_MISMATCH",
				Message: "le montant de la transaction diffère de celui de la facture",
			})
		}
		if inv.Status != entity.InvoiceStatusPaid {
			if err := uc.invoiceRepo.MarkPaid(inv.ID, tx.Timestamp); err != nil {
				return nil, err
			}
		}
	}
	return warnings, nil
}

// ResolveConflict tranche un conflit avec un candidat de l'ensemble proposé à
// la mise en conflit — tout autre lien est rejeté.
func (uc *AssignUseCase) ResolveConflict(_ context.Context, assignmentID string, in dto.ResolveConflictRequest) (*dto.AssignmentResponse, error) {
	a, err := uc.assignmentRepo.GetByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if a.State() != entity.AssignmentStateConflict {
		return nil, domain.ErrNotInConflict
	}
	if !a.OffersCandidate(in.Kind, in.ID) {
		return nil, domain.ErrCandidateNotOffered
	}

	switch in.Kind {
	case entity.CandidateKindClient:
		a.ClientID = in.ID
	case entity.CandidateKindProvider:
		a.ProviderID = in.ID
	default:
		return nil, domain.ErrInvalidInput
	}
	a.Candidates = nil
	a.Resolved = true
	a.UpdatedAt = time.Now()

	if err := uc.assignmentRepo.Update(a); err != nil {
		return nil, err
	}
	resp := toAssignmentResponse(a)
	return &resp, nil
}

// Unassign supprime l'affectation : la transaction redevient non affectée.
// Toujours permis. Ne touche ni la transaction ni une facture déjà payée —
// l'appelant qui veut rouvrir la facture le fait explicitement, pour éviter
// un effet financier silencieux depuis une action de tenue de livres.
func (uc *AssignUseCase) Unassign(_ context.Context, transactionID string) error {
	a, err := uc.assignmentRepo.GetByTransactionID(transactionID)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNotFound
	}
	return uc.assignmentRepo.DeleteByTransactionID(transactionID)
}

// toAssignmentResponse convertit l'entité en DTO, état dérivé inclus.
func toAssignmentResponse(a *entity.Assignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:            a.ID,
		TransactionID: a.TransactionID,
		State:         a.State(),
		Type:          a.Type,
		Description:   a.Description,
		Notes:         a.Notes,
		ProjectID:     a.ProjectID,
		ClientID:      a.ClientID,
		ProviderID:    a.ProviderID,
		InvoiceID:     a.InvoiceID,
	}
	for _, c := range a.Candidates {
		resp.Candidates = append(resp.Candidates, dto.CandidateResponse{Kind: c.Kind, ID: c.ID, Name: c.Name})
	}
	return resp
}
