package reconcile

import (
	"context"
	"time"

	"github.com/koffiyao/freelance-api/internal/application/dto"
	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
	"github.com/koffiyao/freelance-api/pkg/logger"
)

// TransactionsUseCase fusionne une page de transactions passerelle avec le
// registre local (affectations, tentatives de paiement) et la vue des
// actions dérivées.
type TransactionsUseCase struct {
	gateway        Gateway
	assignmentRepo repository.AssignmentRepository
	payoutRepo     repository.PayoutRepository
	log            *logger.Logger
	cfg            LifecycleConfig
	now            func() time.Time
}

// NewTransactionsUseCase construit le cas d'usage.
func NewTransactionsUseCase(
	gateway Gateway,
	assignmentRepo repository.AssignmentRepository,
	payoutRepo repository.PayoutRepository,
	log *logger.Logger,
	cfg LifecycleConfig,
) *TransactionsUseCase {
	return &TransactionsUseCase{
		gateway:        gateway,
		assignmentRepo: assignmentRepo,
		payoutRepo:     payoutRepo,
		log:            log,
		cfg:            cfg,
		now:            time.Now,
	}
}

// List renvoie la page du jour demandé. dateStr au format 2006-01-02, vide =
// aujourd'hui. Les lignes compensatoires de la page marquent leur originale
// (statut dérivé Remboursement / Annulé) et neutralisent ses actions.
func (uc *TransactionsUseCase) List(ctx context.Context, dateStr, cursor string) (*dto.TransactionListResponse, error) {
	date := uc.now()
	if dateStr != "" {
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		date = d
	}

	page, err := uc.gateway.ListTransactions(ctx, date, cursor)
	if err != nil {
		return nil, err
	}

	uc.refreshUnlinked(ctx)

	ids := make([]string, 0, len(page.Items))
	compensated := make(map[string]bool)
	for _, tx := range page.Items {
		ids = append(ids, tx.ID)
		if tx.IsReversal {
			compensated[tx.ID] = true
		}
	}

	assignments, err := uc.assignmentRepo.ListByTransactionIDs(ids)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	resp := &dto.TransactionListResponse{
		Date:         date.Format("2006-01-02"),
		NextCursor:   page.NextCursor,
		Transactions: make([]dto.TransactionResponse, 0, len(page.Items)),
	}
	for _, tx := range page.Items {
		a := assignments[tx.ID]
		var payout *entity.Payout
		if tx.IsOutbound() && !tx.IsReversal {
			// Statut local en cache : heuristique, pas vérité — voir computeActions
			payout, _ = uc.payoutRepo.GetByTransactionID(tx.ID)
		}

		item := toTransactionResponse(tx)
		if compensated[tx.ID] && !tx.IsReversal {
			if tx.IsInbound() {
				item.DerivedStatus = "Remboursement"
			} else {
				item.DerivedStatus = "Annulé"
			}
		}
		if a != nil {
			ar := toAssignmentResponse(a)
			item.Assignment = &ar
		}
		item.Actions = computeActions(tx, compensated[tx.ID] && !tx.IsReversal, a, payout, now, uc.cfg)
		resp.Transactions = append(resp.Transactions, item)
	}
	return resp, nil
}

// refreshUnlinked rattrape les tentatives pas encore rattachées à leur
// transaction de relevé : le statut passerelle porte l'ID de transaction une
// fois l'ordre exécuté. Meilleur effort — une passerelle muette n'empêche pas
// la page de sortir.
func (uc *TransactionsUseCase) refreshUnlinked(ctx context.Context) {
	pending, err := uc.payoutRepo.ListUnlinked()
	if err != nil {
		uc.log.Warn().Err(err).Msg("transactions: lecture des tentatives non rattachées")
		return
	}
	for _, p := range pending {
		res, err := uc.gateway.PayoutStatus(ctx, p.GatewayID)
		if err != nil {
			uc.log.Warn().Err(err).Str("payout_id", p.ID).Msg("transactions: statut passerelle indisponible")
			continue
		}
		if res.TransactionID != "" {
			if err := uc.payoutRepo.SetTransactionID(p.ID, res.TransactionID); err != nil {
				uc.log.Error().Err(err).Str("payout_id", p.ID).Msg("transactions: rattachement de la transaction")
			}
		}
		if res.Status != "" && res.Status != p.Status {
			if err := uc.payoutRepo.UpdateStatus(p.ID, res.Status); err != nil {
				uc.log.Error().Err(err).Str("payout_id", p.ID).Msg("transactions: mise à jour du statut")
			}
		}
	}
}
