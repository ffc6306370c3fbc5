package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/koffiyao/freelance-api/internal/application/dto"
	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
	"github.com/koffiyao/freelance-api/pkg/logger"
)

// LifecycleConfig fenêtres d'éligibilité des opérations de cycle de vie.
type LifecycleConfig struct {
	ReversalWindow time.Duration // fenêtre locale d'annulation d'un paiement réglé (72h)
	PendingWindow  time.Duration // heuristique « encore en traitement » (30 min)
	Currency       string
}

// LifecycleUseCase applique les règles temporelles d'annulation, de
// remboursement et d'abandon de paiement. Trois opérations distinctes et non
// chevauchantes : la passerelle expose trois actions irréversibles aux
// préconditions différentes. Aucun verrou local n'est tenu pendant un appel
// passerelle ; l'état local n'est écrit qu'après son retour.
type LifecycleUseCase struct {
	gateway    Gateway
	payoutRepo repository.PayoutRepository
	log        *logger.Logger
	cfg        LifecycleConfig
	now        func() time.Time
}

// NewLifecycleUseCase construit le contrôleur.
func NewLifecycleUseCase(gateway Gateway, payoutRepo repository.PayoutRepository, log *logger.Logger, cfg LifecycleConfig) *LifecycleUseCase {
	return &LifecycleUseCase{
		gateway:    gateway,
		payoutRepo: payoutRepo,
		log:        log,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Refund rembourse un encaissement réglé par un mouvement compensatoire
// sortant. Pas de fenêtre locale : l'éligibilité temporelle est déléguée à la
// passerelle, qui peut elle-même refuser.
func (uc *LifecycleUseCase) Refund(ctx context.Context, transactionID string) (*dto.TransactionResponse, error) {
	occurrences, err := uc.gateway.FindTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if len(occurrences) == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	tx, hasCompensating := originalOf(occurrences)
	if !tx.IsInbound() || tx.IsReversal {
		return nil, domain.ErrNotRefundable
	}
	if hasCompensating {
		return nil, domain.ErrAlreadyRefunded
	}

	if err := uc.gateway.RefundTransaction(ctx, transactionID); err != nil {
		return nil, err
	}
	uc.log.Info().Str("transaction_id", transactionID).Msg("cycle de vie: remboursement émis")

	resp := toTransactionResponse(tx)
	resp.DerivedStatus = "Remboursement"
	return &resp, nil
}

// Reverse annule un paiement sortant réglé. La fenêtre locale de 72h est
// vérifiée avant tout appel de commande à la passerelle ; au-delà, rejet
// local immédiat. Les refus passerelle (solde contrepartie insuffisant,
// compte clôturé, fenêtre dépassée côté serveur…) remontent avec leur code
// d'origine.
func (uc *LifecycleUseCase) Reverse(ctx context.Context, transactionID string) (*dto.TransactionResponse, error) {
	occurrences, err := uc.gateway.FindTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if len(occurrences) == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	tx, hasCompensating := originalOf(occurrences)
	if !tx.IsOutbound() || tx.IsReversal {
		return nil, domain.ErrNotReversible
	}
	if hasCompensating {
		return nil, domain.ErrAlreadyRefunded
	}
	if tx.Age(uc.now()) > uc.cfg.ReversalWindow {
		return nil, domain.ErrReversalWindowExpired
	}

	// La tentative locale, si elle existe, porte l'ID passerelle de l'ordre ;
	// à défaut l'ID de transaction sert d'identifiant d'ordre
	gatewayID := transactionID
	payout, err := uc.payoutRepo.GetByTransactionID(transactionID)
	if err != nil {
		uc.log.Warn().Err(err).Str("transaction_id", transactionID).
			Msg("cycle de vie: lecture de la tentative locale, repli sur l'ID de transaction")
	} else if payout != nil && payout.GatewayID != "" {
		gatewayID = payout.GatewayID
	}

	if err := uc.gateway.ReversePayout(ctx, gatewayID); err != nil {
		return nil, err
	}
	uc.log.Info().Str("transaction_id", transactionID).Msg("cycle de vie: annulation émise")

	if payout != nil {
		if err := uc.payoutRepo.UpdateStatus(payout.ID, entity.PayoutStatusReversed); err != nil {
			uc.log.Error().Err(err).Str("payout_id", payout.ID).Msg("cycle de vie: mise à jour du statut de la tentative")
		}
	}

	resp := toTransactionResponse(tx)
	resp.DerivedStatus = "Annulé"
	return &resp, nil
}

// CancelPending abandonne un paiement sortant encore en vol — opération
// distincte de Reverse, qui récupère un paiement déjà réglé ; les deux ne
// sont jamais proposées en même temps pour une même transaction. Le statut
// passerelle fait foi quand il est disponible ; sinon l'heuristique d'âge
// s'applique (tentative jeune sans statut terminal = encore en traitement).
func (uc *LifecycleUseCase) CancelPending(ctx context.Context, payoutID string) (*dto.PayoutResponse, error) {
	p, err := uc.payoutRepo.GetByID(payoutID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	if res, err := uc.gateway.PayoutStatus(ctx, p.GatewayID); err == nil {
		if res.TransactionID != "" && p.TransactionID == "" {
			if errLink := uc.payoutRepo.SetTransactionID(p.ID, res.TransactionID); errLink != nil {
				uc.log.Error().Err(errLink).Str("payout_id", p.ID).Msg("cycle de vie: rattachement de la transaction")
			}
		}
		if res.Status != entity.PayoutStatusProcessing {
			if res.Status != p.Status {
				_ = uc.payoutRepo.UpdateStatus(p.ID, res.Status)
			}
			return nil, domain.ErrPayoutNotCancellable
		}
	} else {
		uc.log.Warn().Err(err).Str("payout_id", p.ID).Msg("cycle de vie: statut passerelle indisponible, heuristique d'âge")
		if p.IsTerminal() || uc.now().Sub(p.CreatedAt) >= uc.cfg.PendingWindow {
			return nil, domain.ErrPayoutNotCancellable
		}
	}

	if err := uc.gateway.CancelPayout(ctx, p.GatewayID); err != nil {
		return nil, err
	}
	if err := uc.payoutRepo.UpdateStatus(p.ID, entity.PayoutStatusCancelled); err != nil {
		return nil, err
	}
	p.Status = entity.PayoutStatusCancelled

	resp := toPayoutResponse(p)
	return &resp, nil
}

// SendPayout émet un ordre d'envoi d'argent et enregistre la tentative.
func (uc *LifecycleUseCase) SendPayout(ctx context.Context, in dto.SendPayoutRequest) (*dto.PayoutResponse, error) {
	if !in.Amount.IsPositive() || in.Mobile == "" {
		return nil, domain.ErrInvalidInput
	}

	res, err := uc.gateway.SendPayout(ctx, in.Amount, uc.cfg.Currency, in.Mobile, in.Reason)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	status := res.Status
	if status == "" {
		status = entity.PayoutStatusProcessing
	}
	p := &entity.Payout{
		ID:            uuid.New().String(),
		GatewayID:     res.GatewayID,
		Amount:        in.Amount,
		Mobile:        in.Mobile,
		Reason:        in.Reason,
		Status:        status,
		TransactionID: res.TransactionID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.payoutRepo.Create(p); err != nil {
		return nil, err
	}

	resp := toPayoutResponse(p)
	return &resp, nil
}

// Balance renvoie le solde du compte mobile money.
func (uc *LifecycleUseCase) Balance(ctx context.Context) (*dto.BalanceResponse, error) {
	b, err := uc.gateway.Balance(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{Amount: b.Amount, Currency: b.Currency}, nil
}

func toPayoutResponse(p *entity.Payout) dto.PayoutResponse {
	return dto.PayoutResponse{
		ID:            p.ID,
		GatewayID:     p.GatewayID,
		Amount:        p.Amount,
		Mobile:        p.Mobile,
		Reason:        p.Reason,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionResponse(tx *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:                 tx.ID,
		Amount:             tx.Amount,
		Fee:                tx.Fee,
		Currency:           tx.Currency,
		Timestamp:          tx.Timestamp.Format(time.RFC3339),
		CounterpartyMobile: tx.CounterpartyMobile,
		CounterpartyName:   tx.CounterpartyName,
		IsReversal:         tx.IsReversal,
	}
}
