package repository

import "github.com/koffiyao/freelance-api/internal/domain/entity"

// PayoutRepository tentatives de paiement sortant.
type PayoutRepository interface {
	Create(p *entity.Payout) error
	GetByID(id string) (*entity.Payout, error)
	GetByGatewayID(gatewayID string) (*entity.Payout, error)
	GetByTransactionID(transactionID string) (*entity.Payout, error)

	// ListUnlinked renvoie les tentatives pas encore rattachées à leur
	// transaction de relevé et susceptibles de l'être (un ordre échoué ou
	// abandonné n'a jamais produit de transaction).
	ListUnlinked() ([]*entity.Payout, error)

	UpdateStatus(id, status string) error
	SetTransactionID(id, transactionID string) error
}
