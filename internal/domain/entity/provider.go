package entity

import "time"

// Provider représente un prestataire / fournisseur payé par le freelance.
// Comme Client, lecture seule côté moteur ; candidat possible lors du
// rapprochement d'une transaction sortante.
type Provider struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Service   string // Nature de la prestation fournie
	CreatedAt time.Time
	UpdatedAt time.Time
}
