package entity

import "time"

// Client représente un client du freelance. Lecture seule pour le moteur de
// réconciliation : sert aux photographies client et au rapprochement par
// numéro mobile.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string // Numéro mobile money, format libre (avec ou sans +225)
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
