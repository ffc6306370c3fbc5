package entity

import "time"

// Project représente un projet rattaché à un client. Les proformas
// appartiennent à un projet ; le client du projet fournit la photographie
// par défaut lors d'une conversion.
type Project struct {
	ID        string
	ClientID  string
	Name      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
