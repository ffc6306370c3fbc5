package entity

import "github.com/shopspring/decimal"

// InvoiceItem représente une ligne d'un document de facturation.
// Sur un proforma, la ligne est une prestation (quantité d'origine) ;
// sur une facture issue d'une conversion, SourceServiceLineID pointe vers la
// ligne du proforma consommée. Quantité, prix unitaire et total sont figés à
// la création et ne sont jamais recalculés depuis la ligne source.
type InvoiceItem struct {
	ID                  string
	InvoiceID           string
	SourceServiceLineID string // Vide sauf pour les lignes issues d'une conversion
	Name                string
	Description         string
	Quantity            decimal.Decimal
	UnitPrice           decimal.Decimal
	Unit                string // Libellé d'unité : jour, heure, forfait…
	Total               decimal.Decimal
}
