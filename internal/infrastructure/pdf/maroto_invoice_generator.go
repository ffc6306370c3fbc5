// Package pdf implémente la représentation PDF d'une facture (ou d'un
// proforma) destinée au client final.
//
// Mise en page A4 :
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  EN-TÊTE : Émetteur            │  N° Facture + Date          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENT : photographie figée à la création du document      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLEAU : Qté | Désignation | P. Unitaire | Total          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL À PAYER (XOF)                                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIED : lien de paiement Wave + QR                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/koffiyao/freelance-api/internal/application/billing"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 105, Blue: 92}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Issuer coordonnées de l'émetteur (le freelance), imprimées sur chaque
// document.
type Issuer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// MarotoInvoiceGenerator implémente billing.InvoicePDFGenerator avec Maroto v2.
type MarotoInvoiceGenerator struct {
	issuer Issuer
}

var _ billing.InvoicePDFGenerator = (*MarotoInvoiceGenerator)(nil)

// NewMarotoInvoiceGenerator construit le générateur.
func NewMarotoInvoiceGenerator(issuer Issuer) *MarotoInvoiceGenerator {
	return &MarotoInvoiceGenerator{issuer: issuer}
}

// GenerateInvoicePDF génère le PDF et renvoie ses octets.
func (g *MarotoInvoiceGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	items []*entity.InvoiceItem,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(documentTitle(invoice)+" "+invoice.Number, true).
		WithAuthor(g.issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.issuerRow())
	m.AddRows(clientRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(invoice))

	m.AddRows(line.NewRow(3))
	for _, r := range paymentFooterRows(invoice) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: génération du document: %w", err)
	}
	return doc.GetBytes(), nil
}

func documentTitle(invoice *entity.Invoice) string {
	if invoice.IsQuote() {
		return "FACTURE PROFORMA"
	}
	return "FACTURE"
}

// headerRow : émetteur (gauche), numéro + date (droite).
func (g *MarotoInvoiceGenerator) headerRow(invoice *entity.Invoice) core.Row {
	date := invoice.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.issuer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(documentTitle(invoice), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3,
			}),
			text.New("Date : "+date, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// issuerRow : coordonnées de l'émetteur.
func (g *MarotoInvoiceGenerator) issuerRow() core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ÉMETTEUR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Adresse : %s   |   Tél : %s   |   E-mail : %s",
				nonEmpty(g.issuer.Address, "—"),
				nonEmpty(g.issuer.Phone, "—"),
				nonEmpty(g.issuer.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// clientRow : photographie client portée par le document lui-même.
func clientRow(invoice *entity.Invoice) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(invoice.ClientName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("E-mail : %s   |   Tél : %s   |   Adresse : %s",
				nonEmpty(invoice.ClientEmail, "—"),
				nonEmpty(invoice.ClientPhone, "—"),
				nonEmpty(invoice.ClientAddress, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow : en-tête du tableau des lignes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qté", 1, align.Center),
		h("Désignation", 6, align.Left),
		h("P. unitaire", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

// tableItemRows : une ligne par prestation.
func tableItemRows(items []*entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		label := it.Name
		if it.Description != "" {
			label += " — " + it.Description
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				label,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.UnitPrice.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				formatMoney(it.Total.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow : total à payer, aligné à droite.
func totalRow(invoice *entity.Invoice) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(
			text.New("TOTAL À PAYER :", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 3, Right: 2,
			}),
		),
		col.New(3).Add(
			text.New(formatMoney(invoice.Amount.StringFixed(0))+" FCFA", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 3, Right: 1,
			}),
		),
	)
}

// paymentFooterRows : lien de paiement Wave avec QR si disponible.
func paymentFooterRows(invoice *entity.Invoice) []core.Row {
	if invoice.PaymentLink == "" {
		return []core.Row{
			row.New(8).Add(col.New(12).Add(
				text.New("Règlement par Wave, virement ou espèces. Merci de votre confiance.",
					props.Text{Size: 8, Color: colorGray, Top: 2}),
			)),
		}
	}
	return []core.Row{
		row.New(40).Add(
			col.New(4).Add(code.NewQr(invoice.PaymentLink, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Scannez le code QR pour régler\ncette facture avec Wave.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New(invoice.PaymentLink, props.Text{
					Size: 7, Top: 20, Left: 3, Color: colorPrimary,
				}),
			),
		),
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney insère des espaces de milliers dans une chaîne numérique sans
// décimales. Ex : "25000" → "25 000".
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
