// Package mail envoie les notifications e-mail via SendGrid. Un échec
// d'envoi n'est jamais bloquant pour l'état financier : l'appelant le
// convertit en avertissement.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	smail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/koffiyao/freelance-api/internal/application/billing"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/pkg/config"
	"github.com/koffiyao/freelance-api/pkg/logger"
)

var _ billing.InvoiceNotifier = (*SendGridNotifier)(nil)

// SendGridNotifier implémente billing.InvoiceNotifier. Clé API vide = envoi
// désactivé (environnements de développement).
type SendGridNotifier struct {
	client *sendgrid.Client
	from   *smail.Email
	log    *logger.Logger
}

// NewSendGridNotifier construit le notificateur. Renvoie un notificateur
// inactif si la clé est vide.
func NewSendGridNotifier(cfg config.MailConfig, log *logger.Logger) *SendGridNotifier {
	n := &SendGridNotifier{
		from: smail.NewEmail(cfg.FromName, cfg.FromEmail),
		log:  log,
	}
	if cfg.SendGridKey != "" {
		n.client = sendgrid.NewSendClient(cfg.SendGridKey)
	}
	return n
}

// SendInvoiceCreated notifie le client qu'une facture a été émise, avec le
// lien de paiement si disponible.
func (n *SendGridNotifier) SendInvoiceCreated(_ context.Context, invoice *entity.Invoice, items []*entity.InvoiceItem) error {
	if n.client == nil {
		n.log.Debug().Str("invoice", invoice.Number).Msg("mail: envoi désactivé, notification ignorée")
		return nil
	}
	if invoice.ClientEmail == "" {
		n.log.Debug().Str("invoice", invoice.Number).Msg("mail: client sans e-mail, notification ignorée")
		return nil
	}

	to := smail.NewEmail(invoice.ClientName, invoice.ClientEmail)
	subject := fmt.Sprintf("Facture %s — %s FCFA", invoice.Number, invoice.Amount.StringFixed(0))
	message := smail.NewSingleEmail(n.from, subject, to, invoiceText(invoice, items), invoiceHTML(invoice, items))

	resp, err := n.client.Send(message)
	if err != nil {
		return fmt.Errorf("mail: envoi de la notification: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail: SendGrid a répondu %d: %s", resp.StatusCode, resp.Body)
	}
	n.log.Info().Str("invoice", invoice.Number).Str("to", invoice.ClientEmail).Msg("mail: notification de facture envoyée")
	return nil
}

func invoiceText(invoice *entity.Invoice, items []*entity.InvoiceItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour %s,\n\n", invoice.ClientName)
	fmt.Fprintf(&b, "Votre facture %s d'un montant de %s FCFA a été émise.\n\n", invoice.Number, invoice.Amount.StringFixed(0))
	for _, it := range items {
		fmt.Fprintf(&b, "  - %s x%s : %s FCFA\n", it.Name, it.Quantity.String(), it.Total.StringFixed(0))
	}
	if invoice.DueDate != nil {
		fmt.Fprintf(&b, "\nÉchéance : %s\n", invoice.DueDate.Format("02/01/2006"))
	}
	if invoice.PaymentLink != "" {
		fmt.Fprintf(&b, "\nPayer avec Wave : %s\n", invoice.PaymentLink)
	}
	b.WriteString("\nMerci de votre confiance.\n")
	return b.String()
}

func invoiceHTML(invoice *entity.Invoice, items []*entity.InvoiceItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Bonjour %s,</p>", invoice.ClientName)
	fmt.Fprintf(&b, "<p>Votre facture <strong>%s</strong> d'un montant de <strong>%s FCFA</strong> a été émise.</p>", invoice.Number, invoice.Amount.StringFixed(0))
	b.WriteString("<ul>")
	for _, it := range items {
		fmt.Fprintf(&b, "<li>%s x%s : %s FCFA</li>", it.Name, it.Quantity.String(), it.Total.StringFixed(0))
	}
	b.WriteString("</ul>")
	if invoice.DueDate != nil {
		fmt.Fprintf(&b, "<p>Échéance : %s</p>", invoice.DueDate.Format("02/01/2006"))
	}
	if invoice.PaymentLink != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Payer avec Wave</a></p>`, invoice.PaymentLink)
	}
	b.WriteString("<p>Merci de votre confiance.</p>")
	return b.String()
}
