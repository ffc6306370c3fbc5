package wave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/koffiyao/freelance-api/internal/application/billing"
	"github.com/koffiyao/freelance-api/internal/application/reconcile"
	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/pkg/config"
	"github.com/koffiyao/freelance-api/pkg/logger"
)

var (
	_ reconcile.Gateway          = (*Client)(nil)
	_ billing.PaymentLinkCreator = (*Client)(nil)
)

// Nombre de jours balayés en arrière lors d'une recherche par ID. Couvre
// largement la fenêtre d'annulation de 72 h.
const findTransactionDays = 7

// Client client HTTP de l'API Wave. Toutes les méthodes sont sûres pour un
// usage concurrent ; le http.Client sous-jacent porte le timeout.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

// NewClient construit le client à partir de la configuration Wave.
func NewClient(cfg config.WaveConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

// Balance lit le solde du compte.
func (c *Client) Balance(ctx context.Context) (*reconcile.Balance, error) {
	var resp balanceResponse
	if err := c.do(ctx, http.MethodGet, "/v1/balance", nil, &resp); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(resp.Amount)
	if err != nil {
		return nil, fmt.Errorf("montant de solde invalide %q: %w", resp.Amount, err)
	}
	return &reconcile.Balance{Amount: amount, Currency: resp.Currency}, nil
}

// ListTransactions liste les transactions d'une journée, paginées par curseur.
func (c *Client) ListTransactions(ctx context.Context, date time.Time, cursor string) (*reconcile.TransactionPage, error) {
	q := url.Values{}
	q.Set("date", date.Format("2006-01-02"))
	if cursor != "" {
		q.Set("after", cursor)
	}
	var resp transactionsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/transactions?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	page := &reconcile.TransactionPage{Date: date}
	if resp.PageInfo.HasNextPage {
		page.NextCursor = resp.PageInfo.EndCursor
	}
	for _, item := range resp.Items {
		tx, err := item.toEntity()
		if err != nil {
			c.log.Error().Err(err).Msg("transaction Wave illisible, ignorée")
			continue
		}
		page.Items = append(page.Items, tx)
	}
	return page, nil
}

// FindTransaction relit une transaction par ID en balayant les journées
// récentes. Renvoie toutes les occurrences portant cet ID (la ligne d'origine
// et son éventuelle ligne compensatoire partagent le même ID côté Wave). Le
// balayage couvre toute la fenêtre même après une première trouvaille : les
// deux lignes tombent généralement sur des journées différentes.
// Renvoie une liste vide, sans erreur, si rien n'est trouvé dans la fenêtre.
func (c *Client) FindTransaction(ctx context.Context, id string) ([]*entity.Transaction, error) {
	var occurrences []*entity.Transaction
	day := time.Now().UTC()
	for i := 0; i < findTransactionDays; i++ {
		cursor := ""
		for {
			page, err := c.ListTransactions(ctx, day, cursor)
			if err != nil {
				return nil, err
			}
			for _, tx := range page.Items {
				if tx.ID == id {
					occurrences = append(occurrences, tx)
				}
			}
			if page.NextCursor == "" {
				break
			}
			cursor = page.NextCursor
		}
		day = day.AddDate(0, 0, -1)
	}
	return occurrences, nil
}

// SendPayout passe un ordre d'envoi d'argent.
func (c *Client) SendPayout(ctx context.Context, amount decimal.Decimal, currency, mobile, reason string) (*reconcile.PayoutResult, error) {
	req := payoutRequest{
		Currency:      currency,
		ReceiveAmount: amount.String(),
		Mobile:        mobile,
		PaymentReason: reason,
	}
	var resp payoutResponse
	if err := c.do(ctx, http.MethodPost, "/v1/payout", req, &resp); err != nil {
		return nil, err
	}
	return &reconcile.PayoutResult{GatewayID: resp.ID, TransactionID: resp.TransactionID, Status: resp.Status}, nil
}

// PayoutStatus lit l'état courant d'un ordre d'envoi, ID de transaction
// compris une fois l'ordre exécuté.
func (c *Client) PayoutStatus(ctx context.Context, gatewayID string) (*reconcile.PayoutResult, error) {
	var resp payoutResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payout/"+url.PathEscape(gatewayID), nil, &resp); err != nil {
		return nil, err
	}
	return &reconcile.PayoutResult{GatewayID: resp.ID, TransactionID: resp.TransactionID, Status: resp.Status}, nil
}

// ReversePayout demande l'annulation d'un paiement réglé. Wave applique ses
// propres règles d'éligibilité et peut refuser.
func (c *Client) ReversePayout(ctx context.Context, gatewayID string) error {
	return c.do(ctx, http.MethodPost, "/v1/payout/"+url.PathEscape(gatewayID)+"/reverse", nil, nil)
}

// CancelPayout interrompt un ordre encore en traitement.
func (c *Client) CancelPayout(ctx context.Context, gatewayID string) error {
	return c.do(ctx, http.MethodPost, "/v1/payout/"+url.PathEscape(gatewayID)+"/cancel", nil, nil)
}

// RefundTransaction rembourse un encaissement.
func (c *Client) RefundTransaction(ctx context.Context, transactionID string) error {
	return c.do(ctx, http.MethodPost, "/v1/transactions/"+url.PathEscape(transactionID)+"/refund", nil, nil)
}

// CreateCheckoutSession crée un lien de paiement pour une facture.
func (c *Client) CreateCheckoutSession(ctx context.Context, p billing.CheckoutParams) (*billing.CheckoutSession, error) {
	req := checkoutRequest{
		Amount:          p.Amount.String(),
		Currency:        p.Currency,
		SuccessURL:      p.SuccessURL,
		ErrorURL:        p.ErrorURL,
		ClientReference: p.Reference,
	}
	var resp checkoutResponse
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", req, &resp); err != nil {
		return nil, err
	}
	return &billing.CheckoutSession{ID: resp.ID, LaunchURL: resp.WaveLaunchURL}, nil
}

// do exécute un appel API et décode la réponse. Toute réponse non 2xx est
// convertie en *domain.GatewayError, code Wave d'origine préservé.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encodage requête Wave: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("construction requête Wave: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewGatewayError("network_error", err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("lecture réponse Wave: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Code != "" {
			return domain.NewGatewayError(apiErr.Code, apiErr.Message)
		}
		return domain.NewGatewayError(fmt.Sprintf("http_%d", resp.StatusCode), string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("décodage réponse Wave: %w", err)
		}
	}
	return nil
}

func (i transactionItem) toEntity() (*entity.Transaction, error) {
	amount, err := decimal.NewFromString(i.Amount)
	if err != nil {
		return nil, fmt.Errorf("montant invalide %q (tx %s)", i.Amount, i.TransactionID)
	}
	fee := decimal.Zero
	if i.Fee != "" {
		fee, err = decimal.NewFromString(i.Fee)
		if err != nil {
			return nil, fmt.Errorf("frais invalides %q (tx %s)", i.Fee, i.TransactionID)
		}
	}
	ts, err := time.Parse(time.RFC3339, i.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("horodatage invalide %q (tx %s)", i.Timestamp, i.TransactionID)
	}
	return &entity.Transaction{
		ID:                 i.TransactionID,
		Amount:             amount,
		Fee:                fee,
		Currency:           i.Currency,
		Timestamp:          ts,
		CounterpartyMobile: i.CounterpartyMobile,
		CounterpartyName:   i.CounterpartyName,
		IsReversal:         i.IsReversal,
	}, nil
}
