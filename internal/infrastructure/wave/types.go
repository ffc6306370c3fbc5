package wave

// Représentations filaires de l'API Wave. Les montants sont des chaînes
// décimales côté API, parsées en decimal.Decimal à la frontière.

type balanceResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type pageInfo struct {
	StartCursor string `json:"start_cursor"`
	EndCursor   string `json:"end_cursor"`
	HasNextPage bool   `json:"has_next_page"`
}

type transactionItem struct {
	TransactionID      string `json:"transaction_id"`
	Amount             string `json:"amount"`
	Fee                string `json:"fee"`
	Currency           string `json:"currency"`
	Timestamp          string `json:"timestamp"` // RFC 3339
	CounterpartyName   string `json:"counterparty_name"`
	CounterpartyMobile string `json:"counterparty_mobile"`
	IsReversal         bool   `json:"is_reversal"`
}

type transactionsResponse struct {
	Date     string            `json:"date"`
	Items    []transactionItem `json:"items"`
	PageInfo pageInfo          `json:"page_info"`
}

type payoutRequest struct {
	Currency        string `json:"currency"`
	ReceiveAmount   string `json:"receive_amount"`
	Mobile          string `json:"mobile"`
	ClientReference string `json:"client_reference,omitempty"`
	PaymentReason   string `json:"payment_reason,omitempty"`
}

type payoutResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"` // vide tant que l'ordre n'est pas exécuté
}

type checkoutRequest struct {
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	SuccessURL      string `json:"success_url"`
	ErrorURL        string `json:"error_url"`
	ClientReference string `json:"client_reference,omitempty"`
}

type checkoutResponse struct {
	ID            string `json:"id"`
	WaveLaunchURL string `json:"wave_launch_url"`
}

type apiError struct {
	Code    string `json:"error_code"`
	Message string `json:"error_message"`
}
