package dto

// ErrorResponse corps d'erreur HTTP. Pour une erreur passerelle, Code vaut
// GATEWAY et GatewayCode porte le code d'origine, jamais réécrit.
type ErrorResponse struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	GatewayCode string `json:"gateway_code,omitempty"`
}

// Warning avertissement non bloquant attaché à un résultat principal réussi
// (ex. facture créée mais lien de paiement indisponible).
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
