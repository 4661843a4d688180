package paymentgateway

// SessionRequest содержит параметры создания платёжной сессии.
// Поля покупателя обязательны для шлюза даже при пожертвовании,
// поэтому отсутствующие значения заполняются заглушками.
type SessionRequest struct {
	TranID        string
	Amount        float64
	Currency      string
	SuccessURL    string
	FailURL       string
	CancelURL     string
	CustomerName  string
	CustomerEmail string
}

// SessionResponse представляет ответ шлюза на создание сессии.
type SessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// ValidationResponse представляет ответ шлюза на проверку транзакции
// по обратному вызову.
type ValidationResponse struct {
	Status   string `json:"status"`
	TranID   string `json:"tran_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}
