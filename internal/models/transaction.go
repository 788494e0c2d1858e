package models

import "time"

// Transaction type values as they appear in Revolut Business exports.
const (
	TransactionTypeCardPayment = "CARD_PAYMENT"
	TransactionTypeCardRefund  = "CARD_REFUND"
	TransactionTypeExchange    = "EXCHANGE"
	TransactionTypeManual      = "MANUAL"
)

// Transaction is one parsed statement row. Fields keep the raw export
// strings: the statement is the source of truth and downstream logic
// parses amounts/dates on demand. Missing values are "" rather than null.
type Transaction struct {
	DateStarted          string `json:"dateStarted"`
	DateCompleted        string `json:"dateCompleted"`
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	State                string `json:"state"`
	Description          string `json:"description"`
	Reference            string `json:"reference"`
	Payer                string `json:"payer"`
	CardNumber           string `json:"cardNumber"`
	CardLabel            string `json:"cardLabel"`
	CardState            string `json:"cardState"`
	OrigCurrency         string `json:"origCurrency"`
	OrigAmount           string `json:"origAmount"`
	PaymentCurrency      string `json:"paymentCurrency"`
	Amount               string `json:"amount"`
	TotalAmount          string `json:"totalAmount"`
	ExchangeRate         string `json:"exchangeRate"`
	Fee                  string `json:"fee"`
	FeeCurrency          string `json:"feeCurrency"`
	Balance              string `json:"balance"`
	Account              string `json:"account"`
	BeneficiaryAccount   string `json:"beneficiaryAccount"`
	BeneficiarySortCode  string `json:"beneficiarySortCode"`
	BeneficiaryIBAN      string `json:"beneficiaryIban"`
	BeneficiaryBIC       string `json:"beneficiaryBic"`
	MCC                  string `json:"mcc"`
	RelatedTransactionID string `json:"relatedTransactionId"`
	SpendProgram         string `json:"spendProgram"`
}

var transactionDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// EffectiveDate returns the completion date, falling back to the start
// date when completion is absent. ok is false when neither parses.
func (t Transaction) EffectiveDate() (time.Time, bool) {
	if d, ok := parseTransactionDate(t.DateCompleted); ok {
		return d, true
	}
	return parseTransactionDate(t.DateStarted)
}

func parseTransactionDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range transactionDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
