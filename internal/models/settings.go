package models

// FilterPolicy configures which transactions need a supporting invoice.
// Each option is an independent exclusion; evaluation order never changes
// the result.
type FilterPolicy struct {
	AllowedTransactionTypes []string `json:"allowedTransactionTypes"`
	HidePositiveAmounts     bool     `json:"hidePositiveAmounts"`
	HideExchangeRows        bool     `json:"hideExchangeRows"`
	HideRevolutBusinessFee  bool     `json:"hideRevolutBusinessFee"`
}

// DefaultFilterPolicy mirrors the policy shipped to new users.
func DefaultFilterPolicy() FilterPolicy {
	return FilterPolicy{
		AllowedTransactionTypes: []string{TransactionTypeCardPayment, TransactionTypeManual},
		HidePositiveAmounts:     true,
		HideExchangeRows:        true,
		HideRevolutBusinessFee:  true,
	}
}
