package service

import (
	"encoding/csv"
	"strings"

	"invotrack/internal/models"
)

// statementColumns is the fixed Revolut Business export schema. Fields
// map positionally; the header row is recognized and skipped by name.
const statementColumns = 28

const (
	colDateStarted = iota
	colDateCompleted
	colID
	colType
	colState
	colDescription
	colReference
	colPayer
	colCardNumber
	colCardLabel
	colCardState
	colOrigCurrency
	colOrigAmount
	colPaymentCurrency
	colAmount
	colTotalAmount
	colExchangeRate
	colFee
	colFeeCurrency
	colBalance
	colAccount
	colBeneficiaryAccount
	colBeneficiarySortCode
	colBeneficiaryIBAN
	colBeneficiaryBIC
	colMCC
	colRelatedTransactionID
	colSpendProgram
)

// ParseStatementCSV turns a raw Revolut CSV export into transactions,
// one per data row, preserving file order. Parsing is lenient by policy:
// blank lines, the header row, rows that fail to parse and rows with
// fewer fields than the schema are dropped silently. Quoted fields may
// contain the delimiter and use "" for a literal quote.
func ParseStatementCSV(raw string) []models.Transaction {
	var txs []models.Transaction

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields, err := splitCSVLine(line)
		if err != nil {
			continue
		}
		if len(fields) < statementColumns {
			continue
		}
		if isHeaderRow(fields) {
			continue
		}

		txs = append(txs, models.Transaction{
			DateStarted:          fields[colDateStarted],
			DateCompleted:        fields[colDateCompleted],
			ID:                   fields[colID],
			Type:                 fields[colType],
			State:                fields[colState],
			Description:          fields[colDescription],
			Reference:            fields[colReference],
			Payer:                fields[colPayer],
			CardNumber:           fields[colCardNumber],
			CardLabel:            fields[colCardLabel],
			CardState:            fields[colCardState],
			OrigCurrency:         fields[colOrigCurrency],
			OrigAmount:           fields[colOrigAmount],
			PaymentCurrency:      fields[colPaymentCurrency],
			Amount:               fields[colAmount],
			TotalAmount:          fields[colTotalAmount],
			ExchangeRate:         fields[colExchangeRate],
			Fee:                  fields[colFee],
			FeeCurrency:          fields[colFeeCurrency],
			Balance:              fields[colBalance],
			Account:              fields[colAccount],
			BeneficiaryAccount:   fields[colBeneficiaryAccount],
			BeneficiarySortCode:  fields[colBeneficiarySortCode],
			BeneficiaryIBAN:      fields[colBeneficiaryIBAN],
			BeneficiaryBIC:       fields[colBeneficiaryBIC],
			MCC:                  fields[colMCC],
			RelatedTransactionID: fields[colRelatedTransactionID],
			SpendProgram:         fields[colSpendProgram],
		})
	}

	return txs
}

// splitCSVLine parses one statement line. The export is line-oriented,
// so each line is fed through its own csv reader; quoted fields never
// span lines.
func splitCSVLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	return r.Read()
}

func isHeaderRow(fields []string) bool {
	return strings.EqualFold(strings.TrimSpace(fields[colDateStarted]), "Date started (UTC)") ||
		strings.EqualFold(strings.TrimSpace(fields[colID]), "ID")
}
