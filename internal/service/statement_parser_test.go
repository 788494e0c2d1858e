package service

import (
	"os"
	"testing"

	"invotrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatementCSV(t *testing.T) {
	data, err := os.ReadFile("testdata/revolut_statement.csv")
	require.NoError(t, err)

	txs := ParseStatementCSV(string(data))
	require.Len(t, txs, 3)

	// Header, the short row and the blank line are dropped; file order
	// is preserved for the rest.
	assert.Equal(t, "tx-001", txs[0].ID)
	assert.Equal(t, "tx-002", txs[1].ID)
	assert.Equal(t, "tx-003", txs[2].ID)

	first := txs[0]
	assert.Equal(t, models.TransactionTypeCardPayment, first.Type)
	assert.Equal(t, "Acme, Inc.", first.Description)
	assert.Equal(t, "-120.50", first.Amount)
	assert.Equal(t, "EUR", first.OrigCurrency)
	assert.Equal(t, "5734", first.MCC)
	assert.Equal(t, "2025-03-04 01:02:11", first.DateCompleted)

	refund := txs[1]
	assert.Equal(t, models.TransactionTypeCardRefund, refund.Type)
	assert.Equal(t, "35.00", refund.OrigAmount)
	assert.Equal(t, "tx-relate", refund.RelatedTransactionID)
}

func TestParseStatementCSV_Empty(t *testing.T) {
	assert.Empty(t, ParseStatementCSV(""))
	assert.Empty(t, ParseStatementCSV("\n\n  \n"))
}

func TestParseStatementCSV_HeaderOnly(t *testing.T) {
	header := "Date started (UTC),Date completed (UTC),ID,Type,State,Description,Reference,Payer,Card number,Card label,Card state,Orig currency,Orig amount,Payment currency,Amount,Total amount,Exchange rate,Fee,Fee currency,Balance,Account,Beneficiary account number,Beneficiary sort code or routing number,Beneficiary IBAN,Beneficiary BIC,MCC,Related transaction id,Spend program"
	assert.Empty(t, ParseStatementCSV(header+"\n"))
}

func TestParseStatementCSV_CRLF(t *testing.T) {
	row := "2025-03-03 09:15:44,2025-03-04 01:02:11,tx-crlf,CARD_PAYMENT,COMPLETED,Shop,,,,,,EUR,-5.00,EUR,-5.00,-5.00,1.0,0,EUR,100.00,Main,,,,,5734,,"
	txs := ParseStatementCSV(row + "\r\n")
	require.Len(t, txs, 1)
	assert.Equal(t, "tx-crlf", txs[0].ID)
	assert.Equal(t, "", txs[0].SpendProgram)
}

func TestParseStatementCSV_DropsMalformedQuoting(t *testing.T) {
	// A stray quote makes the line unparseable; the row is skipped, not
	// the whole file.
	bad := `2025-03-03 09:15:44,x,tx-bad,CARD_PAYMENT,COMPLETED,"broken,,,,,,EUR,-5.00,EUR,-5.00,-5.00,1.0,0,EUR,100.00,Main,,,,,5734,,`
	good := "2025-03-04 09:15:44,2025-03-04 09:15:45,tx-good,CARD_PAYMENT,COMPLETED,Shop,,,,,,EUR,-5.00,EUR,-5.00,-5.00,1.0,0,EUR,95.00,Main,,,,,5734,,"

	txs := ParseStatementCSV(bad + "\n" + good + "\n")
	require.Len(t, txs, 1)
	assert.Equal(t, "tx-good", txs[0].ID)
}

func TestParseStatementCSV_ExtraColumnsKept(t *testing.T) {
	row := "2025-03-03 09:15:44,2025-03-04 01:02:11,tx-extra,CARD_PAYMENT,COMPLETED,Shop,,,,,,EUR,-5.00,EUR,-5.00,-5.00,1.0,0,EUR,100.00,Main,,,,,5734,,,future-col"
	txs := ParseStatementCSV(row)
	require.Len(t, txs, 1)
	// Columns beyond the known schema are ignored.
	assert.Equal(t, "tx-extra", txs[0].ID)
}
