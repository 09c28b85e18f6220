package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		tx      Transaction
		wantErr bool
	}{
		{"valid", Transaction{Amount: 100, Currency: "USD", Date: "2024-01-15"}, false},
		{"valid with category", Transaction{Amount: 5, Currency: "EUR", Date: "2024-02-29", Category: &Category{Name: "food"}}, false},
		{"day first", Transaction{Amount: 100, Date: "15-01-2024"}, true},
		{"not a date", Transaction{Amount: 100, Date: "2024-13-01"}, true},
		{"empty date", Transaction{Amount: 100}, true},
		{"nan amount", Transaction{Amount: math.NaN(), Date: "2024-01-15"}, true},
		{"unnamed category", Transaction{Amount: 1, Currency: "USD", Date: "2024-01-15", Category: &Category{}}, true},
		{"zero amount", Transaction{Currency: "USD", Date: "2024-01-15"}, false},
		{"missing currency", Transaction{Amount: 100, Date: "2024-01-15"}, true},
		{"blank currency", Transaction{Amount: 100, Currency: "  ", Date: "2024-01-15"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"complete", `{"amount": 100, "currency": "USD", "date": "2024-01-15"}`, ""},
		{"zero amount", `{"amount": 0, "currency": "USD", "date": "2024-01-15"}`, ""},
		{"missing amount", `{"currency": "USD", "date": "2024-01-01"}`, "amount is required"},
		{"missing currency", `{"amount": 100, "date": "2024-01-01"}`, "currency is required"},
		{"missing date", `{"amount": 100, "currency": "USD"}`, "incorrect date format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in TransactionInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))

			tx, err := in.Transaction()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "USD", tx.Currency)
			assert.Equal(t, "2024-01-15", tx.Date)
		})
	}
}

func TestKind(t *testing.T) {
	assert.True(t, KindIncome.Valid())
	assert.True(t, KindSpending.Valid())
	assert.False(t, Kind("savings").Valid())
	assert.Equal(t, "Spending", KindSpending.Label())
}
