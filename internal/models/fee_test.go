package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveInvoiceStatus(t *testing.T) {
	total := decimal.NewFromInt(1000)
	cases := []struct {
		paid string
		want InvoiceStatus
	}{
		{"0", InvoiceStatusUnpaid},
		{"0.01", InvoiceStatusPartial},
		{"400", InvoiceStatusPartial},
		{"999.99", InvoiceStatusPartial},
		{"1000", InvoiceStatusPaid},
		{"1200", InvoiceStatusPaid},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveInvoiceStatus(decimal.RequireFromString(tc.paid), total), tc.paid)
	}
}

func TestDeriveInvoiceStatusZeroTotal(t *testing.T) {
	assert.Equal(t, InvoiceStatusPaid, DeriveInvoiceStatus(decimal.Zero, decimal.Zero))
}

func TestFeeStructureTotalAndBalance(t *testing.T) {
	fs := FeeStructure{TuitionFee: decimal.NewFromInt(900), RegistrationFee: decimal.NewFromInt(100)}
	assert.True(t, fs.Total().Equal(decimal.NewFromInt(1000)))

	inv := Invoice{TotalAmount: fs.Total(), PaidAmount: decimal.NewFromInt(400)}
	assert.True(t, inv.Balance().Equal(decimal.NewFromInt(600)))
}
