package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceIsOutstanding(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		invoice Invoice
		want    bool
	}{
		{name: "sent and unpaid", invoice: Invoice{Status: InvoiceStatusSent}, want: true},
		{name: "draft", invoice: Invoice{Status: InvoiceStatusDraft}, want: false},
		{name: "paid", invoice: Invoice{Status: InvoiceStatusPaid, PaidAt: &now}, want: false},
		{name: "void", invoice: Invoice{Status: InvoiceStatusVoid}, want: false},
		{name: "sent but paid_at set", invoice: Invoice{Status: InvoiceStatusSent, PaidAt: &now}, want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.invoice.IsOutstanding(), tt.name)
	}
}

func TestInvoiceMarkPaid(t *testing.T) {
	now := time.Now()
	inv := Invoice{Status: InvoiceStatusSent}

	inv.MarkPaid(now)

	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.NotNil(t, inv.PaidAt)
	assert.Equal(t, now, *inv.PaidAt)
	assert.False(t, inv.IsOutstanding())
}
