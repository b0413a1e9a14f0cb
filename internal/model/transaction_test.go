package model

import (
	"testing"
	"time"
)

func TestTransaction_GenerateHash(t *testing.T) {
	base := Transaction{
		Date:     time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
		Email:    "a@x.com",
		Merchant: "Store-NY",
		Amount:   10.00,
	}

	tests := []struct {
		name     string
		mutate   func(Transaction) Transaction
		wantSame bool
	}{
		{
			name:     "identical transactions share a hash",
			mutate:   func(tx Transaction) Transaction { return tx },
			wantSame: true,
		},
		{
			name: "different amount",
			mutate: func(tx Transaction) Transaction {
				tx.Amount = 11.00
				return tx
			},
			wantSame: false,
		},
		{
			name: "different merchant",
			mutate: func(tx Transaction) Transaction {
				tx.Merchant = "Store-LA"
				return tx
			},
			wantSame: false,
		},
		{
			name: "different email",
			mutate: func(tx Transaction) Transaction {
				tx.Email = "b@x.com"
				return tx
			},
			wantSame: false,
		},
		{
			name: "ID does not affect the hash",
			mutate: func(tx Transaction) Transaction {
				tx.ID = "other"
				return tx
			},
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := tt.mutate(base)
			if same := base.GenerateHash() == other.GenerateHash(); same != tt.wantSame {
				t.Errorf("hash equality = %v, want %v", same, tt.wantSame)
			}
		})
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"alice@x.com", "a***e@x.com"},
		{"ab@x.com", "**@x.com"},
		{"", ""},
		{"not-an-email", "not-an-email"},
	}
	for _, tt := range tests {
		if got := MaskEmail(tt.email); got != tt.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestMaskMerchant(t *testing.T) {
	if got := MaskMerchant("Storefront-NY"); got != "******-NY" {
		t.Errorf("MaskMerchant = %q", got)
	}
	if got := MaskMerchant("Shop"); got != "****" {
		t.Errorf("MaskMerchant without location = %q", got)
	}
}
