package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Transaction represents a single purchase event parsed from a CSV feed.
type Transaction struct {
	Date     time.Time
	ID       string
	Email    string // user identity, treated as an opaque key
	Merchant string // raw "business-location" label
	Amount   float64
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02 15:04:05"),
		t.Amount,
		t.Merchant,
		t.Email)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// MaskEmail obscures the local part of an email address for log output.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	if len(local) <= 2 {
		return strings.Repeat("*", len(local)) + "@" + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + "@" + domain
}

// MaskMerchant obscures the business part of a merchant label while
// keeping the location segment readable.
func MaskMerchant(merchant string) string {
	if merchant == "" {
		return ""
	}
	key := DecomposeMerchant(merchant)
	if key.Location == LocationUnknown {
		return strings.Repeat("*", max(len(merchant)-4, 4))
	}
	return strings.Repeat("*", max(len(key.Business)-4, 4)) + "-" + key.Location
}
