package csvio

import (
	"strings"

	"github.com/mverdeja/footfall/internal/common"
)

// Accepted header names, matched case-insensitively against the first
// line of the file.
const (
	headerEmail    = "user email"
	headerMerchant = "merchant"
	headerDate     = "date"
	headerAmount   = "transaction amount"
)

// Schema holds the resolved column index for each required field.
// Resolution happens once per file, not per row.
type Schema struct {
	Email    int
	Merchant int
	Date     int
	Amount   int
}

// ResolveSchema maps a tokenized header line to column indices. Header
// order is free and unknown columns are ignored. If any required column
// is absent the returned *common.SchemaError names every missing one.
func ResolveSchema(header []string) (Schema, error) {
	s := Schema{Email: -1, Merchant: -1, Date: -1, Amount: -1}

	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case headerEmail:
			if s.Email == -1 {
				s.Email = i
			}
		case headerMerchant:
			if s.Merchant == -1 {
				s.Merchant = i
			}
		case headerDate:
			if s.Date == -1 {
				s.Date = i
			}
		case headerAmount:
			if s.Amount == -1 {
				s.Amount = i
			}
		}
	}

	var missing []string
	if s.Email == -1 {
		missing = append(missing, "email")
	}
	if s.Merchant == -1 {
		missing = append(missing, "merchant")
	}
	if s.Date == -1 {
		missing = append(missing, "date")
	}
	if s.Amount == -1 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return Schema{}, &common.SchemaError{Missing: missing}
	}

	return s, nil
}

// maxIndex returns the highest required column index; rows shorter than
// this cannot be normalized.
func (s Schema) maxIndex() int {
	m := s.Email
	for _, i := range []int{s.Merchant, s.Date, s.Amount} {
		if i > m {
			m = i
		}
	}
	return m
}
