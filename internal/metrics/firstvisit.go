// Package metrics derives monthly user-engagement metrics from
// transaction records.
package metrics

import (
	"time"

	"github.com/mverdeja/footfall/internal/model"
)

type businessKey struct {
	email    string
	business string
}

// FirstVisitIndex records each user's earliest transaction date globally
// and per (user, business) pair. It must be built from the complete,
// unfiltered dataset so first-visit reflects true history regardless of
// the active view, and it is rebuilt wholesale on every reload.
type FirstVisitIndex struct {
	global   map[string]time.Time
	business map[businessKey]time.Time
}

// BuildFirstVisitIndex scans the full transaction set once, keeping the
// minimum date seen for each key.
func BuildFirstVisitIndex(transactions []model.Transaction) *FirstVisitIndex {
	idx := &FirstVisitIndex{
		global:   make(map[string]time.Time),
		business: make(map[businessKey]time.Time),
	}

	for _, tx := range transactions {
		if first, ok := idx.global[tx.Email]; !ok || tx.Date.Before(first) {
			idx.global[tx.Email] = tx.Date
		}

		key := businessKey{email: tx.Email, business: model.DecomposeMerchant(tx.Merchant).Business}
		if first, ok := idx.business[key]; !ok || tx.Date.Before(first) {
			idx.business[key] = tx.Date
		}
	}

	return idx
}

// Global returns the user's earliest transaction date across all
// businesses.
func (idx *FirstVisitIndex) Global(email string) (time.Time, bool) {
	t, ok := idx.global[email]
	return t, ok
}

// Business returns the user's earliest transaction date at one business.
func (idx *FirstVisitIndex) Business(email, business string) (time.Time, bool) {
	t, ok := idx.business[businessKey{email: email, business: business}]
	return t, ok
}

// Users returns how many distinct users the index has seen.
func (idx *FirstVisitIndex) Users() int {
	return len(idx.global)
}
