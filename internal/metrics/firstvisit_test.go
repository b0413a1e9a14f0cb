package metrics

import (
	"testing"
	"time"

	"github.com/mverdeja/footfall/internal/model"
)

func tx(email, merchant string, date time.Time, amount float64) model.Transaction {
	return model.Transaction{Email: email, Merchant: merchant, Date: date, Amount: amount}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestBuildFirstVisitIndex(t *testing.T) {
	transactions := []model.Transaction{
		tx("a@x.com", "Store-NY", day(2024, 3, 10), 10),
		tx("a@x.com", "Store-NY", day(2024, 1, 5), 10),
		tx("a@x.com", "Cafe-LA", day(2024, 2, 1), 5),
		tx("b@x.com", "Cafe-LA", day(2024, 2, 20), 7),
	}

	idx := BuildFirstVisitIndex(transactions)

	global, ok := idx.Global("a@x.com")
	if !ok || !global.Equal(day(2024, 1, 5)) {
		t.Errorf("Global(a) = %v, %v; want 2024-01-05", global, ok)
	}

	store, ok := idx.Business("a@x.com", "Store")
	if !ok || !store.Equal(day(2024, 1, 5)) {
		t.Errorf("Business(a, Store) = %v, %v", store, ok)
	}

	cafe, ok := idx.Business("a@x.com", "Cafe")
	if !ok || !cafe.Equal(day(2024, 2, 1)) {
		t.Errorf("Business(a, Cafe) = %v, %v", cafe, ok)
	}

	if _, ok := idx.Business("b@x.com", "Store"); ok {
		t.Error("Business(b, Store) should be absent")
	}
	if idx.Users() != 2 {
		t.Errorf("Users() = %d, want 2", idx.Users())
	}
}

func TestBuildFirstVisitIndex_Monotonicity(t *testing.T) {
	// Whatever the input order, the global first visit is never later
	// than any transaction date for that user.
	transactions := []model.Transaction{
		tx("a@x.com", "Store-NY", day(2024, 6, 1), 1),
		tx("a@x.com", "Cafe-LA", day(2024, 2, 14), 1),
		tx("a@x.com", "Store-NY", day(2023, 12, 31), 1),
		tx("a@x.com", "Bar-SF", day(2024, 4, 4), 1),
	}

	idx := BuildFirstVisitIndex(transactions)
	first, ok := idx.Global("a@x.com")
	if !ok {
		t.Fatal("no global entry")
	}
	for _, txn := range transactions {
		if first.After(txn.Date) {
			t.Errorf("first visit %v is after transaction %v", first, txn.Date)
		}
	}
}

func TestFirstVisitIndex_Empty(t *testing.T) {
	idx := BuildFirstVisitIndex(nil)
	if _, ok := idx.Global("a@x.com"); ok {
		t.Error("empty index returned an entry")
	}
}
