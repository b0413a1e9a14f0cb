package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mverdeja/footfall/internal/model"
	"github.com/mverdeja/footfall/internal/service"
)

func testStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "footfall.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testTxn(email, merchant string, date time.Time, amount float64) model.Transaction {
	return model.Transaction{
		ID:       uuid.NewString(),
		Email:    email,
		Merchant: merchant,
		Date:     date,
		Amount:   amount,
	}
}

func TestSaveAndGetTransactions(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	transactions := []model.Transaction{
		testTxn("b@x.com", "Store-LA", time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), 5),
		testTxn("a@x.com", "Store-NY", time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC), 10),
	}
	if err := store.SaveTransactions(ctx, transactions); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}

	got, err := store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}
	// Oldest first.
	if got[0].Email != "a@x.com" {
		t.Errorf("first transaction = %s, want a@x.com", got[0].Email)
	}
	if !got[0].Date.Equal(transactions[1].Date) {
		t.Errorf("date round trip = %v, want %v", got[0].Date, transactions[1].Date)
	}
	if got[0].Amount != 10 {
		t.Errorf("amount = %v, want 10", got[0].Amount)
	}
}

func TestSaveTransactions_Deduplicates(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	txn := testTxn("a@x.com", "Store-NY", time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC), 10)
	if err := store.SaveTransactions(ctx, []model.Transaction{txn}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// Same content, new ID: the hash collides and the row is skipped.
	dup := txn
	dup.ID = uuid.NewString()
	if err := store.SaveTransactions(ctx, []model.Transaction{dup}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	count, err := store.CountTransactions(ctx)
	if err != nil {
		t.Fatalf("CountTransactions: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestGetTransactions_DateFilter(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	transactions := []model.Transaction{
		testTxn("a@x.com", "Store-NY", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 1),
		testTxn("a@x.com", "Store-NY", time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), 1),
		testTxn("a@x.com", "Store-NY", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), 1),
	}
	if err := store.SaveTransactions(ctx, transactions); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	got, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &from})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d transactions, want 2", len(got))
	}
}

func TestSaveTransactions_Validation(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	if err := store.SaveTransactions(ctx, nil); err == nil {
		t.Error("expected error for nil slice")
	}
	if err := store.SaveTransactions(ctx, []model.Transaction{{}}); err == nil {
		t.Error("expected error for empty transaction")
	}
}
