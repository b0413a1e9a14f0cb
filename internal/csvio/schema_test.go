package csvio

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mverdeja/footfall/internal/common"
)

func TestResolveSchema(t *testing.T) {
	tests := []struct {
		name        string
		header      []string
		want        Schema
		wantMissing []string
	}{
		{
			name:   "canonical order",
			header: []string{"User Email", "Merchant", "Date", "Transaction Amount"},
			want:   Schema{Email: 0, Merchant: 1, Date: 2, Amount: 3},
		},
		{
			name:   "shuffled order with extra columns",
			header: []string{"Date", "Store ID", "Transaction Amount", "Merchant", "User Email"},
			want:   Schema{Email: 4, Merchant: 3, Date: 0, Amount: 2},
		},
		{
			name:   "case insensitive",
			header: []string{"USER EMAIL", "merchant", "DATE", "transaction amount"},
			want:   Schema{Email: 0, Merchant: 1, Date: 2, Amount: 3},
		},
		{
			name:        "missing amount",
			header:      []string{"User Email", "Merchant", "Date"},
			wantMissing: []string{"amount"},
		},
		{
			name:        "everything missing",
			header:      []string{"foo", "bar"},
			wantMissing: []string{"email", "merchant", "date", "amount"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSchema(tt.header)
			if tt.wantMissing != nil {
				var schemaErr *common.SchemaError
				if !errors.As(err, &schemaErr) {
					t.Fatalf("expected SchemaError, got %v", err)
				}
				if !reflect.DeepEqual(schemaErr.Missing, tt.wantMissing) {
					t.Errorf("Missing = %v, want %v", schemaErr.Missing, tt.wantMissing)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("schema = %+v, want %+v", got, tt.want)
			}
		})
	}
}
