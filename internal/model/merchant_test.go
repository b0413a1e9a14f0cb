package model

import "testing"

func TestDecomposeMerchant(t *testing.T) {
	tests := []struct {
		name         string
		merchant     string
		wantBusiness string
		wantLocation string
	}{
		{
			name:         "simple business-location",
			merchant:     "Store-NY",
			wantBusiness: "Store",
			wantLocation: "NY",
		},
		{
			name:         "multi-segment business keeps inner dashes",
			merchant:     "Coffee-House-Centro",
			wantBusiness: "Coffee-House",
			wantLocation: "Centro",
		},
		{
			name:         "no dash means unknown location",
			merchant:     "Bakery",
			wantBusiness: "Bakery",
			wantLocation: LocationUnknown,
		},
		{
			name:         "segments are trimmed",
			merchant:     "Store - NY",
			wantBusiness: "Store",
			wantLocation: "NY",
		},
		{
			name:         "empty string",
			merchant:     "",
			wantBusiness: "",
			wantLocation: LocationUnknown,
		},
		{
			name:         "trailing dash yields empty location",
			merchant:     "Store-",
			wantBusiness: "Store",
			wantLocation: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecomposeMerchant(tt.merchant)
			if got.Business != tt.wantBusiness {
				t.Errorf("Business = %q, want %q", got.Business, tt.wantBusiness)
			}
			if got.Location != tt.wantLocation {
				t.Errorf("Location = %q, want %q", got.Location, tt.wantLocation)
			}
		})
	}
}

func TestDecomposeMerchant_Recompose(t *testing.T) {
	// For labels without surrounding whitespace, joining the parts back
	// with "-" reproduces the original label.
	labels := []string{"Store-NY", "Coffee-House-Centro", "a-b-c-d", "X-"}
	for _, m := range labels {
		key := DecomposeMerchant(m)
		if got := key.Business + "-" + key.Location; got != m {
			t.Errorf("recompose(%q) = %q", m, got)
		}
	}
}
