package model

import "strings"

// All is the selector value that matches every business or location.
const All = "all"

// LocationUnknown is assigned when a merchant label carries no location
// segment.
const LocationUnknown = "Unknown"

// MerchantKey is the (business, location) pair derived from a raw
// merchant label.
type MerchantKey struct {
	Business string
	Location string
}

// DecomposeMerchant splits a merchant label into business name and
// location using the trailing-segment convention: the segment after the
// last "-" is the location, everything before it is the business name.
// Labels without a "-" keep the whole string as the business name and
// get LocationUnknown.
//
// Filtering, first-visit tracking and presentation all must agree on
// this split, so this is the only implementation.
func DecomposeMerchant(merchant string) MerchantKey {
	parts := strings.Split(merchant, "-")
	if len(parts) > 1 {
		return MerchantKey{
			Business: strings.TrimSpace(strings.Join(parts[:len(parts)-1], "-")),
			Location: strings.TrimSpace(parts[len(parts)-1]),
		}
	}
	return MerchantKey{
		Business: strings.TrimSpace(merchant),
		Location: LocationUnknown,
	}
}
