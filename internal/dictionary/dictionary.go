// Package dictionary resolves display labels from the category lookup table.
package dictionary

// Identifiers fixed by the seeded lookup table. Plans may only reference the
// issuance and collection categories; payments reference the payment kinds.
const (
	PaymentPrincipal   int64 = 1
	PaymentInterest    int64 = 2
	CategoryIssuance   int64 = 3
	CategoryCollection int64 = 4
)

// AllowedPlanCategory reports whether id is one of the two plan categories.
func AllowedPlanCategory(id int64) bool {
	return id == CategoryIssuance || id == CategoryCollection
}
