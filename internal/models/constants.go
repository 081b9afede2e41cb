package models

// Canonical field names every input file is normalized into.
const (
	FieldDate        = "date"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldDebit       = "debit"
	FieldCredit      = "credit"
	FieldCategory    = "category"
	FieldType        = "type"
	FieldMemo        = "memo"
)

// CanonicalFields lists the fields in resolution order.
// Debit and credit come before amount so that split-column exports keep both sides.
var CanonicalFields = []string{
	FieldDate,
	FieldDescription,
	FieldDebit,
	FieldCredit,
	FieldAmount,
	FieldCategory,
	FieldType,
	FieldMemo,
}

// CategoryOther is the label assigned when nothing else applies.
const CategoryOther = "Other"

// NullCategoryMarkers are original category values treated as "no category".
// Values are compared after uppercasing and trimming.
var NullCategoryMarkers = []string{"", "OTHER", "NAN", "NONE", "NULL", "N/A"}

// IsNullCategory reports whether an uppercased, trimmed category is a null marker.
func IsNullCategory(upper string) bool {
	for _, m := range NullCategoryMarkers {
		if upper == m {
			return true
		}
	}
	return false
}
