package catalog

// Category filter values that are not product keys.
const (
	CategoryAll      = "all"
	CategoryFeatured = "featured"
)

// Keys is the fixed, ordered set of product category keys.
var Keys = []string{
	"manual-wheelchairs",
	"electric-wheelchairs",
	"mobility-scooters",
	"walking-aids",
	"hospital-beds",
	"patient-lifts",
	"bathroom-safety",
	"accessories",
}

// IsKey reports whether key is a member of the fixed category key set.
func IsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// LabelKey returns the dictionary key for a category filter value.
func LabelKey(category string) string {
	return "category." + category
}
