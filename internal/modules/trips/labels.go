// README: Product label canonicalization table.
package trips

// EatsMarketplace marks food-delivery orders that share the export but are not rides.
const EatsMarketplace = "UberEATS Marketplace"

const (
	ProductUberX = "UberX"
	ProductPool  = "Pool"
	ProductBlack = "Black"
)

// productMapping keys are case-sensitive and enumerated explicitly.
var productMapping = map[string]string{
	"UberX":             ProductUberX,
	"uberX":             ProductUberX,
	"uberX VIP":         ProductUberX,
	"VIP":               ProductUberX,
	"uberx":             ProductUberX,
	"POOL":              ProductPool,
	"POOL: MATCHED":     ProductPool,
	"uberPOOL":          ProductPool,
	"uberPOOL: MATCHED": ProductPool,
	"Pool: MATCHED":     ProductPool,
	"UberBLACK":         ProductBlack,
}

// CanonicalProduct maps a raw product label to its category. Unmapped labels
// pass through unchanged, so canonical labels map to themselves.
func CanonicalProduct(label string) string {
	if canonical, ok := productMapping[label]; ok {
		return canonical
	}
	return label
}

func isEats(label string) bool {
	return label == EatsMarketplace
}
