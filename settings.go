package coinfolio

import "fmt"

// LotMethod defines the lot-selection policy for disposals.
type LotMethod int

const (
	// FIFO consumes lots in acquisition-timestamp ascending order.
	FIFO LotMethod = iota
	// LIFO consumes lots in acquisition-timestamp descending order.
	LIFO
	// HIFO consumes the lot with the highest remaining cost per unit first.
	HIFO
	// AvgCost draws disposals from a rolling per-asset average pool.
	AvgCost
)

func (m LotMethod) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case HIFO:
		return "hifo"
	case AvgCost:
		return "average"
	default:
		return "unknown"
	}
}

// ParseLotMethod parses a string into a LotMethod.
func ParseLotMethod(s string) (LotMethod, error) {
	switch s {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "hifo":
		return HIFO, nil
	case "average", "avg":
		return AvgCost, nil
	default:
		return 0, fmt.Errorf("unknown lot method: %q", s)
	}
}

// BasisMode defines how reward-family acquisitions are valued.
type BasisMode int

const (
	// BasisZero records reward acquisitions at zero cost.
	BasisZero BasisMode = iota
	// BasisFMV records reward acquisitions at their fair market value.
	BasisFMV
)

func (m BasisMode) String() string {
	switch m {
	case BasisZero:
		return "zero"
	case BasisFMV:
		return "fmv"
	default:
		return "unknown"
	}
}

// ParseBasisMode parses a string into a BasisMode.
func ParseBasisMode(s string) (BasisMode, error) {
	switch s {
	case "zero":
		return BasisZero, nil
	case "fmv", "fair-value":
		return BasisFMV, nil
	default:
		return 0, fmt.Errorf("unknown rewards basis mode: %q", s)
	}
}

// TaxProfile is a jurisdiction profile. A profile may constrain the lot
// method used for tax reporting regardless of the caller's preference.
type TaxProfile string

const (
	ProfileGeneric TaxProfile = "generic"
	ProfileDE      TaxProfile = "de" // forces FIFO
	ProfileIE      TaxProfile = "ie" // forces FIFO
	ProfileUS      TaxProfile = "us"
)

// ForcedMethod returns the lot method the profile mandates, if any.
func (p TaxProfile) ForcedMethod() (LotMethod, bool) {
	switch p {
	case ProfileDE, ProfileIE:
		return FIFO, true
	default:
		return 0, false
	}
}

// ParseTaxProfile parses a string into a TaxProfile.
func ParseTaxProfile(s string) (TaxProfile, error) {
	switch TaxProfile(s) {
	case ProfileGeneric, ProfileDE, ProfileIE, ProfileUS:
		return TaxProfile(s), nil
	default:
		return "", fmt.Errorf("unknown tax profile: %q", s)
	}
}

// Settings configures a replay. The ledger stores all monetary amounts
// pre-converted to BaseCurrency; the engine never converts currencies.
type Settings struct {
	BaseCurrency     string
	LotMethodDefault LotMethod
	RewardsBasisMode BasisMode
	TaxProfile       TaxProfile
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		BaseCurrency:     "USD",
		LotMethodDefault: FIFO,
		RewardsBasisMode: BasisZero,
		TaxProfile:       ProfileGeneric,
	}
}
