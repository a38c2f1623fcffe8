package shorts

import "fmt"

// Regulator identifies the market supervisor that publishes short position
// disclosures for a company.
type Regulator string

const (
	// RegulatorCNMV is the Spanish Comisión Nacional del Mercado de Valores.
	RegulatorCNMV Regulator = "CNMV"
	// RegulatorUnknown is returned for companies registered outside the
	// supported jurisdictions.
	RegulatorUnknown Regulator = ""
)

// Company is the minimal company reference the harvester needs: a display
// name, a ticker and the registry identifiers used to query the regulator.
type Company struct {
	// Long display name, may be empty.
	FullName string
	// Short name used by the exchange listing.
	Name   string
	Ticker string
	ISIN   string
	// National tax/registry identifier, the only key the CNMV endpoint
	// accepts. Empty for companies registered abroad; those are skipped.
	NIF string
}

// Regulator derives the supervising regulator from the ISIN country prefix.
// Most index members are registered in Spain; the few registered abroad
// disclose through a different supervisor and map to RegulatorUnknown until a
// provider for it exists.
func (c Company) Regulator() Regulator {
	if len(c.ISIN) >= 2 && c.ISIN[:2] == "ES" {
		return RegulatorCNMV
	}
	return RegulatorUnknown
}

func (c Company) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Ticker)
}
