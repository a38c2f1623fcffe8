package cnmv

import (
	"fmt"
	"regexp"
	"strings"

	"shortwatch/lib/shorts"
)

// Marker strings scraped from production responses. The CNMV renders the same
// "empty" page for companies with no current disclosures and for identifiers
// it does not recognize at all; the markers below are the only reliable
// discriminators, so changes on the source page break here first.
const (
	markerServerError = "No ha sido posible completar su consulta"
	markerNoData      = "No se han encontrado datos disponibles"
	markerHistoric    = "Serie histórica"
)

// 2 letters + 10 digits, the shape of an ISIN. A legitimate company page
// always renders the company's ISIN somewhere, even with zero history.
var isinShape = regexp.MustCompile(`[A-Z]{2}\d{10}`)

// classifiedPage is a response body that passed classification and is safe to
// hand to the extractor.
type classifiedPage string

// classifyResponse decides whether a fetched body is a genuine failure, a
// valid page with no data, or a data-bearing page.
func classifyResponse(body string) (classifiedPage, error) {
	if strings.Contains(body, markerServerError) {
		return "", fmt.Errorf("%w: the source could not process the request", shorts.ErrExternalService)
	}

	if strings.Contains(body, markerNoData) {
		if strings.Contains(body, markerHistoric) {
			// no current disclosures, but a legitimate company page
			return classifiedPage(body), nil
		}
		// companies with no history at all (see Puig Brands) still render
		// their ISIN; pages for unrecognized identifiers render neither
		if isinShape.MatchString(body) {
			return classifiedPage(body), nil
		}
		return "", shorts.ErrUnknownCompany
	}

	return classifiedPage(body), nil
}
