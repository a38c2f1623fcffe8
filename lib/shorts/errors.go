package shorts

import "errors"

var (
	// ErrUnknownCompany means the source does not recognize the identifier
	// the request was made with. Not retryable.
	ErrUnknownCompany = errors.New("company not recognized by the source")
	// ErrExternalService means the source itself failed (error page, non-200
	// status, timeout). The caller may retry a whole run later; this library
	// never retries on its own.
	ErrExternalService = errors.New("external service failure")
	// ErrMalformedNumber means a weight cell could not be parsed.
	ErrMalformedNumber = errors.New("malformed number in source page")
	// ErrInvalidDate means a date cell could not be parsed or could not be
	// converted to UTC.
	ErrInvalidDate = errors.New("invalid date in source page")
	// ErrMissingNIF marks companies that cannot be fetched because the source
	// only accepts a NIF. Expected condition, callers skip silently.
	ErrMissingNIF = errors.New("company has no NIF")
	// ErrCorruptRecord means a stored row is missing a field that every
	// position must carry. Distinct from connectivity failures so it can be
	// reported as data corruption.
	ErrCorruptRecord = errors.New("corrupt record in store")
	// ErrUnsupportedTimeFrame means the provider cannot serve the requested
	// time frame (the CNMV page only exposes current positions).
	ErrUnsupportedTimeFrame = errors.New("time frame not supported by provider")
)
