package cli

import "fmt"

// Error codes for CLI responses.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Source scan error
	ErrCodeConfig      = "E003" // Build configuration error
	ErrCodeManifest    = "E004" // Asset manifest error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeTemplate    = "E006" // Template load or render error
	ErrCodeWriteFailed = "E007" // Artifact write error
	ErrCodeLedger      = "E008" // Ledger database error

	// Findings reported by validate
	ErrCodeUnresolved  = "E101" // Handler with no event delivering its payload
	ErrCodeSkipped     = "E102" // Marker skipped during extraction
	ErrCodeDropped     = "E103" // Manifest entry with neither load nor merge
	ErrCodeUnformatted = "E104" // Artifact kept unformatted
)

// LoadError is a command failure with its error code.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadError(code string, err error, format string, args ...any) *LoadError {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &LoadError{Code: code, Message: msg, Err: err}
}
