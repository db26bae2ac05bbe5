package ir

// Version constants stamped into generated artifacts and the ledger.
const (
	// ModelVersion is the fact model schema version.
	ModelVersion = "1"

	// GeneratorVersion is the modgen version.
	GeneratorVersion = "0.1.0"
)
