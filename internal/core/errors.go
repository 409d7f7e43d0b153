package core

// FieldErrors maps input field names to human-readable validation
// messages. An empty map means the record validated cleanly. Validation
// never short-circuits: every violated field is present so the UI can
// surface all problems at once.
type FieldErrors map[string]string

// Shared validation messages.
const (
	msgEmpty       = "cannot be empty"
	msgNotNumber   = "must be a number"
	msgNegative    = "cannot be negative"
	msgNotInteger  = "must be a whole number"
	msgBadStation  = "invalid station code"
	msgBadDpoLink  = "invalid DPO link"
	msgBadSimLink  = "invalid SIM link"
	msgBadRouting  = "select a routing type"
	msgWeekTooHigh = "cannot be > 53"
)

// Ok reports whether no field failed validation.
func (e FieldErrors) Ok() bool {
	return len(e) == 0
}

// Has reports whether the named field failed validation.
func (e FieldErrors) Has(field string) bool {
	_, found := e[field]
	return found
}
