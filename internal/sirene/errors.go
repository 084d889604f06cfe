package sirene

import "fmt"

// Outcome classifies a registry call.
type Outcome string

const (
	OutcomeFound          Outcome = "found"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeUpstreamError  Outcome = "upstream_error"
	OutcomeTimeout        Outcome = "timeout"
	OutcomeTransportError Outcome = "transport_error"
)

// LookupError describes a call that did not return a legal unit.
type LookupError struct {
	Outcome    Outcome
	StatusCode int
	Err        error
}

func (e *LookupError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("sirene [%s]: %v", e.Outcome, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("sirene [%s]: status %d", e.Outcome, e.StatusCode)
	default:
		return fmt.Sprintf("sirene [%s]", e.Outcome)
	}
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
