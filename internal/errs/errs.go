// Package errs defines the AURA error taxonomy shared by every layer of the
// Hybrid Orchestrator. Components never compare error strings; they wrap a
// Kind and callers branch on it with errors.As.
package errs

import "fmt"

// Kind is the fixed ErrorKind taxonomy from the component contracts.
type Kind string

const (
	UnknownTool          Kind = "unknown_tool"
	BadArgs              Kind = "bad_args"
	Unsupported          Kind = "unsupported"
	ConfirmationRequired Kind = "confirmation_required"
	Timeout              Kind = "timeout"
	Unavailable          Kind = "unavailable"
	MissingDependency    Kind = "missing_dependency"
	SandboxViolation     Kind = "sandbox_violation"
	LlmNetwork           Kind = "llm_network"
	LlmRateLimit         Kind = "llm_rate_limit"
	LlmAuth              Kind = "llm_auth"
	LlmBadResponse       Kind = "llm_bad_response"
	NoCredentials        Kind = "no_credentials"
	Internal             Kind = "internal"
)

// AuraError is the concrete error type carried across layer boundaries.
type AuraError struct {
	Kind    Kind
	Message string
	Cause   error

	// Dependency names the missing binary/package for a MissingDependency
	// error, e.g. "pactl". Producers set it directly rather than callers
	// scraping it back out of Message/Error().
	Dependency string
}

func (e *AuraError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AuraError) Unwrap() error { return e.Cause }

// New constructs an AuraError with no wrapped cause.
func New(kind Kind, message string) *AuraError {
	return &AuraError{Kind: kind, Message: message}
}

// Wrap constructs an AuraError that carries an underlying cause.
func Wrap(kind Kind, message string, cause error) *AuraError {
	return &AuraError{Kind: kind, Message: message, Cause: cause}
}

// WrapMissingDependency constructs a MissingDependency AuraError that
// carries the bare dependency name as a structured field, so a consumer
// (internal/healing's repairDependency) never has to parse it back out of
// Error()'s rendered string.
func WrapMissingDependency(dependency, message string, cause error) *AuraError {
	return &AuraError{Kind: MissingDependency, Message: message, Cause: cause, Dependency: dependency}
}

// DependencyOf extracts the Dependency field from err if it is (or wraps)
// an *AuraError with one set, otherwise "".
func DependencyOf(err error) string {
	var ae *AuraError
	if as(err, &ae) {
		return ae.Dependency
	}
	return ""
}

// KindOf extracts the Kind from err if it is (or wraps) an *AuraError,
// otherwise returns Internal.
func KindOf(err error) Kind {
	var ae *AuraError
	if as(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// as is a small local indirection so this package does not need to import
// "errors" twice for a one-line helper; kept for readability at call sites.
func as(err error, target **AuraError) bool {
	for err != nil {
		if ae, ok := err.(*AuraError); ok {
			*target = ae
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Retryable reports whether the recovery matrix in the error-handling design
// calls for an automatic retry for this Kind.
func Retryable(kind Kind) bool {
	switch kind {
	case Timeout, Unavailable, LlmNetwork, LlmRateLimit:
		return true
	default:
		return false
	}
}
