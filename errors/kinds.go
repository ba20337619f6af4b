package errors

import "fmt"

const (
	// ErrDocumentLoad is matched by every DocumentLoadError.
	ErrDocumentLoad = Error("document load failed")
	// ErrComponentConflict is matched by every ComponentConflictError.
	ErrComponentConflict = Error("component conflict")
	// ErrUnsupportedMount is matched by every UnsupportedMountError.
	ErrUnsupportedMount = Error("unsupported mount")
	// ErrInvariantViolation is matched by every InvariantViolationError.
	ErrInvariantViolation = Error("invariant violation")
	// ErrInvalidReference is returned for $ref values that cannot be parsed as URIs.
	ErrInvalidReference = Error("invalid reference")
)

// DocumentLoadError reports that a document could not be fetched or parsed.
type DocumentLoadError struct {
	URL   string
	Cause error
}

func (e *DocumentLoadError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", ErrDocumentLoad, e.URL)
	}
	return fmt.Sprintf("%s: %s%s%v", ErrDocumentLoad, e.URL, ErrSeparator, e.Cause)
}

func (e *DocumentLoadError) Is(target error) bool {
	return target == ErrDocumentLoad
}

func (e *DocumentLoadError) Unwrap() error {
	return e.Cause
}

// ComponentConflictError reports two differently sourced components competing
// for the same name under components.<Section>.
type ComponentConflictError struct {
	Section  string
	Name     string
	Existing string
	Incoming string
}

func (e *ComponentConflictError) Error() string {
	existing := e.Existing
	if existing == "" {
		existing = "<root document>"
	}
	return fmt.Sprintf("%s: #/components/%s/%s is defined by %s and %s", ErrComponentConflict, e.Section, e.Name, existing, e.Incoming)
}

func (e *ComponentConflictError) Is(target error) bool {
	return target == ErrComponentConflict
}

// UnsupportedMountError reports an attempt to place content somewhere the tree
// cannot hold it, such as below a scalar.
type UnsupportedMountError struct {
	Path   string
	Reason string
}

func (e *UnsupportedMountError) Error() string {
	return fmt.Sprintf("%s at %s: %s", ErrUnsupportedMount, e.Path, e.Reason)
}

func (e *UnsupportedMountError) Is(target error) bool {
	return target == ErrUnsupportedMount
}

// InvariantViolationError reports an internal consistency failure. It is a defect,
// not a user recoverable condition.
type InvariantViolationError struct {
	Subject   string
	Key       string
	Existing  string
	Attempted string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: %s[%q] is %q, refusing to overwrite with %q", ErrInvariantViolation, e.Subject, e.Key, e.Existing, e.Attempted)
}

func (e *InvariantViolationError) Is(target error) bool {
	return target == ErrInvariantViolation
}
