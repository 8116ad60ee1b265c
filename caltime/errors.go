package caltime

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the errors raised by this package.
type Kind int

const (
	// KindInternal marks a broken invariant or an unexpected OS failure.
	// Values of this kind are carried by panics, not returned.
	KindInternal Kind = iota
	// KindNotSupported is raised when a result would precede the Unix
	// epoch, or for ISO 8601 forms this package does not accept.
	KindNotSupported
	// KindInvalidTimeFormat is raised by the CIM and ISO 8601 parsers.
	KindInvalidTimeFormat
	// KindIllegalIndex is raised when a single field is outside its
	// closed range.
	KindIllegalIndex
	// KindInvalidArgument covers derived or cross-field problems.
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindNotSupported:
		return "not supported"
	case KindInvalidTimeFormat:
		return "invalid time format"
	case KindIllegalIndex:
		return "illegal index"
	case KindInvalidArgument:
		return "invalid argument"
	default:
		return "internal error"
	}
}

// Error is the concrete error type of the package. Match on it with
// errors.Is against one of the Err* sentinels, or errors.As to read the
// offending field of an IllegalIndex error.
type Error struct {
	Kind  Kind
	Field string
	Value int64
	Min   int64
	Max   int64
	Msg   string
}

func (e *Error) Error() string {
	if e.Kind == KindIllegalIndex {
		return fmt.Sprintf("caltime: %s: %s %d not in [%d, %d]", e.Kind, e.Field, e.Value, e.Min, e.Max)
	}
	if e.Msg == "" {
		return "caltime: " + e.Kind.String()
	}
	return "caltime: " + e.Kind.String() + ": " + e.Msg
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotSupported      = &Error{Kind: KindNotSupported}
	ErrInvalidTimeFormat = &Error{Kind: KindInvalidTimeFormat}
	ErrIllegalIndex      = &Error{Kind: KindIllegalIndex}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrInternal          = &Error{Kind: KindInternal}
)

// KindOf returns the Kind carried by err, and false when err does not
// come from this package.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindInternal, false
}

func notSupported(format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: KindNotSupported, Msg: fmt.Sprintf(format, args...)})
}

func invalidFormat(input, reason string) error {
	return errors.WithStack(&Error{Kind: KindInvalidTimeFormat, Msg: fmt.Sprintf("%q: %s", input, reason)})
}

func illegalIndex(field string, value, min, max int64) error {
	return errors.WithStack(&Error{Kind: KindIllegalIndex, Field: field, Value: value, Min: min, Max: max})
}

func invalidArgument(format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...)})
}

// assert panics with an internal error when cond is false.
func assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(errors.WithStack(&Error{Kind: KindInternal, Msg: fmt.Sprintf(format, args...)}))
	}
}
