package errors

import (
	"fmt"
	"strings"

	phyengine "github.com/physicslab/phyengine-go"
)

// Phase indicates where in the bridge the error occurred
type Phase string

const (
	PhaseResolve   Phase = "resolve"   // library path search
	PhaseLoad      Phase = "load"      // library loading and symbol binding
	PhaseMap       Phase = "map"       // graph to native layout translation
	PhaseBuild     Phase = "build"     // native circuit construction
	PhaseAnalyze   Phase = "analyze"   // analysis and clock stepping
	PhaseExtract   Phase = "extract"   // result readback
	PhaseLifecycle Phase = "lifecycle" // handle state machine
)

// Kind categorizes the error
type Kind string

const (
	KindNotAvailable       Kind = "not_available"
	KindUnsupportedElement Kind = "unsupported_element"
	KindAnalyze            Kind = "analyze_failed"
	KindInvalidParameters  Kind = "invalid_parameters"
	KindInvalidState       Kind = "invalid_state"
	KindBinding            Kind = "binding"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Cause   error
	Phase   Phase
	Kind    Kind
	Detail  string
	Path    string           // library path involved, if any
	Paths   []string         // every path attempted during resolution
	Element string           // offending element identity
	Model   string           // offending ModelID
	Symbols []string         // entry points missing from the library
	Status  phyengine.Status // native status code, when Kind is analyze_failed
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Element != "" || e.Model != "" {
		b.WriteString(": ")
		if e.Element != "" && e.Model != "" {
			b.WriteString("element ")
			b.WriteString(e.Element)
			b.WriteString(" (model ")
			b.WriteString(e.Model)
			b.WriteByte(')')
		} else if e.Model != "" {
			b.WriteString("model ")
			b.WriteString(e.Model)
		} else {
			b.WriteString("element ")
			b.WriteString(e.Element)
		}
	}

	if e.Detail != "" {
		if e.Element != "" || e.Model != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if len(e.Symbols) > 0 {
		b.WriteString("; missing symbols: ")
		b.WriteString(strings.Join(e.Symbols, ", "))
	}

	if len(e.Paths) > 0 {
		b.WriteString("; tried: ")
		b.WriteString(strings.Join(e.Paths, ", "))
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Zero fields on the target
// act as wildcards, so errors.Is(err, &Error{Kind: KindBinding}) matches any
// binding error regardless of phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	if t.Kind != "" && t.Kind != e.Kind {
		return false
	}
	return true
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the library path involved
func (b *Builder) Path(p string) *Builder {
	b.err.Path = p
	return b
}

// Paths records every path attempted
func (b *Builder) Paths(paths ...string) *Builder {
	b.err.Paths = paths
	return b
}

// Element sets the offending element identity
func (b *Builder) Element(id string) *Builder {
	b.err.Element = id
	return b
}

// Model sets the offending ModelID
func (b *Builder) Model(m string) *Builder {
	b.err.Model = m
	return b
}

// Symbols records missing ABI entry points
func (b *Builder) Symbols(names ...string) *Builder {
	b.err.Symbols = names
	return b
}

// Status sets the native status code
func (b *Builder) Status(s phyengine.Status) *Builder {
	b.err.Status = s
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the bridge's failure classes

// NotAvailable reports that no usable engine library was found. Every path
// the resolver attempted is preserved for diagnosis.
func NotAvailable(detail string, attempted []string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindNotAvailable,
		Detail: detail,
		Paths:  attempted,
	}
}

// UnsupportedElement reports a ModelID absent from the support table.
func UnsupportedElement(elementID, model string) *Error {
	return &Error{
		Phase:   PhaseMap,
		Kind:    KindUnsupportedElement,
		Element: elementID,
		Model:   model,
		Detail:  "not in the engine support table",
	}
}

// MissingSymbols reports entry points the library does not export.
func MissingSymbols(path string, symbols []string) *Error {
	return &Error{
		Phase:   PhaseLoad,
		Kind:    KindBinding,
		Path:    path,
		Detail:  "library does not export the required interface",
		Symbols: symbols,
	}
}

// Binding reports any other load-time failure (unreadable file, wrong
// format, version probe mismatch).
func Binding(path, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindBinding,
		Path:   path,
		Detail: detail,
		Cause:  cause,
	}
}

// FromStatus converts a non-zero native status into the matching
// analyze_failed error. The raw status code is preserved verbatim; op names
// the entry point that returned it.
func FromStatus(phase Phase, op string, status phyengine.Status) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAnalyze,
		Status: status,
		Detail: fmt.Sprintf("%s: %s (status %d)", op, status, int32(status)),
	}
}

// InvalidParameters reports values that must be fixed before the call can
// cross the boundary.
func InvalidParameters(phase Phase, format string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidParameters,
		Detail: fmt.Sprintf(format, args...),
	}
}

// InvalidState reports an operation issued against the wrong lifecycle state.
func InvalidState(detail string) *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindInvalidState,
		Detail: detail,
	}
}

// Wrap wraps an existing error with bridge context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// IsKind reports whether err or anything it wraps is a bridge error of the
// given kind.
func IsKind(err error, k Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == k {
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

// As extracts the first bridge error in err's chain.
func As(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
