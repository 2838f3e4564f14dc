package log

import (
	"sort"
	"time"
)

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldSource     = "source"
	FieldSources    = "sources"
	FieldRecords    = "records"
	FieldCustomers  = "customers"
	FieldViolations = "violations"
	FieldMode       = "mode"
	FieldDuration   = "duration_ms"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentLoader     = "loader"
	ComponentAggregate  = "aggregate"
	ComponentValidation = "validation"
	ComponentReport     = "report"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentSheets     = "sheets"
	ComponentCache      = "cache"
	ComponentBackend    = "backend"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpValidate = "validate"
	OpBuild    = "build"
	OpRender   = "render"
	OpImport   = "import"
	OpPublish  = "publish"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error message; nil errors are skipped.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithSource(name string) LogFields {
	f[FieldSource] = name
	return f
}

// WithCounts adds record, customer and violation totals of a processing run.
func (f LogFields) WithCounts(records, customers, violations int) LogFields {
	f[FieldRecords] = records
	f[FieldCustomers] = customers
	f[FieldViolations] = violations
	return f
}

func (f LogFields) WithDuration(d time.Duration) LogFields {
	f[FieldDuration] = d.Milliseconds()
	return f
}

// ToSlice converts LogFields to a slice for slog, ordered by key.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
