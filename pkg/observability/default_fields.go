package observability

import (
	"os"

	"github.com/facebookincubator/go-belt/pkg/field"
)

// FieldPID is the field value type for process ID
type FieldPID int

// FieldHostname is the field value type for hostname
type FieldHostname string

// DefaultFields returns default structured data for observability tooling
// (logging, tracing, etc)
func DefaultFields() field.Fields {
	var result field.Fields

	result = append(result, field.Field{
		Key:   "pid",
		Value: FieldPID(os.Getpid()),
	})
	if hostname, err := os.Hostname(); err == nil {
		result = append(result, field.Field{
			Key:   "hostname",
			Value: FieldHostname(hostname),
		})
	}

	return result
}
