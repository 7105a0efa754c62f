package errcodes

import (
	"strings"

	"github.com/pkg/errors"
)

// FromDB translates SQLite constraint failures into typed errors for the given
// resource. Any other error is returned with a stack attached.
func FromDB(err error, resource string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return Conflict(resource + " already exists.")
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ReferentialIntegrity(strings.ToLower(resource), "related records")
	case strings.Contains(msg, "CHECK constraint failed"):
		return ValidationError(resource + " violates a constraint.")
	}
	return errors.WithStack(err)
}
