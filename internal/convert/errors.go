package convert

import (
	"errors"
	"fmt"

	"compose2containerapps/internal/compose"
)

var (
	ErrMissingImage        = errors.New("service has no image")
	ErrUnresolvedReference = errors.New("unresolved variable reference")
	ErrInvalidPortRange    = compose.ErrInvalidPortRange
	ErrUnknownService      = errors.New("unknown service")
)

// ServiceError ties a conversion failure to the service that caused it.
type ServiceError struct {
	Service string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %q: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
