// Package compose loads Docker Compose files into the compose-go model and
// keeps the services in the order they appear in the file.
package compose

import (
	"github.com/compose-spec/compose-go/v2/types"
)

// Service is a single entry below the top level services key.
type Service = types.ServiceConfig

type NamedService struct {
	Name    string
	Service Service

	// Err is set when the service definition could not be loaded. Only
	// this service fails, the rest of the file is still usable.
	Err error
}

// Services keeps the services in the order they appear in the file.
type Services []NamedService

type File struct {
	Project  *types.Project
	Services Services
}

// Names returns the service names in file order.
func (s Services) Names() []string {
	names := make([]string, 0, len(s))
	for _, svc := range s {
		names = append(names, svc.Name)
	}
	return names
}

// Get returns the service with the given name.
func (s Services) Get(name string) (NamedService, bool) {
	for _, svc := range s {
		if svc.Name == name {
			return svc, true
		}
	}
	return NamedService{}, false
}
