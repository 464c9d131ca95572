// Package registrar holds values produced during a run, such as the FQDN of
// an already deployed service, so later services can reference them.
package registrar

import (
	"strings"
	"sync"
)

type Registrar struct {
	values map[string]string
	mutex  sync.RWMutex
}

// Initializes a new registrar
func New() *Registrar {
	return &Registrar{
		values: make(map[string]string),
	}
}

// Set a key pair value in the registrar
func (r *Registrar) Set(k, v string) {
	if r == nil {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.values[k] = v
}

// Lookup returns the value for a key and whether it is set.
func (r *Registrar) Lookup(k string) (string, bool) {
	if r == nil {
		return "", false
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	v, ok := r.values[k]
	return v, ok
}

// SetFQDN records the public hostname of a deployed service under
// <SERVICE>_FQDN.
func (r *Registrar) SetFQDN(service, fqdn string) string {
	key := FQDNKey(service)
	r.Set(key, fqdn)
	return key
}

func FQDNKey(service string) string {
	name := strings.ToUpper(service)
	name = strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(name)
	return name + "_FQDN"
}
