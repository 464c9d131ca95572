package registrar

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndLookup(t *testing.T) {
	r := New()
	r.Set("A", "1")

	v, ok := r.Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	v, ok = r.Lookup("B")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestNilRegistrar(t *testing.T) {
	var r *Registrar
	r.Set("A", "1")
	_, ok := r.Lookup("A")
	assert.False(t, ok)
}

func TestSetFQDN(t *testing.T) {
	r := New()
	key := r.SetFQDN("my-api", "my-api.example.azurecontainerapps.io")

	assert.Equal(t, "MY_API_FQDN", key)
	v, ok := r.Lookup("MY_API_FQDN")
	assert.True(t, ok)
	assert.Equal(t, "my-api.example.azurecontainerapps.io", v)
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := FQDNKey(string(rune('a' + i)))
			r.Set(key, "x")
			_, _ = r.Lookup(key)
		}()
	}
	wg.Wait()
	for i := range 20 {
		_, ok := r.Lookup(FQDNKey(string(rune('a' + i))))
		assert.True(t, ok)
	}
}
