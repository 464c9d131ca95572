package convert

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/compose-spec/compose-go/v2/template"
)

// Lookup returns the value of a variable and whether it is set.
type Lookup func(name string) (string, bool)

// EnvLookup reads the process environment.
func EnvLookup() Lookup {
	return os.LookupEnv
}

func MapLookup(values map[string]string) Lookup {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

// ChainLookup returns the first value found, in order.
func ChainLookup(lookups ...Lookup) Lookup {
	return func(name string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(name); ok {
				return v, true
			}
		}
		return "", false
	}
}

// Interpolator expands `$VAR` and `${VAR}` expressions with the Compose
// rules. Variables that the lookup cannot find and that carry no default are
// handed to the resolver; its answers are remembered for the lifetime of the
// interpolator.
type Interpolator struct {
	lookup   Lookup
	resolver Resolver
	logger   *slog.Logger

	mutex    sync.Mutex
	resolved map[string]string
}

func NewInterpolator(lookup Lookup, resolver Resolver, logger *slog.Logger) *Interpolator {
	if lookup == nil {
		lookup = EnvLookup()
	}
	if resolver == nil {
		resolver = StrictResolver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpolator{
		lookup:   lookup,
		resolver: resolver,
		logger:   logger,
		resolved: map[string]string{},
	}
}

func (i *Interpolator) Interpolate(ctx context.Context, s string) (string, error) {
	if !strings.Contains(s, "$") {
		return s, nil
	}

	if err := i.resolve(ctx, s); err != nil {
		return "", err
	}
	out, err := template.Substitute(s, i.known)
	if err != nil {
		return "", fmt.Errorf("interpolating %q: %w", s, err)
	}
	return out, nil
}

// resolve makes sure every variable s needs has a value. Variables with a
// default or an alternate value are left unset, the variables used in a
// default are resolved when that default applies.
func (i *Interpolator) resolve(ctx context.Context, s string) error {
	variables := template.ExtractVariables(map[string]any{"value": s}, template.DefaultPattern)
	for _, name := range slices.Sorted(maps.Keys(variables)) {
		if _, ok := i.known(name); ok {
			continue
		}

		v := variables[name]
		switch {
		case v.DefaultValue != "":
			if err := i.resolve(ctx, v.DefaultValue); err != nil {
				return err
			}
		case v.PresenceValue != "":
		default:
			if _, err := i.value(ctx, name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i *Interpolator) known(name string) (string, bool) {
	if v, ok := i.lookup(name); ok {
		return v, true
	}

	i.mutex.Lock()
	defer i.mutex.Unlock()
	v, ok := i.resolved[name]
	return v, ok
}

func (i *Interpolator) value(ctx context.Context, name string) (string, error) {
	if v, ok := i.known(name); ok {
		return v, nil
	}

	i.logger.WarnContext(ctx, "variable is not set", slog.String("variable", name))
	v, err := i.resolver.Resolve(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrUnresolvedReference, name, err)
	}

	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.resolved[name] = v
	return v, nil
}
