package convert

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoValue is returned by a Resolver that has no value for a variable.
var ErrNoValue = errors.New("no value available")

// Resolver supplies values for variables that are referenced but not set.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

type ResolverFunc func(ctx context.Context, name string) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

// StrictResolver fails every lookup.
type StrictResolver struct{}

func (StrictResolver) Resolve(_ context.Context, name string) (string, error) {
	return "", fmt.Errorf("%w for %s", ErrNoValue, name)
}

// EmptyResolver resolves every variable to the empty string.
type EmptyResolver struct{}

func (EmptyResolver) Resolve(context.Context, string) (string, error) {
	return "", nil
}

// StaticResolver answers from a fixed set of values.
type StaticResolver map[string]string

func (s StaticResolver) Resolve(_ context.Context, name string) (string, error) {
	if v, ok := s[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w for %s", ErrNoValue, name)
}

// ResolverChain asks each resolver in turn. Resolvers answering ErrNoValue
// are skipped, any other error stops the chain.
type ResolverChain []Resolver

func (c ResolverChain) Resolve(ctx context.Context, name string) (string, error) {
	for _, r := range c {
		v, err := r.Resolve(ctx, name)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrNoValue) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w for %s", ErrNoValue, name)
}
