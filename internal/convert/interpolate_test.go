package convert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolateAsksOnlyForNeededVariables(t *testing.T) {
	tests := []struct {
		input string
		asked []string
	}{
		{input: "plain"},
		{input: "$A and ${B}", asked: []string{"A", "B"}},
		{input: "${A:-x} ${B-y} ${C:+z}"},
		{input: "cost: $$5"},
		{input: "${A?must be set}", asked: []string{"A"}},
		{input: "${A:-http://$B:8080}", asked: []string{"B"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var asked []string
			i := NewInterpolator(
				MapLookup(map[string]string{}),
				ResolverFunc(func(_ context.Context, name string) (string, error) {
					asked = append(asked, name)
					return "v", nil
				}),
				nil,
			)
			_, err := i.Interpolate(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.asked, asked)
		})
	}
}

func TestChainLookup(t *testing.T) {
	lookup := ChainLookup(
		MapLookup(map[string]string{"A": "first"}),
		nil,
		MapLookup(map[string]string{"A": "second", "B": "b"}),
	)

	v, ok := lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = lookup("B")
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = lookup("C")
	assert.False(t, ok)
}

func TestInterpolate(t *testing.T) {
	i := NewInterpolator(
		MapLookup(map[string]string{"NAME": "world", "EMPTY": ""}),
		StaticResolver{"MISSING": "resolved"},
		nil,
	)

	tests := []struct {
		input string
		want  string
	}{
		{input: "no variables", want: "no variables"},
		{input: "hello ${NAME}", want: "hello world"},
		{input: "hello $NAME", want: "hello world"},
		{input: "${EMPTY}", want: ""},
		{input: "${UNSET:-fallback}", want: "fallback"},
		{input: "${UNSET-fallback}", want: "fallback"},
		{input: "${EMPTY-fallback}", want: ""},
		{input: "${EMPTY:-fallback}", want: "fallback"},
		{input: "${NAME:+set}", want: "set"},
		{input: "${MISSING}", want: "resolved"},
		{input: "$MISSING/$NAME", want: "resolved/world"},
		{input: "${UNSET:-http://$NAME:8080}", want: "http://world:8080"},
		{input: "${MISSING?required}", want: "resolved"},
		{input: "cost: $$5", want: "cost: $5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := i.Interpolate(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := i.Interpolate(context.Background(), "${NOPE}")
	assert.ErrorIs(t, err, ErrUnresolvedReference)

	_, err = i.Interpolate(context.Background(), "$NOPE")
	assert.ErrorIs(t, err, ErrUnresolvedReference)

	_, err = i.Interpolate(context.Background(), "${NOPE?is required}")
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestResolverChain(t *testing.T) {
	chain := ResolverChain{StaticResolver{"A": "a"}, StrictResolver{}, StaticResolver{"B": "b"}}

	v, err := chain.Resolve(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = chain.Resolve(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	_, err = chain.Resolve(context.Background(), "C")
	assert.ErrorIs(t, err, ErrNoValue)

	v, err = EmptyResolver{}.Resolve(context.Background(), "C")
	require.NoError(t, err)
	assert.Empty(t, v)
}
