package http

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeadersOrderAndCase(t *testing.T) {
	var h Headers
	h.Add("X-B", "1")
	h.Add("set-cookie", "a=1")
	h.Add("X-A", "2")
	h.Add("Set-Cookie", "b=2")

	require.Equal(t, "a=1", h.Get("SET-COOKIE"))
	require.Equal(t, []string{"a=1", "b=2"}, h.Values("Set-Cookie"))
	require.True(t, h.Has("x-a"))
	require.False(t, h.Has("x-c"))

	var names []string
	for k := range h.All() {
		names = append(names, k)
	}
	require.Equal(t, []string{"X-B", "set-cookie", "X-A", "Set-Cookie"}, names)
}

func TestHeadersSetKeepsPosition(t *testing.T) {
	h := Headers{{"A", "1"}, {"b", "2"}, {"C", "3"}, {"B", "4"}}
	h.Set("B", "x")
	require.Equal(t, Headers{{"A", "1"}, {"B", "x"}, {"C", "3"}}, h)

	h.Set("D", "y")
	require.Equal(t, Field{"D", "y"}, h[len(h)-1])
}

func TestHeadersDel(t *testing.T) {
	h := Headers{{"A", "1"}, {"a", "2"}, {"B", "3"}}
	clone := h.Clone()
	h.Del("A")
	require.Equal(t, Headers{{"B", "3"}}, h)
	require.Len(t, clone, 3)

	_, ok := h.Lookup("a")
	require.False(t, ok)
}

func TestHeadersIterStops(t *testing.T) {
	h := Headers{{"V", "1"}, {"V", "2"}, {"V", "3"}}
	var got []string
	for v := range h.Iter("v") {
		got = append(got, v)
		if len(got) == 2 {
			break
		}
	}
	require.Equal(t, []string{"1", "2"}, got)
}
