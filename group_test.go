package wrobuild

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupResolve_order(t *testing.T) {
	m := NewModel(map[string][]Element{
		"outer": {JSFile("a"), CSSFile("b"), GroupRef("g")},
		"g":     {JSFile("x"), JSFile("a"), CSSFile("b"), CSSFile("y")},
	})

	js, err := m.JS("outer")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "x"}, js)

	css, err := m.CSS("outer")
	require.NoError(t, err)
	require.Equal(t, []string{"b", "y"}, css)
}

func TestGroupResolve_memoized(t *testing.T) {
	m := NewModel(map[string][]Element{
		"top":  {GroupRef("base"), JSFile("/top.js")},
		"base": {JSFile("/base.js"), CSSFile("/base.css")},
	})
	top, _ := m.Group("top")
	base, _ := m.Group("base")

	js1, err := top.JS()
	require.NoError(t, err)
	js2, err := top.JS()
	require.NoError(t, err)
	css, err := top.CSS()
	require.NoError(t, err)

	require.Equal(t, js1, js2)
	require.Equal(t, []string{"/base.css"}, css)
	require.Equal(t, 1, top.resolveCount)
	require.Equal(t, 1, base.resolveCount)

	_, err = base.JS()
	require.NoError(t, err)
	require.Equal(t, 1, base.resolveCount)
}

func TestGroupResolve_returnsCopy(t *testing.T) {
	m := NewModel(map[string][]Element{
		"g": {JSFile("/a.js"), JSFile("/b.js")},
	})
	js, err := m.JS("g")
	require.NoError(t, err)
	js[0] = "/changed.js"

	again, err := m.JS("g")
	require.NoError(t, err)
	require.Equal(t, []string{"/a.js", "/b.js"}, again)
}

func TestGroupResolve_dedup(t *testing.T) {
	m := NewModel(map[string][]Element{
		"all": {
			GroupRef("a"), GroupRef("b"), GroupRef("a"),
			JSFile("/1.js"), CSSFile("/1.css"),
		},
		"a": {JSFile("/1.js"), JSFile("/2.js"), CSSFile("/1.css")},
		"b": {JSFile("/2.js"), JSFile("/3.js"), CSSFile("/1.css")},
	})
	for _, name := range m.Names() {
		js, err := m.JS(name)
		require.NoError(t, err)
		css, err := m.CSS(name)
		require.NoError(t, err)
		for _, list := range [][]string{js, css} {
			seen := make(map[string]bool)
			for _, f := range list {
				require.False(t, seen[f], "%q duplicated in %q", f, name)
				seen[f] = true
			}
		}
	}

	js, err := m.JS("all")
	require.NoError(t, err)
	require.Equal(t, []string{"/1.js", "/2.js", "/3.js"}, js)
}

func TestGroupResolve_cycle(t *testing.T) {
	m := NewModel(map[string][]Element{
		"g1": {JSFile("/1.js"), GroupRef("g2")},
		"g2": {GroupRef("g1")},
	})

	_, err := m.JS("g1")
	var cerr *CyclicGroupReferenceError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	require.Equal(t, []string{"g1", "g2", "g1"}, cerr.Cycle)

	_, err = m.CSS("g2")
	require.True(t, errors.As(err, &cerr), "got %v", err)
}

func TestGroupResolve_selfReference(t *testing.T) {
	m := NewModel(map[string][]Element{
		"g": {GroupRef("g")},
	})
	_, err := m.JS("g")
	var cerr *CyclicGroupReferenceError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	require.Equal(t, []string{"g", "g"}, cerr.Cycle)
}

func TestGroupResolve_diamondIsNotCycle(t *testing.T) {
	m := NewModel(map[string][]Element{
		"top":   {GroupRef("left"), GroupRef("right")},
		"left":  {GroupRef("base"), JSFile("/left.js")},
		"right": {GroupRef("base"), JSFile("/right.js")},
		"base":  {JSFile("/base.js")},
	})
	js, err := m.JS("top")
	require.NoError(t, err)
	require.Equal(t, []string{"/base.js", "/left.js", "/right.js"}, js)
}

func TestGroupResolve_missingRef(t *testing.T) {
	m := NewModel(map[string][]Element{
		"g": {JSFile("/a.js"), GroupRef("nope")},
	})
	_, err := m.JS("g")
	var nerr *GroupNotFoundError
	require.True(t, errors.As(err, &nerr), "got %v", err)
	require.Equal(t, "nope", nerr.Name)
	require.Equal(t, "g", nerr.From)

	_, err = m.CSS("missing")
	require.True(t, errors.As(err, &nerr), "got %v", err)
	require.Equal(t, "missing", nerr.Name)
}

func TestElementString(t *testing.T) {
	require.Equal(t, "js(/a.js)", JSFile("/a.js").String())
	require.Equal(t, "group-ref(lib)", GroupRef("lib").String())
}
