package wrobuild

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testModelXML = `<?xml version="1.0" encoding="UTF-8"?>
<groups xmlns="http://www.isdc.ro/wro">
  <group name="app">
    <js>/js/app.js</js>
    <group-ref> lib </group-ref>
    <css>
      /css/app.css
    </css>
  </group>
  <group name="lib">
    <js>/js/lib.js</js>
    <css>/css/lib.css</css>
  </group>
</groups>
`

func parseTestModel(t *testing.T, s string) *Model {
	t.Helper()
	m, err := ParseXMLModel("wro.xml", strings.NewReader(s))
	require.NoError(t, err)
	return m
}

func TestParseXMLModel(t *testing.T) {
	m := parseTestModel(t, testModelXML)
	require.Equal(t, []string{"app", "lib"}, m.Names())

	app, ok := m.Group("app")
	require.True(t, ok)
	require.Equal(t, []Element{
		JSFile("/js/app.js"),
		GroupRef("lib"),
		CSSFile("/css/app.css"),
	}, app.Elements())

	js, err := m.JS("app")
	require.NoError(t, err)
	require.Equal(t, []string{"/js/app.js", "/js/lib.js"}, js)

	css, err := m.CSS("app")
	require.NoError(t, err)
	require.Equal(t, []string{"/css/lib.css", "/css/app.css"}, css)
}

func TestParseXMLModel_unknownElement(t *testing.T) {
	const s = `<groups>
  <group name="a">
    <js>/a.js</js>
    <image>/a.png</image>
  </group>
</groups>`
	m, err := ParseXMLModel("wro.xml", strings.NewReader(s))
	require.Nil(t, m)

	var merr *MalformedModelError
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errs, 1)
	require.Equal(t, 4, merr.Errs[0].Pos.Line)
	require.Contains(t, err.Error(), "unknown element <image>")
}

func TestParseXMLModel_malformed(t *testing.T) {
	for _, test := range []struct {
		name string
		xml  string
	}{
		{"unknown top level", `<groups><model/></groups>`},
		{"outside group", `<groups><js>/a.js</js></groups>`},
		{"no name", `<groups><group><js>/a.js</js></group></groups>`},
		{"nested", `<groups><group name="a"><js><b/></js></group></groups>`},
		{"syntax", `<groups><group name="a"></groups>`},
		{"unclosed text", `<groups><group name="a"><js>/a.js`},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseXMLModel("wro.xml", strings.NewReader(test.xml))
			var merr *MalformedModelError
			require.True(t, errors.As(err, &merr), "got %v", err)
		})
	}
}

func TestParseXMLModel_redeclared(t *testing.T) {
	m := parseTestModel(t, `<groups>
  <group name="a"><js>/first.js</js></group>
  <group name="a"><js>/second.js</js></group>
</groups>`)
	js, err := m.JS("a")
	require.NoError(t, err)
	require.Equal(t, []string{"/second.js"}, js)
}

func TestParseXMLModel_lazyResolve(t *testing.T) {
	m := parseTestModel(t, testModelXML)
	for _, name := range m.Names() {
		g, _ := m.Group(name)
		require.Nil(t, g.res, "group %q resolved while parsing", name)
	}
}

func TestReadModel_jsonx(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "groups.jsonx")
	const content = `group {
    Name: "app",
    Items: [
        {JS: "/js/app.js"},
        {Ref: "lib"},
        {CSS: " /css/app.css "},
    ],
}
group {
    Name: "lib",
    Items: [{JS: "/js/lib.js"}],
}
`
	require.NoError(t, os.WriteFile(f, []byte(content), 0644))

	m, err := ReadModel(f)
	require.NoError(t, err)
	require.Equal(t, f, m.File())

	js, err := m.JS("app")
	require.NoError(t, err)
	require.Equal(t, []string{"/js/app.js", "/js/lib.js"}, js)

	css, err := m.CSS("app")
	require.NoError(t, err)
	require.Equal(t, []string{"/css/app.css"}, css)
}

func TestGroupItemElement(t *testing.T) {
	e, ok := (&GroupItem{Ref: "lib"}).element()
	require.True(t, ok)
	require.Equal(t, GroupRef("lib"), e)

	_, ok = (&GroupItem{}).element()
	require.False(t, ok)

	_, ok = (&GroupItem{JS: "/a.js", CSS: "/a.css"}).element()
	require.False(t, ok)

	_, ok = (&GroupItem{JS: "  "}).element()
	require.False(t, ok, "blank path")

	e, ok = (&GroupItem{JS: " \t", CSS: " /a.css "}).element()
	require.True(t, ok)
	require.Equal(t, CSSFile("/a.css"), e)
}

func TestReadModel_jsonxBlankItem(t *testing.T) {
	f := filepath.Join(t.TempDir(), "groups.jsonx")
	const content = `group {
    Name: "app",
    Items: [{JS: "   "}],
}
`
	require.NoError(t, os.WriteFile(f, []byte(content), 0644))

	_, err := ReadModel(f)
	var merr *MalformedModelError
	require.True(t, errors.As(err, &merr), "got %v", err)
}

func TestReadModel_xmlFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "wro.xml")
	require.NoError(t, os.WriteFile(f, []byte(testModelXML), 0644))

	m, err := ReadModel(f)
	require.NoError(t, err)
	require.Equal(t, []string{"app", "lib"}, m.Names())

	_, err = ReadModel(filepath.Join(dir, "missing.xml"))
	require.Error(t, err)
}
