package wrobuild

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, f, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(f), 0755))
	require.NoError(t, os.WriteFile(f, []byte(content), 0644))
}

// touch moves the modification time of f forward, so the change is visible
// even on filesystems with coarse timestamps.
func touch(t *testing.T, f string, d time.Duration) {
	t.Helper()
	info, err := os.Stat(f)
	require.NoError(t, err)
	mt := info.ModTime().Add(d)
	require.NoError(t, os.Chtimes(f, mt, mt))
}

type detectorTest struct {
	t      *testing.T
	root   string
	config *Config
}

func newDetectorTest(t *testing.T, snapshot string) *detectorTest {
	root := t.TempDir()
	c := &Config{
		Src:   filepath.Join(root, "src"),
		Model: filepath.Join(root, "wro.xml"),
	}
	if snapshot != "" {
		c.Snapshot = filepath.Join(root, "out", snapshot)
	}
	writeTestFile(t, filepath.Join(c.Src, "js", "a.js"), "a")
	writeTestFile(t, filepath.Join(c.Src, "css", "a.css"), "a")
	writeTestFile(t, c.Model, "<groups/>")
	return &detectorTest{t: t, root: root, config: c}
}

func (dt *detectorTest) detect() (bool, []string) {
	t := dt.t
	t.Helper()
	d, err := NewStatDetector(dt.config)
	require.NoError(t, err)
	defer d.Close()

	ctx := context.Background()
	modified, err := d.DescriptorModified(ctx)
	require.NoError(t, err)
	files, err := d.ChangedFiles(ctx)
	require.NoError(t, err)
	require.NoError(t, d.Commit())
	return modified, files
}

func testStatDetector(t *testing.T, snapshot string) {
	dt := newDetectorTest(t, snapshot)
	src := dt.config.Src

	modified, files := dt.detect()
	require.True(t, modified)
	require.Equal(t, []string{"css/a.css", "js/a.js"}, files)

	modified, files = dt.detect()
	require.False(t, modified)
	require.Empty(t, files)

	writeTestFile(t, filepath.Join(src, "js", "a.js"), "aa")
	touch(t, filepath.Join(src, "js", "a.js"), time.Second)
	writeTestFile(t, filepath.Join(src, "js", "b.js"), "b")
	require.NoError(t, os.Remove(filepath.Join(src, "css", "a.css")))
	modified, files = dt.detect()
	require.False(t, modified)
	require.Equal(t, []string{"css/a.css", "js/a.js", "js/b.js"}, files)

	touch(t, dt.config.Model, time.Second)
	modified, files = dt.detect()
	require.True(t, modified)
	require.Empty(t, files)
}

func TestStatDetector_json(t *testing.T) {
	testStatDetector(t, "snapshot.json")
}

func TestStatDetector_sqlite(t *testing.T) {
	testStatDetector(t, "snapshot.db")
}

func TestStatDetector_memory(t *testing.T) {
	dt := newDetectorTest(t, "")

	// Every detector starts without a snapshot.
	for i := 0; i < 2; i++ {
		modified, files := dt.detect()
		require.True(t, modified)
		require.Equal(t, []string{"css/a.css", "js/a.js"}, files)
	}
}

func TestStatDetector_skipsSnapshotInSource(t *testing.T) {
	dt := newDetectorTest(t, "")
	dt.config.Snapshot = filepath.Join(dt.config.Src, "snapshot.json")

	_, files := dt.detect()
	require.Equal(t, []string{"css/a.css", "js/a.js"}, files)
	_, files = dt.detect()
	require.Empty(t, files)
}

func TestStatDetector_skipsOutputInSource(t *testing.T) {
	dt := newDetectorTest(t, "snapshot.json")
	dt.config.Out = filepath.Join(dt.config.Src, "wro")
	dt.config.JSOut = filepath.Join(dt.config.Src, "bundles", "js")
	writeTestFile(t, filepath.Join(dt.config.Out, "app.css"), "x")
	writeTestFile(t, filepath.Join(dt.config.JSOut, "app.js"), "x")

	_, files := dt.detect()
	require.Equal(t, []string{"css/a.css", "js/a.js"}, files)

	writeTestFile(t, filepath.Join(dt.config.Out, "app.css"), "xx")
	writeTestFile(t, filepath.Join(dt.config.JSOut, "lib.js"), "x")
	_, files = dt.detect()
	require.Empty(t, files)
}

func TestStatDetector_outputIsSource(t *testing.T) {
	dt := newDetectorTest(t, "snapshot.json")
	dt.config.Out = dt.config.Src

	_, files := dt.detect()
	require.Equal(t, []string{"css/a.css", "js/a.js"}, files)
}

func TestStatDetector_descriptor(t *testing.T) {
	dt := newDetectorTest(t, "snapshot.json")
	dt.config.Descriptor = filepath.Join(dt.root, "pom.xml")
	dt.detect()

	writeTestFile(t, dt.config.Descriptor, "<project/>")
	modified, _ := dt.detect()
	require.True(t, modified)

	modified, _ = dt.detect()
	require.False(t, modified)

	require.NoError(t, os.Remove(dt.config.Descriptor))
	modified, _ = dt.detect()
	require.True(t, modified)
}

func TestStatDetector_missingSource(t *testing.T) {
	d, err := NewStatDetector(&Config{
		Src: filepath.Join(t.TempDir(), "missing"),
	})
	require.NoError(t, err)
	defer d.Close()

	_, err = d.ChangedFiles(context.Background())
	require.Error(t, err)
}

func TestStatDetector_canceled(t *testing.T) {
	dt := newDetectorTest(t, "")
	d, err := NewStatDetector(dt.config)
	require.NoError(t, err)
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.ChangedFiles(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
