package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/irammini/ecosystem/data"
)

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	fsys := fstest.MapFS{
		"locales/en.json": {Data: []byte(`{"greeting":"Hello","only_en":"English only"}`)},
		"locales/vi.json": {Data: []byte(`{"greeting":"Xin chào","empty":""}`)},
	}
	b, err := LoadFS(fsys, "locales", "en", []string{"vi", "en", "ja"})
	require.NoError(t, err)
	return b
}

func TestTFallsBackToDefaultThenKey(t *testing.T) {
	t.Parallel()
	b := testBundle(t)

	require.Equal(t, "Xin chào", b.T("vi", "greeting"))
	require.Equal(t, "English only", b.T("vi", "only_en"))
	require.Equal(t, "English only", b.T("ja", "only_en"), "missing ja table must fall back")
	require.Equal(t, "Hello", b.T("xx", "greeting"), "unknown language must not fail")
	require.Equal(t, "missing.key", b.T("vi", "missing.key"))
	require.Equal(t, "empty", b.T("vi", "empty"), "blank translations degrade like missing ones")
}

func TestLoadFSRequiresFallback(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{"locales/vi.json": {Data: []byte(`{}`)}}
	_, err := LoadFS(fsys, "locales", "en", []string{"vi", "en"})
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	b := testBundle(t)

	got, ok := b.Normalize("EN-gb")
	require.True(t, ok)
	require.Equal(t, "en", got)

	_, ok = b.Normalize("de")
	require.False(t, ok)

	_, ok = b.Normalize("not a tag!")
	require.False(t, ok)
}

func TestEmbeddedLocalesLoad(t *testing.T) {
	t.Parallel()
	b, err := LoadFS(data.FS, "locales", "en", Codes())
	require.NoError(t, err)
	require.Equal(t, []string{"vi", "en", "fr", "ru", "es", "ja"}, b.Supported())
	require.NotEqual(t, "filter_all", b.T("ja", "filter_all"))
}
