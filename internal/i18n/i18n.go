package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"golang.org/x/text/language"
)

// Language describes one entry of the language switcher.
type Language struct {
	Code string
	Flag string
}

// Languages is the closed, ordered set the page can be displayed in.
var Languages = []Language{
	{Code: "vi", Flag: "🇻🇳"},
	{Code: "en", Flag: "🇬🇧"},
	{Code: "fr", Flag: "🇫🇷"},
	{Code: "ru", Flag: "🇷🇺"},
	{Code: "es", Flag: "🇪🇸"},
	{Code: "ja", Flag: "🇯🇵"},
}

// Codes returns the language codes of Languages in display order.
func Codes() []string {
	out := make([]string, 0, len(Languages))
	for _, l := range Languages {
		out = append(out, l.Code)
	}
	return out
}

type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported map[string]struct{}
	order     []string
}

// Load reads <dir>/<lang>.json from the local filesystem.
func Load(dir string, fallback string, supported []string) (*Bundle, error) {
	return LoadFS(os.DirFS(dir), ".", fallback, supported)
}

// LoadFS reads <dir>/<lang>.json tables from fsys. Missing tables are tolerated
// except for the fallback language.
func LoadFS(fsys fs.FS, dir string, fallback string, supported []string) (*Bundle, error) {
	if len(supported) == 0 {
		supported = Codes()
	}
	b := &Bundle{
		dict:      map[string]map[string]string{},
		fallback:  fallback,
		supported: map[string]struct{}{},
		order:     append([]string(nil), supported...),
	}
	for _, l := range supported {
		b.supported[l] = struct{}{}
		raw, err := fs.ReadFile(fsys, path.Join(dir, l+".json"))
		if err != nil {
			// allow missing file for non-default locales
			if l == fallback || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %s not loaded", fallback)
	}
	return b, nil
}

// Supported lists the configured languages in configuration order.
func (b *Bundle) Supported() []string {
	return append([]string(nil), b.order...)
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

func (b *Bundle) isSupported(lang string) bool {
	_, ok := b.supported[lang]
	return ok
}

// T returns translation for key in lang, falling back to default and finally key.
func (b *Bundle) T(lang, key string) string {
	if b == nil {
		return key
	}
	if lang != "" {
		if m, ok := b.dict[lang]; ok {
			if v, ok := m[key]; ok && v != "" {
				return v
			}
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok && v != "" {
			return v
		}
	}
	return key
}

// Translator returns T bound to lang.
func (b *Bundle) Translator(lang string) func(string) string {
	return func(key string) string { return b.T(lang, key) }
}

// Normalize canonicalizes a BCP 47 tag down to its base language and reports
// whether that language is supported. "EN-gb" yields ("en", true).
func (b *Bundle) Normalize(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	s := base.String()
	return s, b.isSupported(s)
}
