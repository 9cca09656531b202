// Package locale holds the immutable interface text for every supported language.
//
// Locales are loaded once from embedded YAML files and keyed by short code
// ("eng", "ua", "ru", "ja"). Each file also carries the BCP 47 tag used for
// plural rules and Accept-Language matching.
package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// DefaultCode is the locale used when a requested code is unknown.
const DefaultCode = "eng"

const keyOptionsCount = "wheel.options_count"

// pluralForms lists the CLDR plural categories in the order cases are registered.
var pluralForms = []string{"zero", "one", "two", "few", "many", "other"}

// WheelText is the wheel widget's label set.
type WheelText struct {
	Title             string            `yaml:"title" json:"title"`
	InputPlaceholder  string            `yaml:"input_placeholder" json:"input_placeholder"`
	Add               string            `yaml:"add" json:"add"`
	Spin              string            `yaml:"spin" json:"spin"`
	Reset             string            `yaml:"reset" json:"reset"`
	RemoveAndContinue string            `yaml:"remove_and_continue" json:"remove_and_continue"`
	Close             string            `yaml:"close" json:"close"`
	ResultTitle       string            `yaml:"result_title" json:"result_title"`
	Empty             string            `yaml:"empty" json:"empty"`
	OptionsCount      map[string]string `yaml:"options_count" json:"options_count"`
	DefaultOptions    []string          `yaml:"default_options" json:"default_options"`
}

// ModesText labels the widget switcher.
type ModesText struct {
	Button string `yaml:"button" json:"button"`
	Title  string `yaml:"title" json:"title"`
	Wheel  string `yaml:"wheel" json:"wheel"`
	Random string `yaml:"random" json:"random"`
	Coin   string `yaml:"coin" json:"coin"`
}

// CoinText is the coin widget's label set.
type CoinText struct {
	Title  string `yaml:"title" json:"title"`
	Flip   string `yaml:"flip" json:"flip"`
	Reset  string `yaml:"reset" json:"reset"`
	Heads  string `yaml:"heads" json:"heads"`
	Tails  string `yaml:"tails" json:"tails"`
	Footer string `yaml:"footer" json:"footer"`
}

// NumberText is the range generator's label set.
type NumberText struct {
	Title    string `yaml:"title" json:"title"`
	Back     string `yaml:"back" json:"back"`
	Min      string `yaml:"min" json:"min"`
	Max      string `yaml:"max" json:"max"`
	Generate string `yaml:"generate" json:"generate"`
	Tip      string `yaml:"tip" json:"tip"`
	Invalid  string `yaml:"invalid" json:"invalid"`
}

// Locale is one language's complete label set. Treat it as read-only.
type Locale struct {
	Code   string     `yaml:"code" json:"code"`
	Tag    string     `yaml:"tag" json:"tag"`
	Name   string     `yaml:"name" json:"name"`
	Wheel  WheelText  `yaml:"wheel" json:"wheel"`
	Modes  ModesText  `yaml:"modes" json:"modes"`
	Coin   CoinText   `yaml:"coin" json:"coin"`
	Number NumberText `yaml:"number" json:"number"`

	tag     language.Tag
	printer *message.Printer
}

// LanguageTag returns the parsed BCP 47 tag.
func (l *Locale) LanguageTag() language.Tag { return l.tag }

// DefaultOptions returns a fresh copy of the default wheel options.
func (l *Locale) DefaultOptions() []string {
	out := make([]string, len(l.Wheel.DefaultOptions))
	copy(out, l.Wheel.DefaultOptions)
	return out
}

// OptionsCount renders the option-count chip, e.g. "3 options" or "5 вариантов".
func (l *Locale) OptionsCount(n int) string {
	return l.printer.Sprintf(keyOptionsCount, n)
}

// Face returns the label for a coin face index (0 heads, 1 tails).
func (l *Locale) Face(face int) string {
	if face == 1 {
		return l.Coin.Tails
	}
	return l.Coin.Heads
}

// Table is the immutable set of loaded locales.
type Table struct {
	locales map[string]*Locale
	codes   []string
	matcher language.Matcher
	// matched[i] is the code for the i-th tag given to matcher.
	matched []string
}

//go:embed locales/*.yaml
var embedded embed.FS

var defaultTable = mustLoad()

// Default returns the process-wide table built from the embedded locale files.
func Default() *Table { return defaultTable }

func mustLoad() *Table {
	t, err := LoadFS(embedded)
	if err != nil {
		panic("locale: loading embedded locales: " + err.Error())
	}
	return t
}

// LoadFS loads every locales/*.yaml file in fsys.
//
// Precondition: fsys must contain a file for DefaultCode.
// Postcondition: Returns a Table in which every locale has a parsed tag and
// a complete option-count message, or a non-nil error.
func LoadFS(fsys fs.FS) (*Table, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	sort.Strings(paths)

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	t := &Table{locales: make(map[string]*Locale, len(paths))}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var l Locale
		if err := yaml.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("parsing locale file %s: %w", path, err)
		}
		if err := l.validate(); err != nil {
			return nil, fmt.Errorf("locale file %s: %w", path, err)
		}
		if _, dup := t.locales[l.Code]; dup {
			return nil, fmt.Errorf("locale file %s: duplicate code %q", path, l.Code)
		}
		if l.tag, err = language.Parse(l.Tag); err != nil {
			return nil, fmt.Errorf("locale file %s: parsing tag %q: %w", path, l.Tag, err)
		}
		if err := b.Set(l.tag, keyOptionsCount, pluralMessage(l.Wheel.OptionsCount)); err != nil {
			return nil, fmt.Errorf("locale file %s: registering plurals: %w", path, err)
		}
		t.locales[l.Code] = &l
		t.codes = append(t.codes, l.Code)
	}

	def, ok := t.locales[DefaultCode]
	if !ok {
		return nil, fmt.Errorf("default locale %q is not defined", DefaultCode)
	}
	// The default goes first so the matcher falls back to it.
	tags := []language.Tag{def.tag}
	t.matched = []string{DefaultCode}
	for _, code := range t.codes {
		l := t.locales[code]
		l.printer = message.NewPrinter(l.tag, message.Catalog(b))
		if code != DefaultCode {
			tags = append(tags, l.tag)
			t.matched = append(t.matched, code)
		}
	}
	t.matcher = language.NewMatcher(tags)
	return t, nil
}

func (l *Locale) validate() error {
	var errs []string
	if strings.TrimSpace(l.Code) == "" {
		errs = append(errs, "code is required")
	}
	if strings.TrimSpace(l.Tag) == "" {
		errs = append(errs, "tag is required")
	}
	if len(l.Wheel.DefaultOptions) == 0 {
		errs = append(errs, "wheel.default_options must not be empty")
	}
	if l.Wheel.OptionsCount["other"] == "" {
		errs = append(errs, "wheel.options_count.other is required")
	}
	if l.Coin.Heads == "" || l.Coin.Tails == "" {
		errs = append(errs, "coin.heads and coin.tails are required")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func pluralMessage(forms map[string]string) catalog.Message {
	var cases []interface{}
	for _, form := range pluralForms {
		if text, ok := forms[form]; ok {
			cases = append(cases, form, text)
		}
	}
	return plural.Selectf(1, "%d", cases...)
}

// Lookup returns the locale for code, or the DefaultCode locale when code is unknown.
//
// Postcondition: Returns a non-nil Locale.
func (t *Table) Lookup(code string) *Locale {
	if l, ok := t.locales[code]; ok {
		return l
	}
	return t.locales[DefaultCode]
}

// Has reports whether code names a loaded locale.
func (t *Table) Has(code string) bool {
	_, ok := t.locales[code]
	return ok
}

// Codes returns all locale codes in file order.
func (t *Table) Codes() []string {
	out := make([]string, len(t.codes))
	copy(out, t.codes)
	return out
}

// Match resolves an Accept-Language header value to a locale code.
//
// Postcondition: Returns DefaultCode when nothing in accept is supported.
func (t *Table) Match(accept string) string {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultCode
	}
	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No || idx >= len(t.matched) {
		return DefaultCode
	}
	return t.matched[idx]
}
