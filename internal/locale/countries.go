package locale

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/petrijr/wizflow/pkg/api"
)

// nonGeographicRegion is the region libphonenumber reports for calling codes
// that do not belong to a country, such as +800.
const nonGeographicRegion = "001"

// ErrEmptyDictionary is returned when no country could be built.
var ErrEmptyDictionary = errors.New("locale: country dictionary is empty")

// BuildDictionary returns one country per supported calling code, keyed by
// the code's main region. Display names are in lang.
func BuildDictionary(lang language.Tag) (api.CountryDictionary, error) {
	namer := display.Regions(lang)
	if namer == nil {
		namer = display.English.Regions()
	}

	dict := make(api.CountryDictionary)
	for code := range phonenumbers.GetSupportedCallingCodes() {
		tag := phonenumbers.GetRegionCodeForCountryCode(code)
		if tag == "" || tag == nonGeographicRegion || tag == "ZZ" {
			continue
		}
		dict[tag] = api.Country{
			Tag:         tag,
			DisplayName: regionName(namer, tag),
			CallingCode: code,
			Flag:        Flag(tag),
		}
	}
	if len(dict) == 0 {
		return nil, ErrEmptyDictionary
	}
	return dict, nil
}

func regionName(namer display.Namer, tag string) string {
	region, err := language.ParseRegion(tag)
	if err != nil {
		return tag
	}
	if name := namer.Name(region); name != "" {
		return name
	}
	return tag
}

// Flag returns the regional indicator pair for a two-letter region code, or
// "" when tag is not two ASCII letters.
func Flag(tag string) string {
	if len(tag) != 2 {
		return ""
	}
	out := make([]rune, 0, 2)
	for i := 0; i < 2; i++ {
		c := tag[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			return ""
		}
		out = append(out, rune(c)-'A'+0x1F1E6)
	}
	return string(out)
}

// Loader builds the country dictionary once and serves the cached copy
// afterwards. Concurrent first calls share a single build.
type Loader struct {
	lang language.Tag

	group  singleflight.Group
	mu     sync.RWMutex
	dict   api.CountryDictionary
	builds atomic.Int32
}

// NewLoader returns a Loader producing display names in lang.
func NewLoader(lang language.Tag) *Loader {
	return &Loader{lang: lang}
}

// Load returns the dictionary, building it on first use. The result must be
// treated as read-only.
func (l *Loader) Load(ctx context.Context) (api.CountryDictionary, error) {
	l.mu.RLock()
	dict := l.dict
	l.mu.RUnlock()
	if dict != nil {
		return dict, nil
	}

	ch := l.group.DoChan("countries", func() (any, error) {
		l.mu.RLock()
		cached := l.dict
		l.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		l.builds.Add(1)
		built, err := BuildDictionary(l.lang)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.dict = built
		l.mu.Unlock()
		return built, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(api.CountryDictionary), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Builds reports how many times the dictionary was constructed.
func (l *Loader) Builds() int { return int(l.builds.Load()) }
