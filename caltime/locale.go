package caltime

import (
	"os"
	"strings"
	"sync"

	"github.com/ncruces/go-strftime"
	"golang.org/x/text/language"
)

// The time locale is process-wide state. Every read or switch of it
// happens inside withTimeLocale, so concurrent localized formatting is
// serialized.
var (
	localeMu      sync.Mutex
	currentLocale = "C"
)

// localeLayout is the %x and %X convention of one locale.
type localeLayout struct {
	date, time string
}

var (
	cLayout = localeLayout{"%m/%d/%y", "%H:%M:%S"}

	localeTags = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.German,
		language.French,
		language.Spanish,
		language.Italian,
		language.Dutch,
		language.Japanese,
		language.Chinese,
		language.Russian,
	}
	localeLayouts = []localeLayout{
		{"%m/%d/%Y", "%I:%M:%S %p"},
		{"%d/%m/%y", "%H:%M:%S"},
		{"%d.%m.%Y", "%H:%M:%S"},
		{"%d/%m/%Y", "%H:%M:%S"},
		{"%d/%m/%y", "%H:%M:%S"},
		{"%d/%m/%Y", "%H:%M:%S"},
		{"%d-%m-%y", "%H:%M:%S"},
		{"%Y年%m月%d日", "%H時%M分%S秒"},
		{"%Y年%m月%d日", "%H时%M分%S秒"},
		{"%d.%m.%Y", "%H:%M:%S"},
	}
	localeMatcher = language.NewMatcher(localeTags)
)

// posixLocaleTag turns a POSIX locale name such as de_DE.UTF-8@euro into
// a BCP 47 tag. C and POSIX have no tag.
func posixLocaleTag(name string) (language.Tag, bool) {
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	if name == "" || name == "C" || name == "POSIX" {
		return language.Und, false
	}
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		log.Debugf("unrecognized locale %q: %v", name, err)
		return language.Und, false
	}
	return tag, true
}

// layoutFor returns the conventions of the closest supported locale.
// Unknown locales fall back to C.
func layoutFor(name string) localeLayout {
	tag, ok := posixLocaleTag(name)
	if !ok {
		return cLayout
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return cLayout
	}
	return localeLayouts[idx]
}

// environmentLocale resolves the time locale the environment asks for,
// LC_ALL over LC_TIME over LANG.
func environmentLocale() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "C"
}

// withTimeLocale holds the locale lock, switches the process time locale
// to name, runs fn and switches back.
func withTimeLocale(name string, fn func(layout localeLayout)) {
	localeMu.Lock()
	defer localeMu.Unlock()
	previous := currentLocale
	currentLocale = name
	defer func() { currentLocale = previous }()
	fn(layoutFor(name))
}

// SetTimeLocale sets the process-wide time locale by POSIX name. It
// returns the previous value.
func SetTimeLocale(name string) string {
	localeMu.Lock()
	defer localeMu.Unlock()
	previous := currentLocale
	currentLocale = name
	return previous
}

// TimeLocale returns the process-wide time locale.
func TimeLocale() string {
	localeMu.Lock()
	defer localeMu.Unlock()
	return currentLocale
}

// ToLocalizedTime formats t as the environment locale writes a date and
// time (strftime "%x %X"). The process time locale is switched for the
// call and restored afterwards.
func (t CalendarTime) ToLocalizedTime() string {
	t.check()
	var out string
	withTimeLocale(environmentLocale(), func(l localeLayout) {
		out = strftime.Format(l.date+" "+l.time, t.Time())
	})
	return out
}
