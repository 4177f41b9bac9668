// Package format turns optional catalog item fields into display strings.
// Every function returns Placeholder for an absent value.
package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/s0up4200/marquee/catalog"
)

// Placeholder is shown for every absent value
const Placeholder = "-"

const durationKey = "%d minutes"

func init() {
	if err := message.Set(language.English, durationKey, plural.Selectf(1, "%d",
		"=1", "%d minute",
		"other", "%d minutes",
	)); err != nil {
		panic(err)
	}
	if err := message.Set(language.German, durationKey, plural.Selectf(1, "%d",
		"=1", "%d Minute",
		"other", "%d Minuten",
	)); err != nil {
		panic(err)
	}
}

// Formatter renders locale-dependent strings
type Formatter struct {
	printer *message.Printer
}

var (
	supported = []language.Tag{language.English, language.German}
	matcher   = language.NewMatcher(supported)
)

// New creates a formatter for the given BCP 47 language. Unsupported or
// malformed tags fall back to English.
func New(lang string) *Formatter {
	tag := language.English
	if parsed, err := language.Parse(lang); err == nil {
		if _, idx, conf := matcher.Match(parsed); conf != language.No {
			tag = supported[idx]
		}
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Duration returns a pluralised runtime such as "1 minute" or "95 minutes"
func (f *Formatter) Duration(minutes int) string {
	if minutes <= 0 {
		return Placeholder
	}
	return f.printer.Sprintf(durationKey, minutes)
}

var english = New("en")

// Duration formats minutes in English
func Duration(minutes int) string {
	return english.Duration(minutes)
}

// Overview returns the text, or Placeholder when it is blank
func Overview(text string) string {
	if strings.TrimSpace(text) == "" {
		return Placeholder
	}
	return text
}

// JoinNames joins the selected names with ", " in order. Blank names are
// skipped so no dangling separator is left behind.
func JoinNames[T any](items []T, name func(T) string) string {
	var sb strings.Builder
	for _, item := range items {
		n := strings.TrimSpace(name(item))
		if n == "" {
			continue
		}
		sb.WriteString(n)
		sb.WriteString(", ")
	}

	joined := strings.TrimSuffix(sb.String(), ", ")
	if joined == "" {
		return Placeholder
	}
	return joined
}

// Genres joins genre names
func Genres(genres []catalog.Genre) string {
	return JoinNames(genres, func(g catalog.Genre) string { return g.Name })
}

// Languages joins spoken language names
func Languages(languages []catalog.Language) string {
	return JoinNames(languages, func(l catalog.Language) string { return l.Name })
}

// Popularity rounds to one decimal and drops a trailing ".0"
func Popularity(v float64) string {
	rounded := math.Round(v*10) / 10
	if rounded == 0 {
		// avoids "-0"
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// Release returns the year of a YYYY-MM-DD date
func Release(date string) string {
	year, _, _ := strings.Cut(strings.TrimSpace(date), "-")
	if len(year) != 4 {
		return Placeholder
	}
	if _, err := strconv.Atoi(year); err != nil {
		return Placeholder
	}
	return year
}

// Rating formats a vote average out of ten
func Rating(v float64) string {
	if v <= 0 {
		return Placeholder
	}
	return Popularity(v) + "/10"
}
