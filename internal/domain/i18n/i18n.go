// Package i18n provides FR/EN translation of feed metadata.
package i18n

import (
	"fmt"
	"strings"
)

// Supported languages. French is the primary feed language; English
// values are translated on the fly.
const (
	LangFR = "fr"
	LangEN = "en"
)

var days = map[string]string{
	"lundi":    "Monday",
	"mardi":    "Tuesday",
	"mercredi": "Wednesday",
	"jeudi":    "Thursday",
	"vendredi": "Friday",
	"samedi":   "Saturday",
	"dimanche": "Sunday",
}

var monthsFR = []string{"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre"}

var monthsEN = []string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

// Translator renders feed text in a fixed language, chosen once at
// startup from the lang URL parameter.
type Translator struct {
	lang        string
	displayYear bool
}

// New returns a translator for lang. Unknown languages fall back to French.
func New(lang string, displayYear bool) *Translator {
	if lang != LangEN {
		lang = LangFR
	}
	return &Translator{lang: lang, displayYear: displayYear}
}

// Lang returns the active language code.
func (t *Translator) Lang() string {
	return t.lang
}

// Day translates a French weekday name. Unknown values pass through.
func (t *Translator) Day(name string) string {
	if t.lang == LangFR {
		return name
	}
	if en, ok := days[strings.ToLower(strings.TrimSpace(name))]; ok {
		return en
	}
	return name
}

// Date formats a YYYY-MM-DD feed date for display, e.g. "6 juin" or
// "June 6". Malformed dates pass through untouched.
func (t *Translator) Date(date string) string {
	if date == "" {
		return ""
	}
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	var year, month, day int
	if _, err := fmt.Sscanf(date, "%d-%d-%d", &year, &month, &day); err != nil {
		return date
	}
	if month < 1 || month > 12 {
		return date
	}
	yearShort := parts[0]
	if len(yearShort) == 4 {
		yearShort = yearShort[2:]
	}
	if t.lang == LangEN {
		s := fmt.Sprintf("%s %d", monthsEN[month-1], day)
		if t.displayYear {
			s += ", " + yearShort
		}
		return s
	}
	s := fmt.Sprintf("%d %s", day, monthsFR[month-1])
	if t.displayYear {
		s += " " + yearShort
	}
	return s
}
