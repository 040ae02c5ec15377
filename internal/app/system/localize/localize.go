// Package localize renders instants the way the Spanish-language UI shows
// them. Every function takes the display location explicitly.
package localize

import (
	"fmt"
	"time"
)

// NoDate is shown for an assignment date that was never set.
const NoDate = "No definida"

// DefaultZone is the display time zone used when none is configured.
const DefaultZone = "America/Bogota"

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// ShortDate renders t as DD/MM/YY, or NoDate when t is nil.
func ShortDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return NoDate
	}
	return in(*t, loc).Format("02/01/06")
}

// LongDate renders t as "24 de noviembre de 2024".
func LongDate(t time.Time, loc *time.Location) string {
	lt := in(t, loc)
	return fmt.Sprintf("%d de %s de %d", lt.Day(), months[lt.Month()-1], lt.Year())
}

// Clock renders t as zero-padded 24h HH:MM, so the strings sort in time order.
func Clock(t time.Time, loc *time.Location) string {
	return in(t, loc).Format("15:04")
}

// LoadLocation resolves an IANA zone name, falling back to DefaultZone
// for an empty name.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	return time.LoadLocation(name)
}

func in(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc)
}
