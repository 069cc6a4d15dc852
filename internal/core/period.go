package core

import (
	"fmt"
	"time"
)

// germanMonths holds the month names used in period keys and headers
var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// MonthName returns the German name of month m (1-12)
func MonthName(m int) string {
	if m < 1 || m > len(germanMonths) {
		return ""
	}
	return germanMonths[m-1]
}

// Key returns the cache key of the period
func (p Period) Key() string {
	if p.Type == RequestTypeMonth {
		return fmt.Sprintf("%d-%s", p.Year, MonthName(p.Number))
	}
	return fmt.Sprintf("%d-cw%d", p.Year, p.Number)
}

// Valid reports whether the period number is in range for its type
func (p Period) Valid() bool {
	switch p.Type {
	case RequestTypeMonth:
		return p.Number >= 1 && p.Number <= 12
	case RequestTypeWeek:
		return p.Number >= 1 && p.Number <= 53
	default:
		return false
	}
}

// String implements fmt.Stringer
func (p Period) String() string {
	return fmt.Sprintf("%d %s %d", p.Year, p.Type, p.Number)
}

// defaultPeriod returns the current period of the given type
func defaultPeriod(t RequestType, now time.Time) Period {
	p := Period{Type: t, Year: now.Year()}
	if t == RequestTypeMonth {
		p.Number = int(now.Month())
	} else {
		_, p.Number = now.ISOWeek()
	}
	return p
}
