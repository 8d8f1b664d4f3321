package seasonal

import "time"

// SeasonFor возвращает метеорологический сезон для даты и полушария.
// Границы по календарным месяцам: декабрь-февраль это зима севера и лето юга.
func SeasonFor(t time.Time, hemisphere string) Season {
	var s Season
	switch t.Month() {
	case time.December, time.January, time.February:
		s = SeasonWinter
	case time.March, time.April, time.May:
		s = SeasonSpring
	case time.June, time.July, time.August:
		s = SeasonSummer
	default:
		s = SeasonAutumn
	}

	if hemisphere == "south" {
		s = opposite(s)
	}

	return s
}

// SeasonEnd — первый момент следующего сезона; прогноз действителен до него
func SeasonEnd(t time.Time) time.Time {
	year := t.Year()
	switch t.Month() {
	case time.December:
		return time.Date(year+1, time.March, 1, 0, 0, 0, 0, t.Location())
	case time.January, time.February:
		return time.Date(year, time.March, 1, 0, 0, 0, 0, t.Location())
	case time.March, time.April, time.May:
		return time.Date(year, time.June, 1, 0, 0, 0, 0, t.Location())
	case time.June, time.July, time.August:
		return time.Date(year, time.September, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(year, time.December, 1, 0, 0, 0, 0, t.Location())
	}
}

func opposite(s Season) Season {
	switch s {
	case SeasonWinter:
		return SeasonSummer
	case SeasonSummer:
		return SeasonWinter
	case SeasonSpring:
		return SeasonAutumn
	default:
		return SeasonSpring
	}
}
