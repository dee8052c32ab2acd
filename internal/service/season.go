package service

import "time"

// Season is one of the four calendar seasons used to hint keyword expansion.
type Season string

const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonAutumn Season = "Autumn"
	SeasonWinter Season = "Winter"
)

// SeasonOf maps a month/day pair to its season. Boundaries are inclusive:
// Spring Mar 20 - Jun 20, Summer Jun 21 - Sep 22, Autumn Sep 23 - Dec 20,
// Winter Dec 21 - Mar 19 (wrapping the year boundary). The comparison is
// year-agnostic, so Feb 29 resolves the same as any other February day.
func SeasonOf(month time.Month, day int) Season {
	md := int(month)*100 + day
	switch {
	case md >= 320 && md <= 620:
		return SeasonSpring
	case md >= 621 && md <= 922:
		return SeasonSummer
	case md >= 923 && md <= 1220:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

// CurrentSeason returns the season for the given time.
func CurrentSeason(t time.Time) Season {
	return SeasonOf(t.Month(), t.Day())
}
