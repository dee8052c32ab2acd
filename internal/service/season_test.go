package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeasonOf(t *testing.T) {
	tests := []struct {
		name  string
		month time.Month
		day   int
		want  Season
	}{
		{"spring starts Mar 20", time.March, 20, SeasonSpring},
		{"day before spring", time.March, 19, SeasonWinter},
		{"spring ends Jun 20", time.June, 20, SeasonSpring},
		{"summer starts Jun 21", time.June, 21, SeasonSummer},
		{"summer ends Sep 22", time.September, 22, SeasonSummer},
		{"autumn starts Sep 23", time.September, 23, SeasonAutumn},
		{"autumn ends Dec 20", time.December, 20, SeasonAutumn},
		{"winter starts Dec 21", time.December, 21, SeasonWinter},
		{"new year is winter", time.January, 1, SeasonWinter},
		{"leap day is winter", time.February, 29, SeasonWinter},
		{"midsummer", time.July, 15, SeasonSummer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeasonOf(tt.month, tt.day))
		})
	}
}

func TestCurrentSeason(t *testing.T) {
	ts := time.Date(2024, time.October, 5, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, SeasonAutumn, CurrentSeason(ts))
}
