package game

import (
	"slices"
	"sort"
)

// Filter returns the records matching c, stable-sorted by date. The dataset
// is left untouched.
func Filter(dataset Dataset, c Criteria) []Record {
	out := make([]Record, 0)
	for _, record := range dataset.Records {
		if c.matches(record) {
			out = append(out, record)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	return out
}

// Project walks view in order and returns the inclusive running totals for
// every record. view must already be sorted.
func Project(view []Record) ([]CumulativePoint, Totals) {
	series := make([]CumulativePoint, 0, len(view))
	var wins, losses int64
	for _, record := range view {
		if record.IsWin() {
			wins++
		} else {
			losses++
		}
		series = append(series, CumulativePoint{
			Date:   record.Date,
			Wins:   wins,
			Losses: losses,
		})
	}

	return series, Totals{Wins: wins, Losses: losses}
}

// Seasons lists the distinct season years in ascending order.
func Seasons(dataset Dataset) []int {
	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, record := range dataset.Records {
		if _, ok := seen[record.SeasonYear]; ok {
			continue
		}
		seen[record.SeasonYear] = struct{}{}
		out = append(out, record.SeasonYear)
	}
	slices.Sort(out)

	return out
}

// Teams lists the distinct team ids in ascending order.
func Teams(dataset Dataset) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, record := range dataset.Records {
		if _, ok := seen[record.TeamID]; ok {
			continue
		}
		seen[record.TeamID] = struct{}{}
		out = append(out, record.TeamID)
	}
	slices.Sort(out)

	return out
}

// DefaultSeason is the latest season, or 0 when there is none.
func DefaultSeason(seasons []int) int {
	if len(seasons) == 0 {
		return 0
	}
	return seasons[len(seasons)-1]
}

// DefaultTeam prefers preferred when listed, else the first team.
func DefaultTeam(teams []string, preferred string) string {
	if len(teams) == 0 {
		return ""
	}
	if slices.Contains(teams, preferred) {
		return preferred
	}
	return teams[0]
}
