package sim

import (
	"cmp"
	"maps"
	"slices"
)

// TagShare is the part of a player's damage dealt under one tag list.
type TagShare struct {
	Tag     string
	DMG     float64
	Percent float64
}

// PlayerSummary is a player's damage over every trial.
type PlayerSummary struct {
	Name    string
	Total   float64
	Average float64
	Tags    []TagShare // sorted by tag list
}

// Summary aggregates a set of trials.
type Summary struct {
	Trials  int
	Aborted int
	Players []PlayerSummary
}

// Aggregate sums every player's tallies over the trials. Players keep roster
// order. Averages divide by the number of trials, aborted ones included.
func Aggregate(results []TrialResult) Summary {
	s := Summary{Trials: len(results)}
	index := make(map[string]int)
	tagIndex := make(map[string]map[string]int)

	ordered := slices.Clone(results)
	slices.SortFunc(ordered, func(a, b TrialResult) int { return cmp.Compare(a.Index, b.Index) })

	for _, res := range ordered {
		if res.Err != nil {
			s.Aborted++
		}
		for _, u := range res.Players {
			i, ok := index[u.Name]
			if !ok {
				i = len(s.Players)
				index[u.Name] = i
				tagIndex[u.Name] = make(map[string]int)
				s.Players = append(s.Players, PlayerSummary{Name: u.Name})
			}
			p := &s.Players[i]
			tags := tagIndex[u.Name]
			for _, key := range slices.Sorted(maps.Keys(u.DMG)) {
				j, ok := tags[key]
				if !ok {
					j = len(p.Tags)
					tags[key] = j
					p.Tags = append(p.Tags, TagShare{Tag: key})
				}
				p.Tags[j].DMG += u.DMG[key]
				p.Total += u.DMG[key]
			}
		}
	}

	for i := range s.Players {
		p := &s.Players[i]
		slices.SortFunc(p.Tags, func(a, b TagShare) int { return cmp.Compare(a.Tag, b.Tag) })
		if s.Trials > 0 {
			p.Average = p.Total / float64(s.Trials)
		}
		if p.Total <= 0 {
			continue
		}
		for j := range p.Tags {
			p.Tags[j].Percent = p.Tags[j].DMG / p.Total * 100
		}
	}
	return s
}
