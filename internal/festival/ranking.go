package festival

import (
	"fmt"
	"sort"
	"strings"
)

type Entry struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Overall   float64 `json:"overall"`
	Popular   float64 `json:"popular"`
	Technical float64 `json:"technical"`
}

type Group struct {
	Category string  `json:"category"`
	Entries  []Entry `json:"entries"`
}

type Ranking struct {
	Groups []Group `json:"groups"`
}

// Rank blends popular and technical averages into per-category leaderboards.
// Groups follow the first appearance of each category in artists; entries are
// sorted by overall score, descending, keeping roster order on ties.
// Rank only reads its inputs.
func Rank(artists []Artist, popular PopularVotes, technical TechnicalVotes) Ranking {
	var order []string
	groups := make(map[string][]Entry)

	for _, a := range artists {
		cat := a.CategoryOrDefault()
		if _, seen := groups[cat]; !seen {
			order = append(order, cat)
		}

		pop := PopularAverage(popular[a.Key])
		tech := TechnicalAverage(technical[a.Key])
		groups[cat] = append(groups[cat], Entry{
			Key:       a.Key,
			Name:      a.Name,
			Overall:   (pop + tech) / 2,
			Popular:   pop,
			Technical: tech,
		})
	}

	r := Ranking{Groups: make([]Group, 0, len(order))}
	for _, cat := range order {
		entries := groups[cat]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Overall > entries[j].Overall
		})
		r.Groups = append(r.Groups, Group{Category: cat, Entries: entries})
	}
	return r
}

// PopularAverage is the mean of the recorded scores, 0 when there are none.
func PopularAverage(scores map[int64]float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// TechnicalAverage is the mean, over judges with at least one aspect, of each
// judge's own mean. Partial records count with whatever aspects they hold.
func TechnicalAverage(judges map[int64]map[string]float64) float64 {
	var sum float64
	var n int
	for _, aspects := range judges {
		if len(aspects) == 0 {
			continue
		}
		sum += JudgeMean(aspects)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// JudgeMean averages the aspects one judge scored.
func JudgeMean(aspects map[string]float64) float64 {
	if len(aspects) == 0 {
		return 0
	}
	var sum float64
	for _, s := range aspects {
		sum += s
	}
	return sum / float64(len(aspects))
}

// Report renders the ranking as plain text with two decimals per figure.
func (r Ranking) Report() string {
	var b strings.Builder
	b.WriteString("🏆 Risultati Votazioni:\n")
	for _, g := range r.Groups {
		if len(g.Entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\nCategoria: %s\n", g.Category)
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "%s: %.2f\n- Popolare: %.2f\n- Tecnica: %.2f\n", e.Name, e.Overall, e.Popular, e.Technical)
		}
	}
	return b.String()
}
