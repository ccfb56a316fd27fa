package festival_test

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/playperu/jurybot/internal/festival"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRankBlendsAverages(t *testing.T) {
	artists := []festival.Artist{
		{Key: "artist1", Name: "Luca", Category: festival.CategoryYoungTalents},
		{Key: "artist2", Name: "Mia", Category: festival.CategoryYoungTalents},
	}
	popular := festival.PopularVotes{
		"artist1": {1: 6.8},
		"artist2": {1: 8.0, 2: 8.0},
	}
	technical := festival.TechnicalVotes{
		"artist1": {10: {"Intonazione": 7.0}},
		"artist2": {10: {"Intonazione": 6, "Interpretazione": 6}},
	}

	r := festival.Rank(artists, popular, technical)

	if len(r.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(r.Groups))
	}
	entries := r.Groups[0].Entries
	if entries[0].Name != "Mia" {
		t.Fatalf("first = %q, want Mia", entries[0].Name)
	}
	if !approx(entries[0].Overall, 7.0) {
		t.Errorf("Mia overall = %v, want 7.0", entries[0].Overall)
	}
	if !approx(entries[1].Overall, 6.9) {
		t.Errorf("Luca overall = %v, want 6.9", entries[1].Overall)
	}
}

func TestRankGroupsByCategory(t *testing.T) {
	artists := []festival.Artist{
		{Key: "artist1", Name: "A", Category: festival.CategoryDream},
		{Key: "artist2", Name: "B"},
		{Key: "artist3", Name: "C", Category: festival.CategoryDream},
	}
	r := festival.Rank(artists, nil, nil)

	var cats []string
	for _, g := range r.Groups {
		cats = append(cats, g.Category)
	}
	want := []string{festival.CategoryDream, festival.DefaultCategory}
	if !reflect.DeepEqual(cats, want) {
		t.Fatalf("categories = %v, want %v", cats, want)
	}
	if got := r.Groups[0].Entries; got[0].Name != "A" || got[1].Name != "C" {
		t.Errorf("ties should keep roster order, got %v", got)
	}
	if e := r.Groups[1].Entries[0]; e.Overall != 0 || e.Popular != 0 || e.Technical != 0 {
		t.Errorf("artist without votes should score 0, got %+v", e)
	}
}

func TestTechnicalAverageCountsPartialRecords(t *testing.T) {
	judges := map[int64]map[string]float64{
		1: {"Intonazione": 10, "Interpretazione": 8, "Tecnica Musicale/Strumentale": 6, "Presenza Scenica": 4},
		2: {"Intonazione": 9},
		3: {},
	}
	if got := festival.TechnicalAverage(judges); !approx(got, 8.0) {
		t.Errorf("TechnicalAverage = %v, want 8.0", got)
	}
}

func TestRankIsIdempotent(t *testing.T) {
	artists := []festival.Artist{
		{Key: "artist1", Name: "A"},
		{Key: "artist2", Name: "B", Category: festival.CategoryDream},
	}
	popular := festival.PopularVotes{"artist1": {1: 5}, "artist2": {1: 9, 2: 3}}
	technical := festival.TechnicalVotes{"artist2": {7: {"Intonazione": 4}}}

	first := festival.Rank(artists, popular, technical)
	second := festival.Rank(artists, popular, technical)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("rankings differ:\n%v\n%v", first, second)
	}
	if len(popular["artist2"]) != 2 || len(technical["artist2"][7]) != 1 {
		t.Fatal("Rank mutated its inputs")
	}
}

func TestReport(t *testing.T) {
	r := festival.Ranking{Groups: []festival.Group{{
		Category: festival.CategoryDream,
		Entries:  []festival.Entry{{Name: "Mia", Overall: 7, Popular: 8, Technical: 6}},
	}}}
	got := r.Report()
	for _, want := range []string{"Categoria: Sogno nel cassetto", "Mia: 7.00", "- Popolare: 8.00", "- Tecnica: 6.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}
