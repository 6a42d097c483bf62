package analysis

import (
	"reflect"
	"sort"
	"testing"

	"stortingspuls/internal/storting"
)

func buildSampleAggregates() *Aggregates {
	agg := NewAggregates()
	c := storting.Case{ID: "C1", Title: "Sample"}

	agg.ProcessEvent(c, storting.VotingEvent{ID: "V1", For: 50, Against: 40, Topic: "Helse"}, []Ballot{
		ballot("R1", "A", "for"), ballot("R2", "A", "for"), ballot("R3", "A", "mot"),
		ballot("R4", "B", "mot"), ballot("R5", "B", "mot"),
	})
	agg.ProcessEvent(c, storting.VotingEvent{ID: "V2", For: 80, Against: 10, Topic: "Helse"}, []Ballot{
		ballot("R1", "A", "for"), ballot("R4", "B", "for"),
	})
	agg.CasesAnalyzed++
	return agg
}

func TestBuildTablesRates(t *testing.T) {
	tables := BuildTables(buildSampleAggregates())

	// A and B disagreed on V1 and agreed on V2: 50.0%
	if len(tables.Alliances) != 1 {
		t.Fatalf("expected 1 alliance row, got %d", len(tables.Alliances))
	}
	if got := tables.Alliances[0].AgreementRate; got != 50.0 {
		t.Errorf("expected agreement rate 50.0, got %v", got)
	}

	// R3 rebelled once out of one vote
	var r3 ActivityRow
	for _, row := range tables.RepresentativeActivity {
		if row.Name == "R3" {
			r3 = row
		}
	}
	if r3.TotalVotes != 1 || r3.RebelVotes != 1 || r3.RebelRate != 100.0 {
		t.Errorf("unexpected activity for R3: %+v", r3)
	}

	for _, row := range tables.RepresentativeActivity {
		if row.RebelVotes > row.TotalVotes {
			t.Errorf("%s: rebel votes exceed total votes", row.Name)
		}
		if row.RebelRate < 0 || row.RebelRate > 100 {
			t.Errorf("%s: rebel rate %v out of range", row.Name, row.RebelRate)
		}
	}

	// Party A: 3 for, 1 mot across both events
	var a PartyRow
	for _, row := range tables.PartyPatterns {
		if row.Party == "A" {
			a = row
		}
	}
	if a.ForCount != 3 || a.AgainstCount != 1 || a.ForRate != 75.0 {
		t.Errorf("unexpected party A pattern: %+v", a)
	}
}

func TestBuildTablesAllianceInvariants(t *testing.T) {
	tables := BuildTables(buildSampleAggregates())

	seen := make(map[[2]string]bool)
	for _, al := range tables.Alliances {
		if al.PartyA == al.PartyB {
			t.Errorf("pair with identical parties: %+v", al)
		}
		if al.PartyA > al.PartyB {
			t.Errorf("pair not canonically ordered: %+v", al)
		}
		key := [2]string{al.PartyA, al.PartyB}
		if seen[key] {
			t.Errorf("duplicate pair: %+v", al)
		}
		seen[key] = true

		if al.AgreementRate < 0 || al.AgreementRate > 100 {
			t.Errorf("agreement rate out of range: %+v", al)
		}
		if al.TotalVotes != al.Agreements+al.Disagreements {
			t.Errorf("total votes mismatch: %+v", al)
		}
	}
}

func TestBuildTablesTopicAverage(t *testing.T) {
	tables := BuildTables(buildSampleAggregates())

	if len(tables.TopicStats) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(tables.TopicStats))
	}
	ts := tables.TopicStats[0]
	if ts.TotalVotes != 2 || ts.TotalFor != 130 || ts.TotalAgainst != 50 {
		t.Errorf("unexpected topic totals: %+v", ts)
	}

	want := round3((ControversyScore(50, 40) + ControversyScore(80, 10)) / 2)
	if ts.AvgControversy != want {
		t.Errorf("expected avg controversy %v, got %v", want, ts.AvgControversy)
	}
}

func TestBuildTablesDeterministic(t *testing.T) {
	agg := buildSampleAggregates()

	first := BuildTables(agg)
	second := BuildTables(agg)

	if !reflect.DeepEqual(first, second) {
		t.Error("building tables twice from unmutated aggregates differs")
	}

	if !sort.SliceIsSorted(first.RepresentativeActivity, func(i, j int) bool {
		return first.RepresentativeActivity[i].Name < first.RepresentativeActivity[j].Name
	}) {
		t.Error("representative activity not sorted by name")
	}
	if !sort.SliceIsSorted(first.PartyPatterns, func(i, j int) bool {
		return first.PartyPatterns[i].Party < first.PartyPatterns[j].Party
	}) {
		t.Error("party patterns not sorted by party")
	}
}

func TestBuildTablesZeroDenominators(t *testing.T) {
	tables := BuildTables(NewAggregates())

	if len(tables.Rebels) != 0 || len(tables.Alliances) != 0 || len(tables.TopicStats) != 0 {
		t.Errorf("empty aggregates produced rows: %+v", tables)
	}
}

func TestNewPartyPairCanonical(t *testing.T) {
	if NewPartyPair("SV", "AP") != (PartyPair{A: "AP", B: "SV"}) {
		t.Error("pair not sorted lexicographically")
	}
	if NewPartyPair("AP", "SV") != NewPartyPair("SV", "AP") {
		t.Error("pair canonicalization not order-independent")
	}
}

func TestRounding(t *testing.T) {
	if got := round1(100.0 / 3.0); got != 33.3 {
		t.Errorf("round1(33.33...) = %v", got)
	}
	if got := round3(1 - 1.0/9.0); got != 0.889 {
		t.Errorf("round3(0.888...) = %v", got)
	}
}
