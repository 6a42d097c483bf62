package analysis

import (
	"testing"

	"stortingspuls/internal/storting"
)

func TestComputeInsights(t *testing.T) {
	agg := NewAggregates()
	c := storting.Case{ID: "C1", Title: "Sample"}

	// R3 (party A) rebels twice, R5 (party B) once
	agg.ProcessEvent(c, storting.VotingEvent{ID: "V1", For: 10, Against: 10, Topic: "Helse"}, []Ballot{
		ballot("R1", "A", "for"), ballot("R2", "A", "for"), ballot("R3", "A", "mot"),
		ballot("R4", "B", "mot"), ballot("R5", "B", "for"), ballot("R6", "B", "mot"),
	})
	agg.ProcessEvent(c, storting.VotingEvent{ID: "V2", For: 20, Against: 0, Topic: "Forsvar"}, []Ballot{
		ballot("R1", "A", "for"), ballot("R2", "A", "for"), ballot("R3", "A", "mot"),
		ballot("R4", "B", "for"), ballot("R5", "B", "for"),
	})

	tables := BuildTables(agg)
	ins := ComputeInsights(tables)

	if ins.TopRebel != "R3" || ins.TopRebelCount != 2 {
		t.Errorf("expected R3 with 2 rebel votes, got %s with %d", ins.TopRebel, ins.TopRebelCount)
	}
	if ins.MostRebelliousParty != "A" || ins.MostRebelliousPartyCount != 2 {
		t.Errorf("expected party A with 2 rebels, got %s with %d", ins.MostRebelliousParty, ins.MostRebelliousPartyCount)
	}

	// Single pair, so strongest and weakest coincide
	if ins.StrongestAllianceA != "A" || ins.StrongestAllianceB != "B" {
		t.Errorf("unexpected strongest alliance: %s + %s", ins.StrongestAllianceA, ins.StrongestAllianceB)
	}
	if ins.StrongestAllianceRate != ins.WeakestAllianceRate {
		t.Errorf("single pair should be both strongest and weakest")
	}

	// Helse had the exact split, Forsvar was unanimous
	if ins.MostControversialTopic != "Helse" {
		t.Errorf("expected Helse as most controversial, got %s", ins.MostControversialTopic)
	}
	if ins.TopicAvgScore != 1.0 {
		t.Errorf("expected topic avg 1.0, got %v", ins.TopicAvgScore)
	}

	want := round3((1.0 + 0.0) / 2)
	if ins.AvgControversy != want {
		t.Errorf("expected avg controversy %v, got %v", want, ins.AvgControversy)
	}
}

func TestComputeInsightsEmptyTables(t *testing.T) {
	ins := ComputeInsights(BuildTables(NewAggregates()))

	if ins.TopRebel != "" || ins.MostRebelliousParty != "" || ins.StrongestAllianceA != "" {
		t.Errorf("empty tables should produce empty insights, got %+v", ins)
	}
	if ins.AvgControversy != 0 {
		t.Errorf("expected 0 avg controversy, got %v", ins.AvgControversy)
	}
}
