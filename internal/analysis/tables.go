package analysis

import (
	"math"
	"sort"
)

// ControversyRow is one row of the controversy table (Score rounded to 3 decimals)
type ControversyRow struct {
	CaseID  string  `json:"caseId"`
	Title   string  `json:"title"`
	Topic   string  `json:"topic"`
	For     int     `json:"for"`
	Against int     `json:"against"`
	Score   float64 `json:"score"`
}

// AllianceRow is one row of the alliances table. Pairs that never co-occurred
// in a voting event are absent, not zero.
type AllianceRow struct {
	PartyA        string  `json:"partyA"`
	PartyB        string  `json:"partyB"`
	AgreementRate float64 `json:"agreementRate"`
	TotalVotes    int     `json:"totalVotes"`
	Agreements    int     `json:"agreements"`
	Disagreements int     `json:"disagreements"`
}

// ActivityRow is one row of the representative activity table
type ActivityRow struct {
	Name       string  `json:"name"`
	TotalVotes int     `json:"totalVotes"`
	RebelVotes int     `json:"rebelVotes"`
	RebelRate  float64 `json:"rebelRate"`
}

// TopicRow is one row of the topic statistics table
type TopicRow struct {
	Topic          string  `json:"topic"`
	TotalVotes     int     `json:"totalVotes"`
	TotalFor       int     `json:"totalFor"`
	TotalAgainst   int     `json:"totalAgainst"`
	AvgControversy float64 `json:"avgControversy"`
}

// PartyRow is one row of the party voting patterns table
type PartyRow struct {
	Party        string  `json:"party"`
	ForCount     int     `json:"forCount"`
	AgainstCount int     `json:"againstCount"`
	ForRate      float64 `json:"forRate"`
}

// Tables holds the six export tables derived from final aggregate state.
// Column order and names are a compatibility contract with downstream
// consumers; the CSV layer owns the header spelling.
type Tables struct {
	Rebels                 []RebelRecord    `json:"rebels"`
	Controversy            []ControversyRow `json:"controversy"`
	Alliances              []AllianceRow    `json:"alliances"`
	RepresentativeActivity []ActivityRow    `json:"representativeActivity"`
	TopicStats             []TopicRow       `json:"topicStats"`
	PartyPatterns          []PartyRow       `json:"partyPatterns"`
}

// BuildTables derives all six tables from the accumulator state. Map-backed
// tables are sorted so that building twice from unmutated state yields
// identical output. The aggregates are not modified.
func BuildTables(a *Aggregates) *Tables {
	t := &Tables{
		Rebels:      append([]RebelRecord(nil), a.Rebels...),
		Controversy: make([]ControversyRow, 0, len(a.ContestedVotes)),
	}

	for _, cv := range a.ContestedVotes {
		t.Controversy = append(t.Controversy, ControversyRow{
			CaseID:  cv.CaseID,
			Title:   cv.Title,
			Topic:   cv.Topic,
			For:     cv.For,
			Against: cv.Against,
			Score:   round3(cv.Score),
		})
	}

	for pair, tally := range a.alliances {
		total := tally.Agree + tally.Disagree
		rate := 0.0
		if total > 0 {
			rate = float64(tally.Agree) / float64(total) * 100
		}
		t.Alliances = append(t.Alliances, AllianceRow{
			PartyA:        pair.A,
			PartyB:        pair.B,
			AgreementRate: round1(rate),
			TotalVotes:    total,
			Agreements:    tally.Agree,
			Disagreements: tally.Disagree,
		})
	}
	sort.Slice(t.Alliances, func(i, j int) bool {
		if t.Alliances[i].PartyA != t.Alliances[j].PartyA {
			return t.Alliances[i].PartyA < t.Alliances[j].PartyA
		}
		return t.Alliances[i].PartyB < t.Alliances[j].PartyB
	})

	for name, tally := range a.activity {
		rate := 0.0
		if tally.TotalVotes > 0 {
			rate = float64(tally.RebelVotes) / float64(tally.TotalVotes) * 100
		}
		t.RepresentativeActivity = append(t.RepresentativeActivity, ActivityRow{
			Name:       name,
			TotalVotes: tally.TotalVotes,
			RebelVotes: tally.RebelVotes,
			RebelRate:  round1(rate),
		})
	}
	sort.Slice(t.RepresentativeActivity, func(i, j int) bool {
		return t.RepresentativeActivity[i].Name < t.RepresentativeActivity[j].Name
	})

	for topic, tally := range a.topics {
		avg := 0.0
		if tally.Votes > 0 {
			avg = tally.ControversySum / float64(tally.Votes)
		}
		t.TopicStats = append(t.TopicStats, TopicRow{
			Topic:          topic,
			TotalVotes:     tally.Votes,
			TotalFor:       tally.TotalFor,
			TotalAgainst:   tally.TotalAgainst,
			AvgControversy: round3(avg),
		})
	}
	sort.Slice(t.TopicStats, func(i, j int) bool {
		return t.TopicStats[i].Topic < t.TopicStats[j].Topic
	})

	for party, tally := range a.parties {
		total := tally.ForCount + tally.AgainstCount
		rate := 0.0
		if total > 0 {
			rate = float64(tally.ForCount) / float64(total) * 100
		}
		t.PartyPatterns = append(t.PartyPatterns, PartyRow{
			Party:        party,
			ForCount:     tally.ForCount,
			AgainstCount: tally.AgainstCount,
			ForRate:      round1(rate),
		})
	}
	sort.Slice(t.PartyPatterns, func(i, j int) bool {
		return t.PartyPatterns[i].Party < t.PartyPatterns[j].Party
	})

	return t
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
