package analysis

// Insights summarizes a session's headline numbers for the API and run logs
type Insights struct {
	MostRebelliousParty      string  `json:"mostRebelliousParty,omitempty"`
	MostRebelliousPartyCount int     `json:"mostRebelliousPartyCount,omitempty"`
	TopRebel                 string  `json:"topRebel,omitempty"`
	TopRebelCount            int     `json:"topRebelCount,omitempty"`
	StrongestAllianceA       string  `json:"strongestAllianceA,omitempty"`
	StrongestAllianceB       string  `json:"strongestAllianceB,omitempty"`
	StrongestAllianceRate    float64 `json:"strongestAllianceRate,omitempty"`
	WeakestAllianceA         string  `json:"weakestAllianceA,omitempty"`
	WeakestAllianceB         string  `json:"weakestAllianceB,omitempty"`
	WeakestAllianceRate      float64 `json:"weakestAllianceRate,omitempty"`
	AvgControversy           float64 `json:"avgControversy"`
	MostControversialTopic   string  `json:"mostControversialTopic,omitempty"`
	TopicAvgScore            float64 `json:"topicAvgScore,omitempty"`
}

// ComputeInsights derives session insights from the built tables.
// Ties are broken by first occurrence in table order, which is deterministic.
func ComputeInsights(t *Tables) *Insights {
	ins := &Insights{}

	partyCounts := make(map[string]int)
	rebelCounts := make(map[string]int)
	for _, r := range t.Rebels {
		partyCounts[r.Party]++
		rebelCounts[r.Name]++
	}
	// Scan activity rows (sorted) rather than map order for deterministic ties
	for _, row := range t.RepresentativeActivity {
		if c := rebelCounts[row.Name]; c > ins.TopRebelCount {
			ins.TopRebel = row.Name
			ins.TopRebelCount = c
		}
	}
	for _, row := range t.PartyPatterns {
		if c := partyCounts[row.Party]; c > ins.MostRebelliousPartyCount {
			ins.MostRebelliousParty = row.Party
			ins.MostRebelliousPartyCount = c
		}
	}

	for i, row := range t.Alliances {
		if i == 0 || row.AgreementRate > ins.StrongestAllianceRate {
			ins.StrongestAllianceA = row.PartyA
			ins.StrongestAllianceB = row.PartyB
			ins.StrongestAllianceRate = row.AgreementRate
		}
		if i == 0 || row.AgreementRate < ins.WeakestAllianceRate {
			ins.WeakestAllianceA = row.PartyA
			ins.WeakestAllianceB = row.PartyB
			ins.WeakestAllianceRate = row.AgreementRate
		}
	}

	if len(t.Controversy) > 0 {
		sum := 0.0
		for _, row := range t.Controversy {
			sum += row.Score
		}
		ins.AvgControversy = round3(sum / float64(len(t.Controversy)))
	}

	for _, row := range t.TopicStats {
		if row.AvgControversy > ins.TopicAvgScore {
			ins.MostControversialTopic = row.Topic
			ins.TopicAvgScore = row.AvgControversy
		}
	}

	return ins
}
