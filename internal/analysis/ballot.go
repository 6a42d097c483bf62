package analysis

import (
	"fmt"

	"stortingspuls/internal/storting"
)

// Ballot is one countable vote: a representative's name, their party,
// and a direction that is guaranteed to be "for" or "mot".
type Ballot struct {
	Name  string
	Party string
	Vote  string
}

// ExtractBallots converts raw voting results into countable ballots.
// Ballots with any vote value outside {for, mot} are dropped here,
// before any aggregation sees them.
func ExtractBallots(raw []storting.Ballot) []Ballot {
	ballots := make([]Ballot, 0, len(raw))
	for _, r := range raw {
		if r.Vote != storting.VoteFor && r.Vote != storting.VoteAgainst {
			continue
		}
		ballots = append(ballots, Ballot{
			Name:  fmt.Sprintf("%s %s", r.Representative.FirstName, r.Representative.LastName),
			Party: r.Representative.Party.ID,
			Vote:  r.Vote,
		})
	}
	return ballots
}

// PartyLine is one party's resolved position on one voting event
type PartyLine struct {
	Majority     string
	ForCount     int
	AgainstCount int
}

// RebelRecord is a ballot cast against its own party's majority.
// Case metadata is attached when the event is folded into the aggregates.
type RebelRecord struct {
	Name     string `json:"name"`
	Party    string `json:"party"`
	Vote     string `json:"vote"`
	Majority string `json:"majority"`
	Split    string `json:"split"` // "k vs n": dissenters vs majority-side ballots
	CaseID   string `json:"caseId"`
	Title    string `json:"title"`
	Topic    string `json:"topic"`
}
