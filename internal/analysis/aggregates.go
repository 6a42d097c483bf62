package analysis

import (
	"fmt"
	"sort"

	"stortingspuls/internal/storting"
)

// PartyPair is an unordered pair of parties, canonicalized so that A < B.
// Each pair of distinct parties is represented exactly once.
type PartyPair struct {
	A string
	B string
}

// NewPartyPair canonicalizes a pair of party ids lexicographically
func NewPartyPair(a, b string) PartyPair {
	if b < a {
		a, b = b, a
	}
	return PartyPair{A: a, B: b}
}

type allianceTally struct {
	Agree    int
	Disagree int
}

type activityTally struct {
	TotalVotes int
	RebelVotes int
}

type topicTally struct {
	Votes          int
	TotalFor       int
	TotalAgainst   int
	ControversySum float64
}

type partyTally struct {
	ForCount     int
	AgainstCount int
}

// ContestedVote is one voting event's controversy record. For/Against come
// from the event's own antall_for/antall_mot totals, not from ballot counts.
// Score is kept unrounded; rounding happens at table build time.
type ContestedVote struct {
	CaseID  string
	Title   string
	Topic   string
	For     int
	Against int
	Score   float64
}

// Aggregates is the accumulator state of one analysis run. It is owned by the
// run: each worker folds into a private instance and partials are merged at
// the end, so no counter is ever shared between goroutines.
type Aggregates struct {
	Rebels         []RebelRecord
	ContestedVotes []ContestedVote

	alliances map[PartyPair]*allianceTally
	activity  map[string]*activityTally
	topics    map[string]*topicTally
	parties   map[string]*partyTally

	CasesAnalyzed  int
	EventsAnalyzed int
	BallotsCounted int
}

// NewAggregates creates an empty accumulator set
func NewAggregates() *Aggregates {
	return &Aggregates{
		alliances: make(map[PartyPair]*allianceTally),
		activity:  make(map[string]*activityTally),
		topics:    make(map[string]*topicTally),
		parties:   make(map[string]*partyTally),
	}
}

// ResolvePartyLines computes each party's majority position for one voting
// event and the ballots that opposed it. Per-ballot tallies (representative
// activity, party voting patterns) are unconditional and happen before any
// majority is known; rebel tallies depend on the resolved majority.
// A tied party vote resolves to "for" — the documented default.
func (a *Aggregates) ResolvePartyLines(ballots []Ballot) (map[string]PartyLine, []RebelRecord) {
	type sides struct {
		forNames     []string
		againstNames []string
	}
	byParty := make(map[string]*sides)

	for _, b := range ballots {
		s := byParty[b.Party]
		if s == nil {
			s = &sides{}
			byParty[b.Party] = s
		}
		if b.Vote == storting.VoteFor {
			s.forNames = append(s.forNames, b.Name)
		} else {
			s.againstNames = append(s.againstNames, b.Name)
		}

		a.repActivity(b.Name).TotalVotes++

		p := a.partyPattern(b.Party)
		if b.Vote == storting.VoteFor {
			p.ForCount++
		} else {
			p.AgainstCount++
		}
	}
	a.BallotsCounted += len(ballots)

	lines := make(map[string]PartyLine, len(byParty))
	var rebels []RebelRecord

	for party, s := range byParty {
		forCount, againstCount := len(s.forNames), len(s.againstNames)

		majority := storting.VoteFor
		rebelVote := storting.VoteAgainst
		rebelNames := s.againstNames
		majorityCount := forCount
		if againstCount > forCount {
			majority = storting.VoteAgainst
			rebelVote = storting.VoteFor
			rebelNames = s.forNames
			majorityCount = againstCount
		}

		lines[party] = PartyLine{
			Majority:     majority,
			ForCount:     forCount,
			AgainstCount: againstCount,
		}

		for _, name := range rebelNames {
			rebels = append(rebels, RebelRecord{
				Name:     name,
				Party:    party,
				Vote:     rebelVote,
				Majority: majority,
				Split:    fmt.Sprintf("%d vs %d", len(rebelNames), majorityCount),
			})
			a.repActivity(name).RebelVotes++
		}
	}

	return lines, rebels
}

// ProcessEvent folds one voting event into every accumulator: party lines and
// rebels, pairwise alliances, the controversy record, and topic statistics.
func (a *Aggregates) ProcessEvent(c storting.Case, ev storting.VotingEvent, ballots []Ballot) {
	lines, rebels := a.ResolvePartyLines(ballots)

	// Alliances: compare majority directions for every unordered pair of
	// parties present in this event. Absent parties contribute nothing.
	parties := make([]string, 0, len(lines))
	for party := range lines {
		parties = append(parties, party)
	}
	sort.Strings(parties)

	for i := 0; i < len(parties); i++ {
		for j := i + 1; j < len(parties); j++ {
			pair := NewPartyPair(parties[i], parties[j])
			t := a.alliances[pair]
			if t == nil {
				t = &allianceTally{}
				a.alliances[pair] = t
			}
			if lines[parties[i]].Majority == lines[parties[j]].Majority {
				t.Agree++
			} else {
				t.Disagree++
			}
		}
	}

	for _, r := range rebels {
		r.CaseID = c.ID
		r.Title = c.Title
		r.Topic = ev.Topic
		a.Rebels = append(a.Rebels, r)
	}

	score := ControversyScore(ev.For, ev.Against)
	a.ContestedVotes = append(a.ContestedVotes, ContestedVote{
		CaseID:  c.ID,
		Title:   c.Title,
		Topic:   ev.Topic,
		For:     ev.For,
		Against: ev.Against,
		Score:   score,
	})

	t := a.topics[ev.Topic]
	if t == nil {
		t = &topicTally{}
		a.topics[ev.Topic] = t
	}
	t.Votes++
	t.TotalFor += ev.For
	t.TotalAgainst += ev.Against
	t.ControversySum += score

	a.EventsAnalyzed++
}

// Merge folds another partial accumulator set into this one.
// Used to reduce per-worker partials after the fan-out completes.
func (a *Aggregates) Merge(other *Aggregates) {
	a.Rebels = append(a.Rebels, other.Rebels...)
	a.ContestedVotes = append(a.ContestedVotes, other.ContestedVotes...)

	for pair, t := range other.alliances {
		dst := a.alliances[pair]
		if dst == nil {
			dst = &allianceTally{}
			a.alliances[pair] = dst
		}
		dst.Agree += t.Agree
		dst.Disagree += t.Disagree
	}
	for name, t := range other.activity {
		dst := a.repActivity(name)
		dst.TotalVotes += t.TotalVotes
		dst.RebelVotes += t.RebelVotes
	}
	for topic, t := range other.topics {
		dst := a.topics[topic]
		if dst == nil {
			dst = &topicTally{}
			a.topics[topic] = dst
		}
		dst.Votes += t.Votes
		dst.TotalFor += t.TotalFor
		dst.TotalAgainst += t.TotalAgainst
		dst.ControversySum += t.ControversySum
	}
	for party, t := range other.parties {
		dst := a.partyPattern(party)
		dst.ForCount += t.ForCount
		dst.AgainstCount += t.AgainstCount
	}

	a.CasesAnalyzed += other.CasesAnalyzed
	a.EventsAnalyzed += other.EventsAnalyzed
	a.BallotsCounted += other.BallotsCounted
}

func (a *Aggregates) repActivity(name string) *activityTally {
	t := a.activity[name]
	if t == nil {
		t = &activityTally{}
		a.activity[name] = t
	}
	return t
}

func (a *Aggregates) partyPattern(party string) *partyTally {
	t := a.parties[party]
	if t == nil {
		t = &partyTally{}
		a.parties[party] = t
	}
	return t
}
