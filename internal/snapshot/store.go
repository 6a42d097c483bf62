package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stortingspuls/internal/analysis"
)

// ErrNoRuns is returned when no analysis run has been persisted yet
var ErrNoRuns = errors.New("no analysis runs recorded")

// Run is the metadata of one persisted analysis run
type Run struct {
	ID             int64     `json:"id"`
	SessionID      string    `json:"sessionId"`
	CaseLimit      int       `json:"caseLimit"`
	CasesAnalyzed  int       `json:"casesAnalyzed"`
	EventsAnalyzed int       `json:"eventsAnalyzed"`
	BallotsCounted int       `json:"ballotsCounted"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Store persists run snapshots in Postgres. One snapshot is the six export
// tables plus run metadata, written in a single transaction.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a snapshot store backed by a connection pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Save writes a completed run's tables as one snapshot and returns the run id
func (s *Store) Save(ctx context.Context, run Run, t *analysis.Tables) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var runID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO runs (session_id, case_limit, cases_analyzed, events_analyzed, ballots_counted)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, run.SessionID, run.CaseLimit, run.CasesAnalyzed, run.EventsAnalyzed, run.BallotsCounted).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"rebels"},
		[]string{"run_id", "name", "party", "vote", "majority", "split", "case_id", "title", "topic"},
		pgx.CopyFromSlice(len(t.Rebels), func(i int) ([]interface{}, error) {
			r := t.Rebels[i]
			return []interface{}{runID, r.Name, r.Party, r.Vote, r.Majority, r.Split, r.CaseID, r.Title, r.Topic}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy rebels: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"controversy"},
		[]string{"run_id", "case_id", "title", "topic", "votes_for", "votes_against", "score"},
		pgx.CopyFromSlice(len(t.Controversy), func(i int) ([]interface{}, error) {
			r := t.Controversy[i]
			return []interface{}{runID, r.CaseID, r.Title, r.Topic, r.For, r.Against, r.Score}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy controversy: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"alliances"},
		[]string{"run_id", "party_a", "party_b", "agreement_rate", "total_votes", "agreements", "disagreements"},
		pgx.CopyFromSlice(len(t.Alliances), func(i int) ([]interface{}, error) {
			r := t.Alliances[i]
			return []interface{}{runID, r.PartyA, r.PartyB, r.AgreementRate, r.TotalVotes, r.Agreements, r.Disagreements}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy alliances: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"representative_activity"},
		[]string{"run_id", "name", "total_votes", "rebel_votes", "rebel_rate"},
		pgx.CopyFromSlice(len(t.RepresentativeActivity), func(i int) ([]interface{}, error) {
			r := t.RepresentativeActivity[i]
			return []interface{}{runID, r.Name, r.TotalVotes, r.RebelVotes, r.RebelRate}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy representative activity: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"topic_stats"},
		[]string{"run_id", "topic", "total_votes", "total_for", "total_against", "avg_controversy"},
		pgx.CopyFromSlice(len(t.TopicStats), func(i int) ([]interface{}, error) {
			r := t.TopicStats[i]
			return []interface{}{runID, r.Topic, r.TotalVotes, r.TotalFor, r.TotalAgainst, r.AvgControversy}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy topic stats: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"party_patterns"},
		[]string{"run_id", "party", "for_count", "against_count", "for_rate"},
		pgx.CopyFromSlice(len(t.PartyPatterns), func(i int) ([]interface{}, error) {
			r := t.PartyPatterns[i]
			return []interface{}{runID, r.Party, r.ForCount, r.AgainstCount, r.ForRate}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy party patterns: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return runID, nil
}

// LatestRun returns the metadata of the most recent persisted run
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	var run Run
	err := s.pool.QueryRow(ctx, `
		SELECT id, session_id, case_limit, cases_analyzed, events_analyzed, ballots_counted, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`).Scan(&run.ID, &run.SessionID, &run.CaseLimit, &run.CasesAnalyzed, &run.EventsAnalyzed, &run.BallotsCounted, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	return &run, nil
}

// Tables loads all six tables of one run
func (s *Store) Tables(ctx context.Context, runID int64) (*analysis.Tables, error) {
	t := &analysis.Tables{}

	rows, err := s.pool.Query(ctx, `
		SELECT name, party, vote, majority, split, case_id, title, topic
		FROM rebels WHERE run_id = $1
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rebels: %w", err)
	}
	for rows.Next() {
		var r analysis.RebelRecord
		if err := rows.Scan(&r.Name, &r.Party, &r.Vote, &r.Majority, &r.Split, &r.CaseID, &r.Title, &r.Topic); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan rebel row: %w", err)
		}
		t.Rebels = append(t.Rebels, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT case_id, title, topic, votes_for, votes_against, score
		FROM controversy WHERE run_id = $1
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query controversy: %w", err)
	}
	for rows.Next() {
		var r analysis.ControversyRow
		if err := rows.Scan(&r.CaseID, &r.Title, &r.Topic, &r.For, &r.Against, &r.Score); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan controversy row: %w", err)
		}
		t.Controversy = append(t.Controversy, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT party_a, party_b, agreement_rate, total_votes, agreements, disagreements
		FROM alliances WHERE run_id = $1 ORDER BY party_a, party_b
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alliances: %w", err)
	}
	for rows.Next() {
		var r analysis.AllianceRow
		if err := rows.Scan(&r.PartyA, &r.PartyB, &r.AgreementRate, &r.TotalVotes, &r.Agreements, &r.Disagreements); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan alliance row: %w", err)
		}
		t.Alliances = append(t.Alliances, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT name, total_votes, rebel_votes, rebel_rate
		FROM representative_activity WHERE run_id = $1 ORDER BY name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query representative activity: %w", err)
	}
	for rows.Next() {
		var r analysis.ActivityRow
		if err := rows.Scan(&r.Name, &r.TotalVotes, &r.RebelVotes, &r.RebelRate); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		t.RepresentativeActivity = append(t.RepresentativeActivity, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT topic, total_votes, total_for, total_against, avg_controversy
		FROM topic_stats WHERE run_id = $1 ORDER BY topic
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query topic stats: %w", err)
	}
	for rows.Next() {
		var r analysis.TopicRow
		if err := rows.Scan(&r.Topic, &r.TotalVotes, &r.TotalFor, &r.TotalAgainst, &r.AvgControversy); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		t.TopicStats = append(t.TopicStats, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT party, for_count, against_count, for_rate
		FROM party_patterns WHERE run_id = $1 ORDER BY party
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query party patterns: %w", err)
	}
	for rows.Next() {
		var r analysis.PartyRow
		if err := rows.Scan(&r.Party, &r.ForCount, &r.AgainstCount, &r.ForRate); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan party row: %w", err)
		}
		t.PartyPatterns = append(t.PartyPatterns, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return t, nil
}
