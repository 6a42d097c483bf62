package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"stortingspuls/internal/analysis"
)

// Table names as exposed to downstream consumers
const (
	TableRebels      = "rebels"
	TableControversy = "controversy"
	TableAlliances   = "alliances"
	TableActivity    = "representative_activity"
	TableTopicStats  = "topic_stats"
	TablePatterns    = "party_patterns"
)

// TableNames lists all six tables in export order
var TableNames = []string{
	TableRebels,
	TableControversy,
	TableAlliances,
	TableActivity,
	TableTopicStats,
	TablePatterns,
}

var headers = map[string][]string{
	TableRebels:      {"Name", "Party", "Vote", "Majority", "Split", "Case_ID", "Title", "Topic"},
	TableControversy: {"Case_ID", "Title", "Topic", "For", "Against", "Score"},
	TableAlliances:   {"Party_A", "Party_B", "Agreement_Rate", "Total_Votes", "Agreements", "Disagreements"},
	TableActivity:    {"Name", "Total_Votes", "Rebel_Votes", "Rebel_Rate"},
	TableTopicStats:  {"Topic", "Total_Votes", "Total_For", "Total_Against", "Avg_Controversy"},
	TablePatterns:    {"Party", "For_Count", "Against_Count", "For_Rate"},
}

// Known reports whether name is one of the six export tables
func Known(name string) bool {
	_, ok := headers[name]
	return ok
}

// Header returns the contract column names for a table
func Header(name string) []string {
	return headers[name]
}

// Filename returns the CSV file name for a table
func Filename(name string) string {
	return "processed_" + name + ".csv"
}

// Records converts one table into CSV records in contract column order
func Records(t *analysis.Tables, name string) [][]string {
	switch name {
	case TableRebels:
		rows := make([][]string, 0, len(t.Rebels))
		for _, r := range t.Rebels {
			rows = append(rows, []string{r.Name, r.Party, r.Vote, r.Majority, r.Split, r.CaseID, r.Title, r.Topic})
		}
		return rows
	case TableControversy:
		rows := make([][]string, 0, len(t.Controversy))
		for _, r := range t.Controversy {
			rows = append(rows, []string{r.CaseID, r.Title, r.Topic, itoa(r.For), itoa(r.Against), ftoa(r.Score)})
		}
		return rows
	case TableAlliances:
		rows := make([][]string, 0, len(t.Alliances))
		for _, r := range t.Alliances {
			rows = append(rows, []string{r.PartyA, r.PartyB, ftoa(r.AgreementRate), itoa(r.TotalVotes), itoa(r.Agreements), itoa(r.Disagreements)})
		}
		return rows
	case TableActivity:
		rows := make([][]string, 0, len(t.RepresentativeActivity))
		for _, r := range t.RepresentativeActivity {
			rows = append(rows, []string{r.Name, itoa(r.TotalVotes), itoa(r.RebelVotes), ftoa(r.RebelRate)})
		}
		return rows
	case TableTopicStats:
		rows := make([][]string, 0, len(t.TopicStats))
		for _, r := range t.TopicStats {
			rows = append(rows, []string{r.Topic, itoa(r.TotalVotes), itoa(r.TotalFor), itoa(r.TotalAgainst), ftoa(r.AvgControversy)})
		}
		return rows
	case TablePatterns:
		rows := make([][]string, 0, len(t.PartyPatterns))
		for _, r := range t.PartyPatterns {
			rows = append(rows, []string{r.Party, itoa(r.ForCount), itoa(r.AgainstCount), ftoa(r.ForRate)})
		}
		return rows
	}
	return nil
}

// Writer writes the six export tables as CSV files in a directory
type Writer struct {
	dir string
}

// NewWriter creates a writer targeting dir
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteAll writes all six tables. Each file is written to a temp file and
// renamed into place, so a crash mid-write never leaves a torn table.
func (w *Writer) WriteAll(t *analysis.Tables) error {
	for _, name := range TableNames {
		if err := w.writeTable(name, Header(name), Records(t, name)); err != nil {
			return fmt.Errorf("failed to export %s: %w", name, err)
		}
	}
	return nil
}

func (w *Writer) writeTable(name string, header []string, records [][]string) error {
	tmp, err := os.CreateTemp(w.dir, Filename(name)+".tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		tmp.Close()
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(w.dir, Filename(name)))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// ftoa renders an already-rounded float the way downstream CSV consumers
// expect: shortest decimal form, "0" for zero.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
