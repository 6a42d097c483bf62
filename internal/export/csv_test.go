package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"stortingspuls/internal/analysis"
	"stortingspuls/internal/storting"
)

func sampleTables() *analysis.Tables {
	agg := analysis.NewAggregates()
	c := storting.Case{ID: "C1", Title: "Budsjett"}

	agg.ProcessEvent(c, storting.VotingEvent{ID: "V1", For: 3, Against: 2, Topic: "Finans"}, []analysis.Ballot{
		{Name: "R1", Party: "A", Vote: "for"},
		{Name: "R2", Party: "A", Vote: "for"},
		{Name: "R3", Party: "A", Vote: "mot"},
		{Name: "R4", Party: "B", Vote: "mot"},
	})
	agg.CasesAnalyzed++
	return analysis.BuildTables(agg)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func TestWriteAllProducesSixTables(t *testing.T) {
	dir := t.TempDir()
	tables := sampleTables()

	if err := NewWriter(dir).WriteAll(tables); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	for _, name := range TableNames {
		path := filepath.Join(dir, Filename(name))
		records := readCSV(t, path)
		if len(records) == 0 {
			t.Fatalf("%s: empty file", name)
		}
		if !reflect.DeepEqual(records[0], Header(name)) {
			t.Errorf("%s: header %v, want %v", name, records[0], Header(name))
		}
		for i, rec := range records[1:] {
			if len(rec) != len(Header(name)) {
				t.Errorf("%s row %d: %d columns, want %d", name, i, len(rec), len(Header(name)))
			}
		}
	}
}

func TestWriteAllRowContents(t *testing.T) {
	dir := t.TempDir()
	tables := sampleTables()

	if err := NewWriter(dir).WriteAll(tables); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	rebels := readCSV(t, filepath.Join(dir, Filename(TableRebels)))
	if len(rebels) != 2 {
		t.Fatalf("expected header + 1 rebel row, got %d rows", len(rebels))
	}
	want := []string{"R3", "A", "mot", "for", "1 vs 2", "C1", "Budsjett", "Finans"}
	if !reflect.DeepEqual(rebels[1], want) {
		t.Errorf("rebel row %v, want %v", rebels[1], want)
	}

	controversy := readCSV(t, filepath.Join(dir, Filename(TableControversy)))
	if len(controversy) != 2 {
		t.Fatalf("expected header + 1 controversy row, got %d rows", len(controversy))
	}
	// 1 - |3-2|/5 = 0.8
	wantC := []string{"C1", "Budsjett", "Finans", "3", "2", "0.8"}
	if !reflect.DeepEqual(controversy[1], wantC) {
		t.Errorf("controversy row %v, want %v", controversy[1], wantC)
	}

	alliances := readCSV(t, filepath.Join(dir, Filename(TableAlliances)))
	if len(alliances) != 2 {
		t.Fatalf("expected header + 1 alliance row, got %d rows", len(alliances))
	}
	wantA := []string{"A", "B", "0", "1", "0", "1"}
	if !reflect.DeepEqual(alliances[1], wantA) {
		t.Errorf("alliance row %v, want %v", alliances[1], wantA)
	}
}

func TestWriteAllIdempotent(t *testing.T) {
	dir := t.TempDir()
	tables := sampleTables()
	w := NewWriter(dir)

	if err := w.WriteAll(tables); err != nil {
		t.Fatalf("first WriteAll: %v", err)
	}
	first := make(map[string][]byte)
	for _, name := range TableNames {
		data, err := os.ReadFile(filepath.Join(dir, Filename(name)))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		first[name] = data
	}

	if err := w.WriteAll(tables); err != nil {
		t.Fatalf("second WriteAll: %v", err)
	}
	for _, name := range TableNames {
		data, err := os.ReadFile(filepath.Join(dir, Filename(name)))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !reflect.DeepEqual(first[name], data) {
			t.Errorf("%s: second export differs from first", name)
		}
	}
}

func TestWriteAllLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	if err := NewWriter(dir).WriteAll(sampleTables()); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(TableNames) {
		for _, e := range entries {
			t.Logf("found: %s", e.Name())
		}
		t.Fatalf("expected %d files, got %d", len(TableNames), len(entries))
	}
}

func TestKnownAndFilename(t *testing.T) {
	for _, name := range TableNames {
		if !Known(name) {
			t.Errorf("%s should be known", name)
		}
		if Filename(name) != "processed_"+name+".csv" {
			t.Errorf("unexpected filename for %s: %s", name, Filename(name))
		}
	}
	if Known("representatives") {
		t.Error("unknown table reported as known")
	}
}
