package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"mercator-hq/sweeper/pkg/history"
	"mercator-hq/sweeper/pkg/retention"
)

type stubTable struct{}

func (stubTable) Header() []string { return []string{"NAME", "COUNT"} }
func (stubTable) Rows() [][]string {
	return [][]string{{"alpha", "1"}, {"b,c", "22"}}
}

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}

	output, err := formatter.Format("test message")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if string(output) != "test message\n" {
		t.Errorf("Format() = %q", string(output))
	}

	output, err = formatter.Format(stubTable{})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "NAME   COUNT\nalpha  1\nb,c    22\n"
	if string(output) != want {
		t.Errorf("Format() = %q, want %q", string(output), want)
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		indent bool
	}{
		{"compact", false},
		{"indented", true},
	}

	data := map[string]int{"moved": 3}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}
			buf := &bytes.Buffer{}
			if err := formatter.FormatTo(buf, data); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}

			var decoded map[string]int
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if decoded["moved"] != 3 {
				t.Errorf("moved = %d, want 3", decoded["moved"])
			}
			if got := strings.Contains(buf.String(), "\n  "); got != tt.indent {
				t.Errorf("indented = %v, want %v", got, tt.indent)
			}
		})
	}
}

func TestCSVFormatter(t *testing.T) {
	formatter := &CSVFormatter{}

	output, err := formatter.Format(stubTable{})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "NAME,COUNT\nalpha,1\n\"b,c\",22\n"
	if string(output) != want {
		t.Errorf("Format() = %q, want %q", string(output), want)
	}

	if _, err := formatter.Format("not a table"); err == nil {
		t.Error("expected error for non-table data")
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json should return *JSONFormatter")
	}
	if _, ok := NewFormatter(FormatCSV).(*CSVFormatter); !ok {
		t.Error("csv should return *CSVFormatter")
	}
	if _, ok := NewFormatter("unknown").(*TextFormatter); !ok {
		t.Error("unknown should fall back to *TextFormatter")
	}
}

func testReport() *retention.RunReport {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return &retention.RunReport{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Passes: []*retention.PassReport{
			{Pass: retention.PassBackupPurge, Dir: "/b", DirErrorKind: retention.KindDirectoryMissing},
			{
				Pass: retention.PassActiveDemotion, Dir: "/a", Scanned: 3, Moved: 1, SkippedExempt: 1, Failed: 1,
				Failures: []retention.Failure{{
					Pass: retention.PassActiveDemotion, Path: "/a/x.txt",
					Kind: retention.KindFileOperation, Err: "permission denied",
				}},
			},
			{Pass: retention.PassStagedPurge, Dir: "/s", Scanned: 2, Deleted: 2, ScanSkipped: 1},
		},
	}
}

func TestReportTable(t *testing.T) {
	rows := ReportTable{Report: testReport()}.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	if got := rows[0][8]; got != "skipped: directory_missing" {
		t.Errorf("backup status = %q", got)
	}
	if got := rows[1][8]; got != "ok" {
		t.Errorf("active status = %q", got)
	}
	if got := rows[2][8]; got != "partial scan (1 skipped)" {
		t.Errorf("staged status = %q", got)
	}
	if rows[1][3] != "1" || rows[2][4] != "2" {
		t.Errorf("counts = moved %s deleted %s", rows[1][3], rows[2][4])
	}
}

func TestFailureTable(t *testing.T) {
	rows := FailureTable{Report: testReport()}.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0][2] != "/a/x.txt" || rows[0][3] != "permission denied" {
		t.Errorf("row = %v", rows[0])
	}
}

func TestHistoryTable(t *testing.T) {
	rec := history.NewRunRecord(testReport())
	rows := HistoryTable{Records: []*history.RunRecord{rec}}.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	row := rows[0]
	if row[0] != "run-1" {
		t.Errorf("run id = %q", row[0])
	}
	if row[2] != "1.5s" {
		t.Errorf("duration = %q, want 1.5s", row[2])
	}
	if row[3] != history.ResultPartial {
		t.Errorf("result = %q, want %q", row[3], history.ResultPartial)
	}
	if row[8] != "1" {
		t.Errorf("aborted = %q, want 1", row[8])
	}
}
