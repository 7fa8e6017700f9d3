package retention

import (
	"math"
	"testing"
	"time"
)

func TestNewExtensionSet(t *testing.T) {
	set := NewExtensionSet(".EXE", "msi", " .ini ", "", ".exe", "BAT")

	want := []string{".exe", ".msi", ".ini", ".bat"}
	if len(set) != len(want) {
		t.Fatalf("NewExtensionSet() = %v, want %v", set, want)
	}
	for i := range want {
		if set[i] != want[i] {
			t.Errorf("set[%d] = %q, want %q", i, set[i], want[i])
		}
	}
}

func TestExtensionSet_Matches(t *testing.T) {
	set := NewExtensionSet(DefaultExemptExtensions...)

	tests := []struct {
		name string
		file string
		want bool
	}{
		{"lowercase", "setup.exe", true},
		{"uppercase name", "report.EXE", true},
		{"mixed case", "Installer.Msi", true},
		{"not exempt", "report.pdf", false},
		{"extension in middle", "tool.exe.zip", false},
		{"suffix without dot", "readme-exe", false},
		{"bare extension name", ".ini", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.Matches(tt.file); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestIsEligible_Boundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		threshold int
		age       time.Duration
		want      bool
	}{
		{"exactly at threshold", 15, days(15), false},
		{"one nanosecond over", 15, days(15) + time.Nanosecond, true},
		{"well past threshold", 15, days(20), true},
		{"younger than threshold", 15, days(10), false},
		{"zero threshold, modified now", 0, 0, false},
		{"zero threshold, one nanosecond old", 0, time.Nanosecond, true},
		{"modified in the future", 15, -time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := FileRecord{Name: "report.pdf", ModTime: now.Add(-tt.age), Regular: true}
			if got := IsEligible(rec, tt.threshold, nil, now); got != tt.want {
				t.Errorf("IsEligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsEligible_ExemptNeverEligible(t *testing.T) {
	now := time.Now()
	exempt := NewExtensionSet(DefaultExemptExtensions...)

	for _, name := range []string{"setup.exe", "SETUP.EXE", "pkg.msi", "boot.ini", "run.bat"} {
		for _, threshold := range []int{0, 1, 15, 365} {
			for _, age := range []time.Duration{0, days(1), days(100), days(10000)} {
				rec := FileRecord{Name: name, ModTime: now.Add(-age), Regular: true}
				if IsEligible(rec, threshold, exempt, now) {
					t.Errorf("IsEligible(%q, threshold=%d, age=%v) = true, want false", name, threshold, age)
				}
				if got := Classify(rec, threshold, exempt, now); got != OutcomeSkippedExempt {
					t.Errorf("Classify(%q) = %q, want %q", name, got, OutcomeSkippedExempt)
				}
			}
		}
	}
}

func TestIsEligible_Idempotent(t *testing.T) {
	now := time.Now()
	exempt := NewExtensionSet(".exe")
	rec := FileRecord{Name: "notes.txt", ModTime: now.Add(-days(16)), Regular: true}

	first := IsEligible(rec, 15, exempt, now)
	second := IsEligible(rec, 15, exempt, now)
	if first != second {
		t.Errorf("IsEligible() not idempotent: %v then %v", first, second)
	}
	if !first {
		t.Error("expected 16 day old file to be eligible at threshold 15")
	}
}

func TestClassify_NotAged(t *testing.T) {
	now := time.Now()
	rec := FileRecord{Name: "fresh.log", ModTime: now.Add(-time.Hour), Regular: true}

	if got := Classify(rec, 1, nil, now); got != OutcomeSkippedNotAged {
		t.Errorf("Classify() = %q, want %q", got, OutcomeSkippedNotAged)
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		name string
		days int
		want time.Duration
	}{
		{"zero", 0, 0},
		{"default active", 15, 15 * Day},
		{"largest representable", MaxDays, time.Duration(MaxDays) * Day},
		{"first beyond range saturates", MaxDays + 1, time.Duration(math.MaxInt64)},
		{"keep forever saturates", 200000, time.Duration(math.MaxInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Threshold(tt.days)
			if got != tt.want {
				t.Errorf("Threshold(%d) = %v, want %v", tt.days, got, tt.want)
			}
			if got < 0 {
				t.Errorf("Threshold(%d) is negative", tt.days)
			}
		})
	}

	if MaxDays != 106751 {
		t.Errorf("MaxDays = %d, want 106751", MaxDays)
	}
}

func TestIsEligible_HugeThreshold(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	for _, threshold := range []int{MaxDays, MaxDays + 1, 200000} {
		fresh := FileRecord{Name: "fresh.tar", ModTime: now.Add(-time.Hour), Regular: true}
		old := FileRecord{Name: "old.tar", ModTime: now.Add(-days(400)), Regular: true}
		if IsEligible(fresh, threshold, nil, now) || IsEligible(old, threshold, nil, now) {
			t.Errorf("threshold %d: files must never be eligible", threshold)
		}
	}
}
