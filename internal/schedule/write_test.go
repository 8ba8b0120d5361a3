package schedule

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"schedgen/internal/model"
)

func TestWrite(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	snap := &model.Snapshot{
		LastUpdated:        time.Date(2024, 6, 12, 8, 30, 0, 0, ny),
		Timezone:           "America/New_York",
		OwnerName:          "Nikki",
		WeeklyProjectHours: 20,
		WorkdayStart:       8,
		WorkdayEnd:         19,
		Configured:         true,
		Events: []model.BusyInterval{
			{
				Start:   time.Date(2024, 6, 12, 9, 0, 0, 0, ny),
				End:     time.Date(2024, 6, 12, 10, 0, 0, 0, ny),
				Summary: model.BusyLabel,
			},
		},
	}

	path := filepath.Join(t.TempDir(), "schedule.json")
	if err := Write(path, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Pretty-printed, with offset timestamps and the published key names.
	text := string(data)
	for _, want := range []string{
		"\n  \"lastUpdated\"",
		"\"timezone\": \"America/New_York\"",
		"\"configured\": true",
		"\"summary\": \"Busy\"",
		"2024-06-12T09:00:00-04:00",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	var got model.Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !got.LastUpdated.Equal(snap.LastUpdated) {
		t.Errorf("lastUpdated round-trip = %v", got.LastUpdated)
	}
	if len(got.Events) != 1 || !got.Events[0].Start.Equal(snap.Events[0].Start) {
		t.Errorf("events round-trip = %+v", got.Events)
	}
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")

	first := &model.Snapshot{OwnerName: "first", Events: []model.BusyInterval{}}
	second := &model.Snapshot{OwnerName: "second", Events: []model.BusyInterval{}}

	if err := Write(path, first); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, second); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "first") {
		t.Error("previous snapshot content survived the overwrite")
	}
	if !strings.Contains(string(data), "\"ownerName\": \"second\"") {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestWriteEmptyEventsIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")

	if err := Write(path, &model.Snapshot{Events: []model.BusyInterval{}}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\"events\": []") {
		t.Errorf("empty events should serialize as [], got:\n%s", data)
	}
}

func TestWriteInvalidArgs(t *testing.T) {
	if err := Write("", &model.Snapshot{}); err == nil {
		t.Error("expected error for empty path")
	}
	if err := Write(filepath.Join(t.TempDir(), "s.json"), nil); err == nil {
		t.Error("expected error for nil snapshot")
	}
}
