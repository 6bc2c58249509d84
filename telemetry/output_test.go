package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/config"
	"github.com/pthm-cable/beans/systems"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("", "run", true)
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	// Every method is a no-op on a nil manager
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteEvent(EventRecord{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesFiles(t *testing.T) {
	dir := t.TempDir()
	runID := NewRunID()
	om, err := NewOutputManager(dir, runID, true)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), Population: i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkExtinction, Tick: 1200, Description: "gone"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Fatal(err)
	}
	ev := systems.Event{Kind: systems.EventDeath, Bean: 4, Fate: components.FateStarved, X: 1, Y: 2}
	if err := om.WriteEvent(NewEventRecord(runID, 42, ev)); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,population") {
		t.Errorf("header = %q", lines[0])
	}

	id, err := os.ReadFile(filepath.Join(dir, "run_id"))
	if err != nil || strings.TrimSpace(string(id)) != runID {
		t.Errorf("run_id = %q, %v", id, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Error(err)
	}

	f, err := os.Open(filepath.Join(dir, "events.jsonl.zst"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	recs, err := ReadEventLog(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("events = %d, want 1", len(recs))
	}
	got := recs[0]
	if got.RunID != runID || got.Tick != 42 || got.Kind != "death" || got.Fate != "starved" || got.Bean != 4 {
		t.Errorf("event = %+v", got)
	}
}
