package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	dir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		RNGSeed: 42,
		Tick:    600,
		Elapsed: 10,
		State:   "formed",
		Groups: []GroupState{
			{Kind: "needles", Count: 3500, Mounted: true, Factor: 0.97, Target: 1, Spin: 0.4, Version: 600},
			{Kind: "ornaments", Count: 150, Mounted: true, Factor: 0.93, Target: 1, Spin: 0.2, Version: 600},
		},
		Star: StarState{Y: 6.4, Scale: 0.98, SpinY: 5},
	}

	path, err := SaveSnapshot(snapshot, dir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if filepath.Base(path) != "snapshot_600.json" {
		t.Errorf("path = %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.RNGSeed != 42 || loaded.State != "formed" {
		t.Errorf("loaded header = seed %d state %q", loaded.RNGSeed, loaded.State)
	}
	if len(loaded.Groups) != 2 || loaded.Groups[1].Factor != 0.93 {
		t.Errorf("loaded groups = %+v", loaded.Groups)
	}
	if loaded.Star != snapshot.Star {
		t.Errorf("star = %+v, want %+v", loaded.Star, snapshot.Star)
	}
	if loaded.Bookmark != nil {
		t.Error("bookmark should be omitted")
	}
}

func TestSnapshotBookmarkName(t *testing.T) {
	dir := t.TempDir()
	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		Tick:     90,
		Bookmark: &Bookmark{Type: BookmarkSettled, Group: "needles"},
	}
	path, err := SaveSnapshot(snapshot, dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, "snapshot_90_settled.json") {
		t.Errorf("path = %s", path)
	}
}

func TestLoadSnapshotVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	data, _ := json.Marshal(Snapshot{Version: SnapshotVersion + 1})
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}

func TestOutputManagerCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(60 * (i + 1)), State: "formed"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkToggle, Description: "state set to formed"}); err != nil {
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
	if !strings.HasPrefix(lines[0], "window_end,elapsed,state") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(data), "window_end") != 1 {
		t.Error("header written more than once")
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager should have empty dir")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}
