package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/evergreen/components"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkToggle   BookmarkType = "toggle"
	BookmarkSettled  BookmarkType = "settled"
	BookmarkFacing   BookmarkType = "facing"
	BookmarkSpinning BookmarkType = "spinning"
)

// Bookmark marks a notable moment in a transition.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Group       string       `csv:"group" json:"group,omitempty"`
	Tick        int32        `csv:"tick" json:"tick"`
	Elapsed     float64      `csv:"elapsed" json:"elapsed"`
	SinceToggle float64      `csv:"since_toggle" json:"since_toggle"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"group", b.Group,
		"tick", b.Tick,
		"since_toggle", b.SinceToggle,
		"description", b.Description,
	)
}

// GroupForm is the per-group state the detector watches.
type GroupForm struct {
	Kind     components.GroupKind
	Factor   float64
	Target   float64
	FaceAxis bool
}

type groupMark struct {
	factor  float64
	settled bool
}

// BookmarkDetector detects threshold crossings and settling after toggles.
type BookmarkDetector struct {
	faceThreshold float64
	spinThreshold float64

	marks         [components.NumGroups]groupMark
	primed        bool
	toggleElapsed float64
}

// NewBookmarkDetector creates a detector for the given thresholds.
func NewBookmarkDetector(faceThreshold, spinThreshold float64) *BookmarkDetector {
	return &BookmarkDetector{
		faceThreshold: faceThreshold,
		spinThreshold: spinThreshold,
	}
}

// RecordToggle notes an external state change and returns its bookmark.
func (d *BookmarkDetector) RecordToggle(tick int32, elapsed float64, state components.TreeState) Bookmark {
	d.toggleElapsed = elapsed
	return Bookmark{
		Type:        BookmarkToggle,
		Tick:        tick,
		Elapsed:     elapsed,
		Description: "state set to " + state.String(),
	}
}

// Check compares the latest group states with the previous call and
// returns any triggered bookmarks.
func (d *BookmarkDetector) Check(tick int32, elapsed float64, forms []GroupForm) []Bookmark {
	if !d.primed {
		for _, f := range forms {
			d.marks[f.Kind] = groupMark{factor: f.Factor, settled: f.Factor == f.Target}
		}
		d.primed = true
		return nil
	}

	var out []Bookmark
	mark := func(typ BookmarkType, kind components.GroupKind, desc string) {
		out = append(out, Bookmark{
			Type:        typ,
			Group:       kind.String(),
			Tick:        tick,
			Elapsed:     elapsed,
			SinceToggle: elapsed - d.toggleElapsed,
			Description: desc,
		})
	}

	for _, f := range forms {
		prev := d.marks[f.Kind]
		settled := f.Factor == f.Target

		if settled && !prev.settled {
			mark(BookmarkSettled, f.Kind, fmt.Sprintf("settled at %g", f.Target))
		}
		if f.FaceAxis {
			if dir, ok := crossed(prev.factor, f.Factor, d.faceThreshold); ok {
				mark(BookmarkFacing, f.Kind, "axis facing "+dir)
			}
		}
		if dir, ok := crossed(prev.factor, f.Factor, d.spinThreshold); ok {
			mark(BookmarkSpinning, f.Kind, "group spin "+dir)
		}

		d.marks[f.Kind] = groupMark{factor: f.Factor, settled: settled}
	}
	return out
}

// crossed reports whether a value moved across a strict "> threshold" boundary.
func crossed(prev, cur, threshold float64) (string, bool) {
	switch {
	case prev <= threshold && cur > threshold:
		return "engaged", true
	case prev > threshold && cur <= threshold:
		return "released", true
	}
	return "", false
}
