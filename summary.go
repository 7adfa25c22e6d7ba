package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/df07/go-frustum-survey/pkg/survey"
)

// printSummary writes a one-line survey report. Counts that need attention
// are highlighted when colour is enabled and the writer supports it.
func printSummary(w io.Writer, s survey.Summary, color bool) {
	profile := termenv.Ascii
	if color {
		profile = termenv.NewOutput(w).EnvColorProfile()
	}
	out := termenv.NewOutput(w, termenv.WithProfile(profile))

	green := func(v interface{}) termenv.Style {
		return out.String(fmt.Sprint(v)).Foreground(out.Color("2")).Bold()
	}
	yellow := func(v interface{}) termenv.Style {
		return out.String(fmt.Sprint(v)).Foreground(out.Color("3"))
	}
	red := func(v interface{}) termenv.Style {
		return out.String(fmt.Sprint(v)).Foreground(out.Color("1")).Bold()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d frames, %s/%d visible (%.1f%%)",
		s.Camera, s.FramesVisited, green(s.Visible), s.Objects, s.VisiblePercent())
	if s.QueryErrors > 0 {
		fmt.Fprintf(&b, ", %s query errors", yellow(s.QueryErrors))
	}
	if s.Culled {
		fmt.Fprintf(&b, ", %s deleted", green(s.Deleted))
		if s.Failed > 0 {
			fmt.Fprintf(&b, ", %s failed", red(s.Failed))
		} else {
			b.WriteString(", 0 failed")
		}
	}
	fmt.Fprintf(&b, " in %v\n", s.Elapsed.Round(time.Millisecond))
	io.WriteString(w, b.String())
}

// printIDs writes ids one per line under a heading
func printIDs(w io.Writer, heading string, ids []string) {
	fmt.Fprintf(w, "%s (%d):\n", heading, len(ids))
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", id)
	}
}
