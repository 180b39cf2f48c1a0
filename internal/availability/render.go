package availability

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// renderReference is the fixed calendar day schedule conversions are anchored
// on: an arbitrary Monday, shared by every conversion in a render so the
// relative ordering of converted times stays meaningful.
var renderReference = time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)

// Subject is the data needed to render one user's weekly schedule.
type Subject struct {
	Name    string
	Zone    *time.Location
	Entries []Entry
}

// Renderer builds the dual-timezone weekly schedule views. The zero value is
// ready to use.
type Renderer struct {
	// Reference overrides the conversion anchor date when non-zero.
	Reference time.Time
}

// Render produces the schedule of subject as seen from viewerZone. Each line
// pairs the viewer-local range with the subject-local range and the entry's
// status. Viewer-local times that land on a different calendar day than the
// subject-local ones carry a (+1d) or (-1d) marker. A subject with no entries
// yields a distinct "no scheduled statuses" result.
func (r Renderer) Render(subject Subject, viewerZone *time.Location) string {
	if len(subject.Entries) == 0 {
		return fmt.Sprintf("%s has no scheduled statuses.", subject.Name)
	}

	reference := r.Reference
	if reference.IsZero() {
		reference = renderReference
	}

	entries := make([]Entry, len(subject.Entries))
	copy(entries, subject.Entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Day < entries[j].Day
	})

	var b strings.Builder
	fmt.Fprintf(&b, "             %s's schedule\n", subject.Name)
	fmt.Fprintf(&b, "            Yours      | %s's:", subject.Name)

	// The (user, day) key makes duplicate weekdays impossible, but grouping
	// still keys off an actual day change rather than assuming it.
	currentDay := Weekday(-1)
	for _, entry := range entries {
		if entry.Day != currentDay {
			fmt.Fprintf(&b, "\n%-9s", entry.Day.Label())
			currentDay = entry.Day
		}

		start, startShift := Convert(entry.Start, subject.Zone, viewerZone, reference)
		end, endShift := Convert(entry.End, subject.Zone, viewerZone, reference)

		fmt.Fprintf(&b, " %s-%s | %s-%s: %s",
			markShift(start, startShift),
			markShift(end, endShift),
			entry.Start, entry.End,
			entry.Status.Display())
	}

	return b.String()
}

// markShift annotates a converted time that crossed midnight relative to the
// subject-local day. The marker is parenthesized so it cannot be read as part
// of the surrounding time range.
func markShift(m Minute, shift int) string {
	switch {
	case shift > 0:
		return fmt.Sprintf("%s(+%dd)", m, shift)
	case shift < 0:
		return fmt.Sprintf("%s(%dd)", m, shift)
	default:
		return m.String()
	}
}

// ChunkText splits a rendered block into fixed-size pieces no longer than max
// characters, to satisfy downstream transport limits. Boundaries may fall
// mid-line; callers relying on line framing must reassemble before parsing.
func ChunkText(text string, max int) []string {
	if text == "" {
		return nil
	}
	if max <= 0 {
		return []string{text}
	}

	chunks := make([]string, 0, len(text)/max+1)
	for len(text) > max {
		chunks = append(chunks, text[:max])
		text = text[max:]
	}
	return append(chunks, text)
}
