package guide

import (
	"slices"
	"time"

	"github.com/MotWakorb/guidearr/internal/app/dispatcharr"
)

// ProgramEntry is one schedule item with parsed, half-open [Start, End) times.
type ProgramEntry struct {
	Start    time.Time
	End      time.Time
	Title    string
	SubTitle string
}

// ProgramIndex buckets programs by schedule key (tvg_id), preserving upstream
// input order within each bucket. The upstream is not trusted to deliver
// sorted or non-overlapping programs; queries tolerate both.
type ProgramIndex struct {
	buckets map[string][]ProgramEntry
}

// NewProgramIndex builds an index from raw programs. Programs with an empty
// schedule key or timestamps that fail to parse are dropped; a bad row never
// poisons the rest of its bucket.
func NewProgramIndex(programs []dispatcharr.Program) *ProgramIndex {
	buckets := make(map[string][]ProgramEntry)
	for _, program := range programs {
		if program.TvgID == "" {
			continue
		}

		start, err := time.Parse(time.RFC3339, program.StartTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, program.EndTime)
		if err != nil {
			continue
		}

		buckets[program.TvgID] = append(buckets[program.TvgID], ProgramEntry{
			Start:    start.UTC(),
			End:      end.UTC(),
			Title:    program.Title,
			SubTitle: program.SubTitle,
		})
	}
	return &ProgramIndex{buckets: buckets}
}

// Current returns the program airing at the given instant, i.e. the first
// entry in the bucket with start <= at < end. When malformed upstream data
// makes several programs overlap the instant, input order decides.
func (idx *ProgramIndex) Current(key string, at time.Time) (ProgramEntry, bool) {
	if idx == nil || key == "" {
		return ProgramEntry{}, false
	}
	for _, entry := range idx.buckets[key] {
		if !entry.Start.After(at) && entry.End.After(at) {
			return entry, true
		}
	}
	return ProgramEntry{}, false
}

// Next returns the program with the smallest start strictly after the given
// instant; ties are broken by input order.
func (idx *ProgramIndex) Next(key string, after time.Time) (ProgramEntry, bool) {
	if idx == nil || key == "" {
		return ProgramEntry{}, false
	}

	var best ProgramEntry
	found := false
	for _, entry := range idx.buckets[key] {
		if !entry.Start.After(after) {
			continue
		}
		if !found || entry.Start.Before(best.Start) {
			best = entry
			found = true
		}
	}
	return best, found
}

// Overlapping returns all programs intersecting the half-open window
// [from, to), sorted by start ascending. Equal starts keep input order; the
// grid projector depends on the output order.
func (idx *ProgramIndex) Overlapping(key string, from, to time.Time) []ProgramEntry {
	if idx == nil || key == "" {
		return nil
	}

	var result []ProgramEntry
	for _, entry := range idx.buckets[key] {
		if entry.Start.Before(to) && entry.End.After(from) {
			result = append(result, entry)
		}
	}
	slices.SortStableFunc(result, func(a, b ProgramEntry) int {
		return a.Start.Compare(b.Start)
	})
	return result
}
