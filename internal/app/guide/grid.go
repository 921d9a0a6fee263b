package guide

import (
	"slices"
	"time"

	"github.com/MotWakorb/guidearr/internal/app/dispatcharr"
)

// Fixed guide geometry: each 30 minute slot renders at a constant width.
const (
	SlotMinutes = 30
	SlotWidthPx = 120

	pxPerMinute = SlotWidthPx / SlotMinutes
)

// Block is one renderable program segment, clipped to the display window and
// positioned in pixel space.
type Block struct {
	Title    string    `json:"title"`
	SubTitle string    `json:"sub_title,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	LeftPx   int       `json:"left_px"`
	WidthPx  int       `json:"width_px"`
	NoData   bool      `json:"no_data,omitempty"`
}

// ChannelRow carries one channel's metadata plus its projected blocks.
type ChannelRow struct {
	ChannelID int64   `json:"channel_id"`
	Number    string  `json:"number"`
	Name      string  `json:"name"`
	LogoURL   string  `json:"logo_url,omitempty"`
	Blocks    []Block `json:"blocks"`
}

// Timeline describes the slot header of the grid.
type Timeline struct {
	SlotLabels   []string `json:"slot_labels"` // local wall-clock, HH:MM
	SlotWidthPx  int      `json:"slot_width_px"`
	TotalWidthPx int      `json:"total_width_px"`
}

// WindowFromLocal converts a client-local date and starting hour into the UTC
// half-open window used for matching and layout. offsetMin is the client's
// offset in minutes east of UTC; it is applied exactly once, here.
func WindowFromLocal(year int, month time.Month, day, startHour, hours, offsetMin int) (time.Time, time.Time) {
	localStart := time.Date(year, month, day, startHour, 0, 0, 0, time.UTC)
	winStart := localStart.Add(-time.Duration(offsetMin) * time.Minute)
	return winStart, winStart.Add(time.Duration(hours) * time.Hour)
}

// ProjectRow clips a channel's overlapping programs to [winStart, winEnd) and
// lays them out in pixel space. A channel with nothing in the window yields a
// single full-width placeholder block so the row is never empty.
func ProjectRow(entries []ProgramEntry, winStart, winEnd time.Time) []Block {
	windowMinutes := int(winEnd.Sub(winStart) / time.Minute)
	if windowMinutes <= 0 {
		return nil
	}

	if len(entries) == 0 {
		return []Block{{
			Title:   "No data",
			Start:   winStart,
			End:     winEnd,
			WidthPx: windowMinutes * pxPerMinute,
			NoData:  true,
		}}
	}

	blocks := make([]Block, 0, len(entries))
	for _, entry := range entries {
		clipStart := clip(entry.Start, winStart, winEnd)
		clipEnd := clip(entry.End, winStart, winEnd)

		widthMinutes := int(clipEnd.Sub(clipStart) / time.Minute)
		if widthMinutes <= 0 {
			continue
		}

		blocks = append(blocks, Block{
			Title:    entry.Title,
			SubTitle: entry.SubTitle,
			Start:    entry.Start,
			End:      entry.End,
			LeftPx:   int(clipStart.Sub(winStart)/time.Minute) * pxPerMinute,
			WidthPx:  widthMinutes * pxPerMinute,
		})
	}

	if len(blocks) == 0 {
		return ProjectRow(nil, winStart, winEnd)
	}
	return blocks
}

// clip bounds t to the window: max(winStart, min(t, winEnd)).
func clip(t, winStart, winEnd time.Time) time.Time {
	if t.Before(winStart) {
		return winStart
	}
	if t.After(winEnd) {
		return winEnd
	}
	return t
}

// BuildTimeline emits the slot header for the window. Slot boundaries are
// computed in UTC and relabelled to client wall clock; the count includes the
// inclusive end boundary.
func BuildTimeline(winStart, winEnd time.Time, offsetMin int) Timeline {
	windowMinutes := int(winEnd.Sub(winStart) / time.Minute)
	if windowMinutes < 0 {
		windowMinutes = 0
	}

	slotCount := (windowMinutes+SlotMinutes-1)/SlotMinutes + 1
	offset := time.Duration(offsetMin) * time.Minute

	labels := make([]string, 0, slotCount)
	for i := 0; i < slotCount; i++ {
		boundary := winStart.Add(time.Duration(i*SlotMinutes) * time.Minute)
		labels = append(labels, boundary.Add(offset).Format("15:04"))
	}

	return Timeline{
		SlotLabels:   labels,
		SlotWidthPx:  SlotWidthPx,
		TotalWidthPx: slotCount * SlotWidthPx,
	}
}

// ProjectGrid builds the full grid view for a cached generation: one row per
// channel in guide order, each clipped to the window.
func ProjectGrid(gen *Generation, winStart, winEnd time.Time, offsetMin int) (Timeline, []ChannelRow) {
	timeline := BuildTimeline(winStart, winEnd, offsetMin)
	if gen == nil {
		return timeline, nil
	}

	channels := slices.Clone(gen.Channels)
	slices.SortStableFunc(channels, func(a, b dispatcharr.Channel) int {
		return NewSortKey(string(a.ChannelNumber)).Compare(NewSortKey(string(b.ChannelNumber)))
	})

	rows := make([]ChannelRow, 0, len(channels))
	for _, channel := range channels {
		row := ChannelRow{
			ChannelID: channel.ID,
			Number:    channel.ChannelNumber.Display(),
			Name:      CleanChannelName(channel.Name),
			Blocks:    ProjectRow(gen.Index.Overlapping(channel.TvgID, winStart, winEnd), winStart, winEnd),
		}
		if logo, ok := gen.Logos[channel.LogoID]; ok {
			row.LogoURL = logo.BestURL()
		}
		rows = append(rows, row)
	}
	return timeline, rows
}
