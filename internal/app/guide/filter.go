package guide

import (
	"strings"

	"github.com/MotWakorb/guidearr/internal/app/dispatcharr"
)

// FilterByProfile restricts channels to the identifier set a channel profile
// declares. An empty id set disables the filter entirely (fail open), so a
// misconfigured or empty profile never blanks the guide.
func FilterByProfile(channels []dispatcharr.Channel, ids []int64) []dispatcharr.Channel {
	if len(ids) == 0 {
		return channels
	}

	keep := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}

	filtered := make([]dispatcharr.Channel, 0, len(channels))
	for _, channel := range channels {
		if _, ok := keep[channel.ID]; ok {
			filtered = append(filtered, channel)
		}
	}
	return filtered
}

// ExcludeGroups drops channels whose group id resolves to one of the given
// group names, compared case-insensitively. Channels whose group id does not
// resolve to any known group are kept; exclusion happens only by name match.
func ExcludeGroups(channels []dispatcharr.Channel, groups map[int64]string, names []string) []dispatcharr.Channel {
	if len(names) == 0 {
		return channels
	}

	excluded := make(map[int64]struct{})
	for id, groupName := range groups {
		for _, name := range names {
			if strings.EqualFold(groupName, name) {
				excluded[id] = struct{}{}
				break
			}
		}
	}
	if len(excluded) == 0 {
		return channels
	}

	filtered := make([]dispatcharr.Channel, 0, len(channels))
	for _, channel := range channels {
		if _, ok := excluded[channel.GroupID]; ok {
			continue
		}
		filtered = append(filtered, channel)
	}
	return filtered
}
