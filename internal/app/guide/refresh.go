package guide

import (
	"context"
	"sync"
	"time"

	"github.com/MotWakorb/guidearr/internal/app/dispatcharr"
	"go.uber.org/zap"
)

// Program schedules are fetched from the start of yesterday (UTC) through
// this many days ahead.
const programHorizonDays = 2

// Options configure the refresh pipeline.
type Options struct {
	PageTitle     string
	ProfileName   string   // optional: keep only channels the profile declares
	ExcludeGroups []string // optional: drop channels in these groups, by name
}

// Refresher sequences one full cache refresh: authenticate, fetch all
// collections, filter, index, render, swap. Stale-serve-on-error is the
// governing policy: any failure before the swap leaves the previous
// generation fully intact.
type Refresher struct {
	client *dispatcharr.Client
	store  *Store
	opts   Options

	// serializes refreshes; a second caller waits behind the first
	mu sync.Mutex

	logger *zap.Logger
}

func NewRefresher(client *dispatcharr.Client, store *Store, opts Options) *Refresher {
	return &Refresher{
		client: client,
		store:  store,
		opts:   opts,
		logger: zap.L(),
	}
}

// Store exposes the cache store for the serving layer.
func (r *Refresher) Store() *Store {
	return r.store
}

// Refresh rebuilds the cache from upstream and atomically installs the result.
// Overlapping calls are serialized, so two triggers never commit out of order.
// On failure nothing but the recorded error changes; before the first success
// a synthesized error page becomes the artifact so the guide is never blank.
func (r *Refresher) Refresh(ctx context.Context) (*Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Info("Starting cache refresh.")

	gen, err := r.build(ctx)
	if err != nil {
		r.logger.Error("Cache refresh failed.", zap.Error(err))
		r.recordFailure(err)
		return nil, err
	}

	r.store.Swap(gen)
	r.logger.Sugar().Infof("Cache refresh complete, channels: %d, programs: %d.",
		len(gen.Channels), len(gen.Programs))
	return gen, nil
}

// build runs the whole fetch/filter/index/render pipeline without touching
// the store, so slow upstream calls never stall readers.
func (r *Refresher) build(ctx context.Context) (*Generation, error) {
	token, err := r.client.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := r.client.GetChannelGroups(ctx, token)
	if err != nil {
		return nil, err
	}
	r.logger.Sugar().Infof("Fetched %d channel groups.", len(groups))

	logos, err := r.client.GetLogos(ctx, token)
	if err != nil {
		return nil, err
	}
	r.logger.Sugar().Infof("Fetched %d logos.", len(logos))

	channels, err := r.client.GetChannels(ctx, token)
	if err != nil {
		return nil, err
	}
	r.logger.Sugar().Infof("Fetched %d channels.", len(channels))

	if r.opts.ProfileName != "" {
		profile, err := r.client.GetChannelProfileByName(ctx, token, r.opts.ProfileName)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			r.logger.Warn("Channel profile not found, profile filter disabled.",
				zap.String("profile", r.opts.ProfileName))
		} else {
			channels = FilterByProfile(channels, profile.ChannelIDs())
			r.logger.Sugar().Infof("Filtered to %d channels for profile %q.",
				len(channels), r.opts.ProfileName)
		}
	}

	if len(r.opts.ExcludeGroups) > 0 {
		before := len(channels)
		channels = ExcludeGroups(channels, groups, r.opts.ExcludeGroups)
		r.logger.Sugar().Infof("Excluded %d channels by group, %d remaining.",
			before-len(channels), len(channels))
	}

	rangeStart, rangeEnd := programRange(time.Now())
	programs, err := r.client.GetPrograms(ctx, token, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	r.logger.Sugar().Infof("Fetched %d programs.", len(programs))

	now := time.Now()
	return &Generation{
		Groups:    groups,
		Logos:     logos,
		Channels:  channels,
		Programs:  programs,
		Index:     NewProgramIndex(programs),
		HTML:      RenderGuide(channels, groups, logos, r.opts.PageTitle, now),
		UpdatedAt: now,
	}, nil
}

// recordFailure implements the failure half of the cache protocol: annotate
// the live generation when one exists, otherwise install a first generation
// whose artifact is the synthesized error page.
func (r *Refresher) recordFailure(err error) {
	if r.store.Read() != nil {
		r.store.RecordError(err)
		return
	}

	r.store.Swap(&Generation{
		Groups:    map[int64]string{},
		Logos:     map[int64]dispatcharr.Logo{},
		Index:     NewProgramIndex(nil),
		HTML:      RenderError(err.Error()),
		UpdatedAt: time.Now(),
		LastError: err.Error(),
	})
}

// programRange is the UTC fetch window for schedules: start of yesterday
// through programHorizonDays ahead.
func programRange(now time.Time) (time.Time, time.Time) {
	day := now.UTC().Truncate(24 * time.Hour)
	return day.AddDate(0, 0, -1), day.AddDate(0, 0, programHorizonDays)
}
