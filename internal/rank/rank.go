// Package rank turns a newest-first timeline into a bounded, scored edition.
package rank

import (
	"sort"
	"time"

	"besttweets/internal/etag"
	"besttweets/internal/model"
)

// Defaults used when a Pipeline field is left zero.
const (
	DefaultCap  = 3
	DefaultDays = 1
)

// Kind tells a populated edition apart from a day with nothing worth showing.
type Kind int

const (
	Ranked Kind = iota
	Empty
)

// Result is the outcome of Build. Digest is always set; for Empty it has no Items
// but still carries TotalInWindow and the validation tag.
type Result struct {
	Kind   Kind
	Digest model.Digest
}

// Pipeline holds the ranking settings.
type Pipeline struct {
	Weight int
	Cap    int
	Days   int
}

// New returns a Pipeline, substituting defaults for a non-positive limit or days.
// A negative weight is clamped to zero.
func New(weight, limit, days int) Pipeline {
	if weight < 0 {
		weight = 0
	}
	if limit <= 0 {
		limit = DefaultCap
	}
	if days <= 0 {
		days = DefaultDays
	}
	return Pipeline{Weight: weight, Cap: limit, Days: days}
}

// Cutoff is the oldest timestamp that still counts as inside the window.
func (p Pipeline) Cutoff(now time.Time) time.Time {
	return now.Add(-time.Duration(p.Days) * 24 * time.Hour)
}

// Window scores items until the first one older than cutoff.
// Upstream returns the timeline newest first; anything after an out-of-order old item
// is not looked at, even if it would be inside the window.
func (p Pipeline) Window(items []model.ActivityItem, cutoff time.Time) []model.ScoredItem {
	out := make([]model.ScoredItem, 0, len(items))
	for _, it := range items {
		if it.CreatedAt.Before(cutoff) {
			break
		}
		out = append(out, model.ScoredItem{ActivityItem: it, Score: model.Score(it, p.Weight)})
	}
	return out
}

// Top drops zero scores, stable-sorts by score descending and truncates to Cap.
func (p Pipeline) Top(scored []model.ScoredItem) []model.ScoredItem {
	kept := make([]model.ScoredItem, 0, len(scored))
	for _, s := range scored {
		if s.Score > 0 {
			kept = append(kept, s)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	if len(kept) > p.Cap {
		kept = kept[:p.Cap]
	}
	return kept
}

// Build runs the full pipeline for identity at time now.
func (p Pipeline) Build(identity model.Identity, items []model.ActivityItem, now time.Time) Result {
	scored := p.Window(items, p.Cutoff(now))
	d := model.Digest{
		TotalInWindow: len(scored),
		DaysFetched:   p.Days,
		ValidationTag: etag.ComputeValidationTag(string(identity), now),
	}
	if len(items) > 0 {
		a := items[0].Author
		d.DisplayName, d.Handle, d.AvatarURL = a.Name, a.ScreenName, a.ProfileImageURL
	}
	d.Items = p.Top(scored)
	if len(d.Items) == 0 {
		return Result{Kind: Empty, Digest: d}
	}
	return Result{Kind: Ranked, Digest: d}
}
