package history

import (
	"context"
	"sort"
	"time"
)

// EntityRef identifies one tracked state field of one entity
type EntityRef struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Field      string `json:"field"`
}

// TransitionCount is one from/to pair with its occurrence count
type TransitionCount struct {
	FromState string `json:"from_state"`
	ToState   string `json:"to_state"`
	Count     int64  `json:"count"`
}

// StuckEntity is an entity that entered a state and has not left it within
// the queried threshold
type StuckEntity struct {
	EntityRef
	State     string        `json:"state"`
	EnteredAt time.Time     `json:"entered_at"`
	DwellTime time.Duration `json:"dwell_time"`
}

// Reader queries and aggregates the transition trail
type Reader interface {
	// Find retrieves records matching the criteria, newest first.
	Find(ctx context.Context, criteria Criteria) ([]Record, error)
	// FindWithCursor pages through records; it returns the next cursor, or
	// an empty string when the result set is exhausted.
	FindWithCursor(ctx context.Context, criteria Criteria, cursor string) ([]Record, string, error)
	// Count returns the number of records matching the criteria.
	Count(ctx context.Context, criteria Criteria) (int64, error)
	// CountByState returns, per target state, how many matching transitions
	// entered it.
	CountByState(ctx context.Context, criteria Criteria) (map[string]int64, error)
	// AverageDwell returns the mean duration entities spent in the state
	// across completed stays, and the number of stays measured.
	AverageDwell(ctx context.Context, criteria Criteria, state string) (time.Duration, int, error)
	// LatestDwell returns the duration of the most recently completed stay
	// in the state.
	LatestDwell(ctx context.Context, criteria Criteria, state string) (time.Duration, error)
	// MostCommonTransitions returns from/to pairs ordered by frequency,
	// capped at limit when limit is positive.
	MostCommonTransitions(ctx context.Context, criteria Criteria, limit int) ([]TransitionCount, error)
	// StuckEntities returns entities sitting in their current state longer
	// than the threshold, relative to now.
	StuckEntities(ctx context.Context, criteria Criteria, threshold time.Duration, now time.Time) ([]StuckEntity, error)
}

type reader struct {
	storage Storage
}

// NewReader creates a new history reader
func NewReader(storage Storage) Reader {
	if storage == nil {
		panic("history: storage cannot be nil")
	}
	return &reader{storage: storage}
}

func (r *reader) Find(ctx context.Context, criteria Criteria) ([]Record, error) {
	return r.storage.Query(ctx, criteria)
}

func (r *reader) FindWithCursor(ctx context.Context, criteria Criteria, cursor string) ([]Record, string, error) {
	criteria.Cursor = cursor
	if cursor != "" {
		criteria.Offset = 0
	}

	records, err := r.storage.Query(ctx, criteria)
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if criteria.Limit > 0 && len(records) == criteria.Limit {
		nextCursor = records[len(records)-1].ID
	}
	return records, nextCursor, nil
}

// Count uses the storage's optimized count when available and falls back to
// loading matching records otherwise.
func (r *reader) Count(ctx context.Context, criteria Criteria) (int64, error) {
	if counter, ok := r.storage.(StorageCounter); ok {
		return counter.Count(ctx, criteria)
	}

	records, err := r.storage.Query(ctx, criteria)
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

func (r *reader) CountByState(ctx context.Context, criteria Criteria) (map[string]int64, error) {
	records, err := r.successes(ctx, criteria)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, rec := range records {
		counts[rec.ToState]++
	}
	return counts, nil
}

func (r *reader) AverageDwell(ctx context.Context, criteria Criteria, state string) (time.Duration, int, error) {
	stays, err := r.completedStays(ctx, criteria, state)
	if err != nil {
		return 0, 0, err
	}
	if len(stays) == 0 {
		return 0, 0, nil
	}

	var total time.Duration
	for _, stay := range stays {
		total += stay.duration
	}
	return total / time.Duration(len(stays)), len(stays), nil
}

func (r *reader) LatestDwell(ctx context.Context, criteria Criteria, state string) (time.Duration, error) {
	stays, err := r.completedStays(ctx, criteria, state)
	if err != nil {
		return 0, err
	}
	if len(stays) == 0 {
		return 0, nil
	}

	latest := stays[0]
	for _, stay := range stays[1:] {
		if stay.leftAt.After(latest.leftAt) {
			latest = stay
		}
	}
	return latest.duration, nil
}

func (r *reader) MostCommonTransitions(ctx context.Context, criteria Criteria, limit int) ([]TransitionCount, error) {
	records, err := r.successes(ctx, criteria)
	if err != nil {
		return nil, err
	}

	type pair struct{ from, to string }
	counts := make(map[pair]int64)
	for _, rec := range records {
		counts[pair{rec.FromState, rec.ToState}]++
	}

	out := make([]TransitionCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, TransitionCount{FromState: p.from, ToState: p.to, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].FromState != out[j].FromState {
			return out[i].FromState < out[j].FromState
		}
		return out[i].ToState < out[j].ToState
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *reader) StuckEntities(ctx context.Context, criteria Criteria, threshold time.Duration, now time.Time) ([]StuckEntity, error) {
	records, err := r.successes(ctx, criteria)
	if err != nil {
		return nil, err
	}

	// Records arrive newest first, so the first record seen per entity is
	// its current position.
	latest := make(map[EntityRef]Record)
	for _, rec := range records {
		ref := EntityRef{EntityType: rec.EntityType, EntityID: rec.EntityID, Field: rec.Field}
		if _, seen := latest[ref]; !seen {
			latest[ref] = rec
		}
	}

	stuck := make([]StuckEntity, 0)
	for ref, rec := range latest {
		dwell := now.Sub(rec.CreatedAt)
		if dwell >= threshold {
			stuck = append(stuck, StuckEntity{
				EntityRef: ref,
				State:     rec.ToState,
				EnteredAt: rec.CreatedAt,
				DwellTime: dwell,
			})
		}
	}
	sort.Slice(stuck, func(i, j int) bool {
		return stuck[i].DwellTime > stuck[j].DwellTime
	})
	return stuck, nil
}

// successes loads matching successful records without pagination; failed
// attempts never changed an entity's position and are excluded from all
// aggregates.
func (r *reader) successes(ctx context.Context, criteria Criteria) ([]Record, error) {
	criteria.Result = ResultSuccess
	criteria.Limit = 0
	criteria.Offset = 0
	criteria.Cursor = ""
	return r.storage.Query(ctx, criteria)
}

type stay struct {
	duration time.Duration
	leftAt   time.Time
}

// completedStays measures every closed interval an entity spent in the
// state: from the record entering it to the next record leaving it.
func (r *reader) completedStays(ctx context.Context, criteria Criteria, state string) ([]stay, error) {
	records, err := r.successes(ctx, criteria)
	if err != nil {
		return nil, err
	}

	grouped := make(map[EntityRef][]Record)
	for _, rec := range records {
		ref := EntityRef{EntityType: rec.EntityType, EntityID: rec.EntityID, Field: rec.Field}
		grouped[ref] = append(grouped[ref], rec)
	}

	stays := make([]stay, 0)
	for _, trail := range grouped {
		sort.Slice(trail, func(i, j int) bool {
			return trail[i].CreatedAt.Before(trail[j].CreatedAt)
		})
		for i, rec := range trail {
			if rec.ToState != state || i+1 >= len(trail) {
				continue
			}
			next := trail[i+1]
			stays = append(stays, stay{
				duration: next.CreatedAt.Sub(rec.CreatedAt),
				leftAt:   next.CreatedAt,
			})
		}
	}
	return stays, nil
}
