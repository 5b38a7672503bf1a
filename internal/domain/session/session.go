// Package session drives a single inspection from selection to a submitted record.
package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/types"
	"github.com/mkabbani/evround/pkg/logger"
)

// State is the controller's lifecycle phase.
type State string

const (
	// StateSelecting collects inspector, category and zone.
	StateSelecting State = "selecting"
	// StateFilling presents the checklist and accepts scores.
	StateFilling State = "filling"
	// StateSummary holds the submitted record for review.
	StateSummary State = "summary"
)

// Reference id suffix bounds, per the EVS-YYYYMMDD-NNNN format.
const (
	refSuffixMin  = 1000
	refSuffixSpan = 9000
)

// History is where submitted records go. The store prepends, newest first.
type History interface {
	Append(ctx context.Context, rec model.InspectionRecord) error
}

// Completion reports checklist progress.
type Completion struct {
	Answered int  `json:"answered"`
	Total    int  `json:"total"`
	Complete bool `json:"complete"`
}

// Controller owns the transient state of one inspection run. It is explicit
// state passed to whoever needs it; each flow instance is independently
// constructible. All methods are safe for concurrent use; handlers for the
// same session may run in parallel.
type Controller struct {
	catalog *model.Catalog
	history History
	log     logger.Logger
	now     func() time.Time
	rng     *rand.Rand

	mu    sync.Mutex
	state State

	inspector    model.Inspector
	hasInspector bool
	category     types.Category
	zone         model.Zone
	hasZone      bool

	items        []model.ChecklistItem
	itemIndex    map[string]model.ChecklistItem
	scores       map[string]int
	notes        map[string]string
	observations map[string][]string

	lastRecord *model.InspectionRecord
}

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithClock injects the time source used for timestamps and reference ids.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRand injects the random source for reference id suffixes.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithLogger sets a custom logger for the controller.
func WithLogger(log logger.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a controller over the given catalog and history sink.
func New(catalog *model.Catalog, history History, opts ...Option) *Controller {
	c := &Controller{
		catalog: catalog,
		history: history,
		state:   StateSelecting,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // suffix is a reference, not a secret
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectInspector picks the inspector for the run. Inactive inspectors are
// not selectable.
func (c *Controller) SelectInspector(id string) error {
	insp, ok := c.catalog.InspectorByID(id)
	if !ok {
		return fmt.Errorf("%w: inspector %s", ErrUnknownInspector, id)
	}
	if !insp.IsActive {
		return fmt.Errorf("%w: inspector %s", ErrInactiveInspector, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inspector = insp
	c.hasInspector = true
	return nil
}

// SelectCategory picks the risk category. The zone list is category-filtered,
// so any previously chosen zone is cleared.
func (c *Controller) SelectCategory(cat types.Category) error {
	if !cat.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.category = cat
	c.zone = model.Zone{}
	c.hasZone = false
	return nil
}

// SelectZone picks the zone. The zone must belong to the selected category.
func (c *Controller) SelectZone(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.category == "" {
		return ErrNoCategory
	}
	z, ok := c.catalog.ZoneByID(id)
	if !ok {
		return fmt.Errorf("%w: zone %s", ErrUnknownZone, id)
	}
	if z.Category != c.category {
		return fmt.Errorf("%w: zone %s is %s, selected category is %s",
			ErrZoneCategoryMismatch, id, z.Category, c.category)
	}
	c.zone = z
	c.hasZone = true
	return nil
}

// Start transitions to the checklist-filling state. All per-item maps are
// reset and the active item set for the category is captured. Returns
// ErrNotReady while any of inspector, category or zone is missing.
//
// Note: the inspector's allowed zone categories are deliberately not checked
// here, matching the established behavior of the flow.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasInspector || c.category == "" || !c.hasZone {
		return ErrNotReady
	}

	c.items = c.catalog.ItemsFor(c.category)
	c.itemIndex = make(map[string]model.ChecklistItem, len(c.items))
	for _, item := range c.items {
		c.itemIndex[item.ID] = item
	}
	c.scores = make(map[string]int)
	c.notes = make(map[string]string)
	c.observations = make(map[string][]string)
	c.lastRecord = nil
	c.state = StateFilling

	if c.log != nil {
		c.log.Info(ctx, "inspection started",
			logger.String("inspector", c.inspector.DisplayName),
			logger.String("zone", c.zone.Name),
			logger.String("category", string(c.category)),
			logger.Int("items", len(c.items)),
		)
	}
	return nil
}

// Items returns the checklist presented by the running session.
func (c *Controller) Items() []model.ChecklistItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.ChecklistItem, len(c.items))
	copy(out, c.items)
	return out
}

// SetScore records a score for an item. Valid scores are exactly the
// integers 0..MaxScore of that item.
func (c *Controller) SetScore(itemID string, score int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateFilling {
		return ErrNotFilling
	}
	item, ok := c.itemIndex[itemID]
	if !ok {
		return fmt.Errorf("%w: item %s", ErrUnknownItem, itemID)
	}
	if score < 0 || score > item.MaxScore {
		return fmt.Errorf("%w: %d not in 0..%d for item %s", ErrScoreOutOfRange, score, item.MaxScore, itemID)
	}
	c.scores[itemID] = score
	return nil
}

// SetNote records a free-text note for an item. Last write wins.
func (c *Controller) SetNote(itemID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateFilling {
		return ErrNotFilling
	}
	if _, ok := c.itemIndex[itemID]; !ok {
		return fmt.Errorf("%w: item %s", ErrUnknownItem, itemID)
	}
	c.notes[itemID] = text
	return nil
}

// ToggleObservation adds the tag to the item's selected set if absent and
// removes it if present. Only the item's predefined tags are accepted.
func (c *Controller) ToggleObservation(itemID, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateFilling {
		return ErrNotFilling
	}
	item, ok := c.itemIndex[itemID]
	if !ok {
		return fmt.Errorf("%w: item %s", ErrUnknownItem, itemID)
	}
	offered := false
	for _, o := range item.Observations {
		if o == tag {
			offered = true
			break
		}
	}
	if !offered {
		return fmt.Errorf("%w: %q for item %s", ErrUnknownObservation, tag, itemID)
	}

	current := c.observations[itemID]
	for i, o := range current {
		if o == tag {
			c.observations[itemID] = append(current[:i], current[i+1:]...)
			return nil
		}
	}
	c.observations[itemID] = append(current, tag)
	return nil
}

// Status derives the completion state of the checklist.
func (c *Controller) Status() Completion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completion()
}

// completion is Status without the lock, for callers already holding it.
func (c *Controller) completion() Completion {
	answered := len(c.scores)
	total := len(c.items)
	return Completion{
		Answered: answered,
		Total:    total,
		Complete: answered == total && total > 0,
	}
}

// Percentage returns the running score percentage over the presented items.
func (c *Controller) Percentage() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, s := range c.scores {
		total += s
	}
	maxPossible := 0
	for _, item := range c.items {
		maxPossible += item.MaxScore
	}
	if maxPossible == 0 {
		return 0
	}
	return float64(total) / float64(maxPossible) * 100
}

// Submit converts the session into an immutable record and appends it to
// history. Blocked with an IncompleteError while any item is unscored; the
// session state is preserved so the user can continue. Every successful call
// produces a new record with a fresh reference id.
func (c *Controller) Submit(ctx context.Context) (model.InspectionRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateFilling {
		return model.InspectionRecord{}, ErrNotFilling
	}
	status := c.completion()
	if !status.Complete {
		return model.InspectionRecord{}, &IncompleteError{Remaining: status.Total - status.Answered}
	}

	ts := c.now()
	rec := model.NewRecord(
		c.referenceID(ts),
		c.inspector.DisplayName,
		c.zone.Name,
		c.category,
		ts,
		c.items,
		c.scores,
		c.notes,
		c.observations,
	)

	if err := c.history.Append(ctx, rec); err != nil {
		return model.InspectionRecord{}, fmt.Errorf("append record: %w", err)
	}

	c.lastRecord = &rec
	c.state = StateSummary

	if c.log != nil {
		c.log.Info(ctx, "inspection submitted",
			logger.String("id", rec.ID),
			logger.String("zone", rec.ZoneName),
			logger.Float64("percentage", rec.Percentage),
		)
	}
	return rec, nil
}

// Cancel discards the in-progress checklist and returns to selection.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
}

func (c *Controller) cancel() {
	c.items = nil
	c.itemIndex = nil
	c.scores = nil
	c.notes = nil
	c.observations = nil
	c.state = StateSelecting
}

// Reset prepares the controller for another run. The inspector and category
// stay selected; the zone and all per-item state are cleared.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zone = model.Zone{}
	c.hasZone = false
	c.cancel()
}

// LastRecord returns the record produced by the most recent Submit.
func (c *Controller) LastRecord() (model.InspectionRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastRecord == nil {
		return model.InspectionRecord{}, false
	}
	return *c.lastRecord, true
}

// referenceID generates EVS-<YYYYMMDD>-<NNNN> with a uniform 4-digit suffix.
// Ids are not checked against history; collisions are possible and accepted
// for this volume.
func (c *Controller) referenceID(ts time.Time) string {
	suffix := refSuffixMin + c.rng.Intn(refSuffixSpan)
	return fmt.Sprintf("EVS-%s-%d", ts.Format("20060102"), suffix)
}
