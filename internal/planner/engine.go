package planner

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kdbplan/kdbplan/internal/catalog"
	"github.com/kdbplan/kdbplan/internal/domain"
	"github.com/kdbplan/kdbplan/internal/logger"
)

// ClearPrompt is the question put to the Confirmer before Clear erases anything.
const ClearPrompt = "All bookmarked courses will be removed. Continue?"

// persistTimeout bounds a single save or erase. Persistence is detached
// from the caller's cancellation: a published mutation is always written.
const persistTimeout = 5 * time.Second

// Catalog supplies the current catalog snapshot.
type Catalog interface {
	Snapshot() *catalog.Snapshot
}

// DocumentStore persists the bookmark document. Implementations never
// report failures; persistence is best effort.
type DocumentStore interface {
	Load(ctx context.Context) *domain.Document
	Save(ctx context.Context, doc *domain.Document)
	Erase(ctx context.Context)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// EntryPatch carries the fields of an update. Nil fields are left untouched.
type EntryPatch struct {
	Year  *int     `json:"year,omitempty"`
	TA    *bool    `json:"ta,omitempty"`
	Memos []string `json:"memos,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p EntryPatch) Empty() bool {
	return p.Year == nil && p.TA == nil && p.Memos == nil
}

// ToggleResult reports the outcome of ToggleBookmark.
type ToggleResult struct {
	Document *domain.Document `json:"-"`
	// Changed is false when the code was unknown and nothing happened.
	Changed bool `json:"changed"`
	// Added is true when an entry was created, false when one was removed.
	Added bool `json:"added"`
	// SuggestedTermCode asks the caller to focus its timetable on this term
	// so the new bookmark is visible. Set only when an entry was added.
	SuggestedTermCode *int `json:"suggestedTermCode,omitempty"`
}

// Engine owns the bookmark document and the views derived from it.
//
// Mutations are serialized and each one publishes a fresh document; the
// published value is never edited in place. Views are cached per
// (document, catalog snapshot[, term]) and rebuilt when either changes.
type Engine struct {
	writeMu sync.Mutex // serializes mutations

	mu  sync.RWMutex // guards doc
	doc *domain.Document

	catalog Catalog
	store   DocumentStore
	logger  logger.Logger

	viewMu sync.Mutex
	plan   *planCache
	term   *termCache // most recent term only
}

type planCache struct {
	doc  *domain.Document
	snap *catalog.Snapshot
	view *PlanView
}

type termCache struct {
	doc  *domain.Document
	snap *catalog.Snapshot
	term int
	view *TermView
}

// New loads the persisted document and returns a ready engine.
func New(ctx context.Context, cat Catalog, store DocumentStore, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}

	doc := store.Load(ctx)
	if doc == nil {
		doc = domain.NewDocument()
	}

	log.Info("bookmarks loaded",
		logger.Int("entries", len(doc.Entries)),
		logger.Int("memo_columns", doc.MemoColumnCount()))

	return &Engine{
		doc:     doc,
		catalog: cat,
		store:   store,
		logger:  log,
	}
}

// Document returns the current document. Callers must treat it as read-only.
func (e *Engine) Document() *domain.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.doc
}

// HasBookmark reports whether code is bookmarked
func (e *Engine) HasBookmark(code string) bool {
	return e.Document().Has(code)
}

// GetBookmark returns a copy of the entry for code
func (e *Engine) GetBookmark(code string) (domain.Entry, bool) {
	entry, ok := e.Document().Entries[code]
	if !ok {
		return domain.Entry{}, false
	}
	memos := make([]string, len(entry.Memos))
	copy(memos, entry.Memos)
	entry.Memos = memos
	return entry, true
}

// ToggleBookmark removes code if bookmarked, otherwise adds it with default
// values. Codes missing from the catalog cannot be added.
func (e *Engine) ToggleBookmark(ctx context.Context, code string) ToggleResult {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	current := e.Document()
	snap := e.catalog.Snapshot()

	if current.Has(code) {
		next := current.Clone()
		delete(next.Entries, code)
		e.commit(ctx, next)
		e.logger.Debug("bookmark removed", logger.String("code", code))
		return ToggleResult{Document: next, Changed: true}
	}

	course, ok := snap.Course(code)
	if !ok {
		e.logger.Debug("toggle ignored for unknown course", logger.String("code", code))
		return ToggleResult{Document: current}
	}

	next := current.Clone()
	next.Entries[code] = domain.NewEntry(snap.CurrentYear())
	e.commit(ctx, next)

	res := ToggleResult{Document: next, Changed: true, Added: true}
	if term, ok := course.FirstTermCode(); ok {
		res.SuggestedTermCode = &term
	}
	e.logger.Debug("bookmark added", logger.String("code", code))
	return res
}

// UpdateBookmark applies patch to the entry for code. It reports false and
// changes nothing when the code is not bookmarked or the patch is empty.
func (e *Engine) UpdateBookmark(ctx context.Context, code string, patch EntryPatch) bool {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	current := e.Document()
	if !current.Has(code) || patch.Empty() {
		return false
	}

	next := current.Clone()
	entry := next.Entries[code]
	if patch.Year != nil {
		entry.Year = *patch.Year
	}
	if patch.TA != nil {
		entry.TA = *patch.TA
	}
	if patch.Memos != nil {
		entry.Memos = make([]string, len(patch.Memos))
		copy(entry.Memos, patch.Memos)
	}
	next.Entries[code] = entry

	e.commit(ctx, next)
	return true
}

// UpdateMemoHeaders replaces the memo column headers, and with them the
// number of memo columns.
func (e *Engine) UpdateMemoHeaders(ctx context.Context, headers []string) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	next := e.Document().Clone()
	next.MemoColumnHeaders = make([]string, len(headers))
	copy(next.MemoColumnHeaders, headers)

	e.commit(ctx, next)
}

// Clear removes every bookmark after c approves ClearPrompt. Memo headers
// survive. A nil or declining Confirmer leaves everything untouched.
func (e *Engine) Clear(ctx context.Context, c Confirmer) bool {
	if c == nil || !c.Confirm(ClearPrompt) {
		return false
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	current := e.Document()
	next := domain.NewDocument()
	next.MemoColumnHeaders = append(next.MemoColumnHeaders, current.MemoColumnHeaders...)

	pctx, cancel := persistContext(ctx)
	defer cancel()
	e.store.Erase(pctx)
	if len(next.MemoColumnHeaders) > 0 {
		e.store.Save(pctx, next)
	}
	e.publish(next)

	e.logger.Info("bookmarks cleared", logger.Int("removed", len(current.Entries)))
	return true
}

// ExportReferences returns the bookmarked codes in ascending order.
func (e *Engine) ExportReferences() []string {
	return e.Document().Codes()
}

// ExportURL appends the bookmarked codes, comma separated, to base.
func (e *Engine) ExportURL(base string) string {
	codes := e.ExportReferences()
	for i, code := range codes {
		codes[i] = url.QueryEscape(code)
	}
	return base + strings.Join(codes, ",")
}

// UnresolvedBookmarks lists bookmarked codes missing from the current catalog.
func (e *Engine) UnresolvedBookmarks() []string {
	unresolved := e.Plan().Unresolved
	out := make([]string, len(unresolved))
	copy(out, unresolved)
	return out
}

// Plan returns the plan rollup. The same pointer is returned until the
// document or the catalog changes; callers must not modify it.
func (e *Engine) Plan() *PlanView {
	doc := e.Document()
	snap := e.catalog.Snapshot()

	e.viewMu.Lock()
	defer e.viewMu.Unlock()

	if c := e.plan; c != nil && c.doc == doc && c.snap == snap {
		return c.view
	}

	view := BuildPlan(doc, snap)
	e.plan = &planCache{doc: doc, snap: snap, view: view}
	e.logger.Debug("plan view rebuilt",
		logger.Float64("total_credits", view.TotalCredits),
		logger.Int("unresolved", len(view.Unresolved)))
	return view
}

// Timetable returns the timetable for term, cached like Plan. Only the
// most recently requested term is kept.
func (e *Engine) Timetable(term int) *TermView {
	doc := e.Document()
	snap := e.catalog.Snapshot()

	e.viewMu.Lock()
	defer e.viewMu.Unlock()

	if c := e.term; c != nil && c.doc == doc && c.snap == snap && c.term == term {
		return c.view
	}

	view := BuildTermView(doc, snap, term)
	e.term = &termCache{doc: doc, snap: snap, term: term, view: view}
	return view
}

// commit persists next, then publishes it.
func (e *Engine) commit(ctx context.Context, next *domain.Document) {
	pctx, cancel := persistContext(ctx)
	defer cancel()
	e.store.Save(pctx, next)
	e.publish(next)
}

// persistContext keeps ctx's values but not its cancellation or deadline.
func persistContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
}

func (e *Engine) publish(next *domain.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.doc = next
}
