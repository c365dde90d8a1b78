package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kdbplan/kdbplan/internal/domain"
	"github.com/kdbplan/kdbplan/internal/logger"
)

// Format identifies which shape the raw persisted text had.
type Format int

const (
	// FormatEmpty means nothing was stored.
	FormatEmpty Format = iota
	// FormatCurrent is a JSON document at the current schema version.
	FormatCurrent
	// FormatLegacy is the URL-encoded comma separated code list that predates documents.
	FormatLegacy
	// FormatCorrupt is anything else, including documents at another version.
	FormatCorrupt
)

func (f Format) String() string {
	switch f {
	case FormatEmpty:
		return "empty"
	case FormatCurrent:
		return "current"
	case FormatLegacy:
		return "legacy"
	case FormatCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Stored is the decoded, not yet resolved, content of the bookmarks key.
// Exactly one of Document (FormatCurrent) or Codes (FormatLegacy) is set;
// Err explains a FormatCorrupt result.
type Stored struct {
	Format   Format
	Document *domain.Document
	Codes    []string
	Err      error
}

// storedEntry and storedDocument mirror the persisted JSON with pointers so
// that absent fields can be told apart from zero values.
type storedEntry struct {
	Year  *int      `json:"year" validate:"required"`
	TA    *bool     `json:"ta" validate:"required"`
	Memos []*string `json:"memos" validate:"required"`
}

type storedDocument struct {
	Version           *int                    `json:"version" validate:"required,docversion"`
	Entries           map[string]*storedEntry `json:"entries" validate:"required,dive,keys,required,endkeys,required"`
	MemoColumnHeaders []*string               `json:"memoColumnHeaders" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Only the compiled-in version is accepted; older documents are discarded, not migrated.
	_ = v.RegisterValidation("docversion", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() == domain.CurrentDocumentVersion
	})
	return v
}

// Decode classifies raw storage content. It never panics.
func Decode(raw string, present bool) (out Stored) {
	defer func() {
		if r := recover(); r != nil {
			out = Stored{Format: FormatCorrupt, Err: fmt.Errorf("panic while decoding: %v", r)}
		}
	}()

	if !present {
		return Stored{Format: FormatEmpty}
	}

	if json.Valid([]byte(raw)) {
		return decodeDocument(raw)
	}

	// Older front-ends wrote the document through encodeURIComponent.
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return Stored{Format: FormatCorrupt, Err: fmt.Errorf("invalid escape sequence: %w", err)}
	}
	if !utf8.ValidString(unescaped) {
		return Stored{Format: FormatCorrupt, Err: errors.New("invalid utf-8 after unescaping")}
	}
	if json.Valid([]byte(unescaped)) {
		return decodeDocument(unescaped)
	}

	codes := make([]string, 0)
	for _, token := range strings.Split(unescaped, ",") {
		if token == "" {
			continue
		}
		codes = append(codes, token)
	}
	return Stored{Format: FormatLegacy, Codes: codes}
}

func decodeDocument(text string) Stored {
	var sd storedDocument
	if err := json.Unmarshal([]byte(text), &sd); err != nil {
		return Stored{Format: FormatCorrupt, Err: fmt.Errorf("failed to unmarshal document: %w", err)}
	}
	if err := validate.Struct(&sd); err != nil {
		return Stored{Format: FormatCorrupt, Err: fmt.Errorf("invalid document: %w", err)}
	}
	for code, entry := range sd.Entries {
		if err := validate.Struct(entry); err != nil {
			return Stored{Format: FormatCorrupt, Err: fmt.Errorf("invalid entry %q: %w", code, err)}
		}
	}

	doc := &domain.Document{
		Version:           *sd.Version,
		Entries:           make(map[string]domain.Entry, len(sd.Entries)),
		MemoColumnHeaders: derefAll(sd.MemoColumnHeaders),
	}
	for code, entry := range sd.Entries {
		doc.Entries[code] = domain.Entry{
			Year:  *entry.Year,
			TA:    *entry.TA,
			Memos: derefAll(entry.Memos),
		}
	}
	return Stored{Format: FormatCurrent, Document: doc}
}

// derefAll maps null elements to "".
func derefAll(in []*string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		if s != nil {
			out[i] = *s
		}
	}
	return out
}

// Resolve turns a decoded value into the document the engine starts from.
// Legacy codes become default entries for currentYear; empty and corrupt
// content resolve to a fresh document.
func Resolve(s Stored, currentYear int) *domain.Document {
	switch s.Format {
	case FormatCurrent:
		if s.Document != nil {
			return s.Document
		}
	case FormatLegacy:
		doc := domain.NewDocument()
		for _, code := range s.Codes {
			doc.Entries[code] = domain.NewEntry(currentYear)
		}
		return doc
	}
	return domain.NewDocument()
}

// Encode serializes doc as plain JSON. Nil collections are written as
// empty ones so the output always passes Decode.
func Encode(doc *domain.Document) (string, error) {
	if doc == nil {
		return "", errors.New("nil document")
	}

	out := domain.Document{
		Version:           doc.Version,
		Entries:           make(map[string]domain.Entry, len(doc.Entries)),
		MemoColumnHeaders: doc.MemoColumnHeaders,
	}
	if out.MemoColumnHeaders == nil {
		out.MemoColumnHeaders = []string{}
	}
	for code, entry := range doc.Entries {
		if entry.Memos == nil {
			entry.Memos = []string{}
		}
		out.Entries[code] = entry
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}
	return string(data), nil
}

// Codec loads and saves the bookmark document through a Backend.
// Persistence is best effort: failures are logged and swallowed.
type Codec struct {
	backend     Backend
	key         string
	logger      logger.Logger
	currentYear func() int
}

// NewCodec creates a codec writing under BookmarksKey. currentYear supplies
// the plan year given to entries migrated from the legacy format.
func NewCodec(backend Backend, log logger.Logger, currentYear func() int) *Codec {
	if log == nil {
		log = logger.NewNop()
	}
	return &Codec{
		backend:     backend,
		key:         BookmarksKey,
		logger:      log.With(logger.String("key", BookmarksKey)),
		currentYear: currentYear,
	}
}

// Load never fails. Anything unreadable yields an empty document.
func (c *Codec) Load(ctx context.Context) *domain.Document {
	raw, err := c.backend.Get(ctx, c.key)
	present := true
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("failed to read bookmarks, starting empty", logger.Error(err))
		}
		present = false
	}

	stored := Decode(raw, present)
	switch stored.Format {
	case FormatCorrupt:
		c.logger.Warn("discarding unreadable bookmarks", logger.Error(stored.Err))
	case FormatLegacy:
		c.logger.Info("migrating legacy bookmark list", logger.Int("codes", len(stored.Codes)))
	default:
		c.logger.Debug("bookmarks loaded", logger.String("format", stored.Format.String()))
	}

	year := 0
	if c.currentYear != nil {
		year = c.currentYear()
	}
	return Resolve(stored, year)
}

// Save overwrites the stored document.
func (c *Codec) Save(ctx context.Context, doc *domain.Document) {
	data, err := Encode(doc)
	if err != nil {
		c.logger.Warn("failed to encode bookmarks", logger.Error(err))
		return
	}
	if err := c.backend.Set(ctx, c.key, data); err != nil {
		c.logger.Warn("failed to save bookmarks", logger.Error(err))
	}
}

// Erase removes the stored document.
func (c *Codec) Erase(ctx context.Context) {
	if err := c.backend.Delete(ctx, c.key); err != nil {
		c.logger.Warn("failed to erase bookmarks", logger.Error(err))
	}
}
