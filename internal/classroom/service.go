package classroom

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kdbplan/kdbplan/internal/logger"
	"github.com/kdbplan/kdbplan/internal/store"
)

// LookupVersion is the persisted schema version of Lookup
const LookupVersion = 1

// Lookup is one imported code -> classroom table
type Lookup struct {
	Version   int               `json:"version" validate:"eq=1"`
	UpdatedAt time.Time         `json:"updatedAt" validate:"required"`
	Subjects  map[string]string `json:"subjects" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Service holds the current lookup and persists it under store.ClassroomsKey.
// Nothing is held until the first successful import.
type Service struct {
	mu      sync.RWMutex
	lookup  *Lookup
	backend store.Backend
	logger  logger.Logger
	now     func() time.Time
}

// NewService restores the persisted lookup, if any
func NewService(ctx context.Context, backend store.Backend, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Service{
		backend: backend,
		logger:  log.With(logger.String("key", store.ClassroomsKey)),
		now:     time.Now,
	}
	s.lookup = s.load(ctx)
	return s
}

func (s *Service) load(ctx context.Context) *Lookup {
	raw, err := s.backend.Get(ctx, store.ClassroomsKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to read classrooms", logger.Error(err))
		}
		return nil
	}

	var l Lookup
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		s.logger.Warn("discarding unreadable classrooms", logger.Error(err))
		return nil
	}
	if err := validate.Struct(&l); err != nil {
		s.logger.Warn("discarding invalid classrooms", logger.Error(err))
		return nil
	}

	s.logger.Info("classrooms loaded", logger.Int("subjects", len(l.Subjects)))
	return &l
}

// Import parses an xlsx workbook and replaces the current lookup.
// On failure the current lookup is left as it was.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Lookup, error) {
	subjects, err := Parse(r)
	if err != nil {
		s.logger.Info("classroom import rejected", logger.Error(err))
		return nil, err
	}

	l := &Lookup{
		Version:   LookupVersion,
		UpdatedAt: s.now().UTC(),
		Subjects:  subjects,
	}
	s.save(ctx, l)

	s.mu.Lock()
	s.lookup = l
	s.mu.Unlock()

	s.logger.Info("classrooms imported", logger.Int("subjects", len(subjects)))
	return l.clone(), nil
}

func (s *Service) save(ctx context.Context, l *Lookup) {
	data, err := json.Marshal(l)
	if err != nil {
		s.logger.Warn("failed to encode classrooms", logger.Error(err))
		return
	}
	if err := s.backend.Set(ctx, store.ClassroomsKey, string(data)); err != nil {
		s.logger.Warn("failed to save classrooms", logger.Error(err))
	}
}

// Get returns the classroom for code
func (s *Service) Get(code string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lookup == nil {
		return "", false
	}
	room, ok := s.lookup.Subjects[code]
	return room, ok
}

// UpdatedAt returns when the current lookup was imported
func (s *Service) UpdatedAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lookup == nil {
		return time.Time{}, false
	}
	return s.lookup.UpdatedAt, true
}

// Current returns a copy of the current lookup, or nil
func (s *Service) Current() *Lookup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lookup.clone()
}

// Clear forgets the lookup and removes it from storage
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	s.lookup = nil
	s.mu.Unlock()

	if err := s.backend.Delete(ctx, store.ClassroomsKey); err != nil {
		s.logger.Warn("failed to erase classrooms", logger.Error(err))
	}
}

func (l *Lookup) clone() *Lookup {
	if l == nil {
		return nil
	}
	subjects := make(map[string]string, len(l.Subjects))
	for k, v := range l.Subjects {
		subjects[k] = v
	}
	return &Lookup{Version: l.Version, UpdatedAt: l.UpdatedAt, Subjects: subjects}
}
