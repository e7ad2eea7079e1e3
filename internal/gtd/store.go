package gtd

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"
)

// KV is the persistent slot the collection is mirrored to. Get reports
// ok=false for a missing key.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// ItemsKey and ThemeKey name the two slots used by an app.
func ItemsKey(app string) string { return app + "-items" }
func ThemeKey(app string) string { return app + "-theme" }

// Store owns the ordered task collection. Every mutation is followed by a
// synchronous Persist. Operations on unknown ids are no-ops; none of them
// return errors.
type Store struct {
	kv    KV
	key   string
	items []Task
	now   func() time.Time
	newID IDGenerator
	log   *slog.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore returns an empty store bound to the "<app>-items" slot of kv.
// Call Load to read the persisted collection.
func NewStore(kv KV, app string, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		key:   ItemsKey(app),
		items: []Task{},
		now:   time.Now,
		newID: NewID,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. A missing
// or unreadable blob yields an empty collection.
func (s *Store) Load() {
	s.items = s.read()
}

func (s *Store) read() []Task {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.log.Warn("load items failed", "key", s.key, "err", err)
		return []Task{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Task{}
	}
	var items []Task
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn("load items failed", "key", s.key, "err", err)
		return []Task{}
	}
	if items == nil {
		return []Task{}
	}
	for i := range items {
		if items[i].badDue != "" {
			s.log.Warn("dropped invalid due date", "key", s.key, "id", items[i].ID, "dueDate", items[i].badDue)
			items[i].badDue = ""
		}
		items[i].normalize()
	}
	return items
}

// Persist writes the whole collection. Failures are logged and otherwise
// ignored; memory stays authoritative until the next successful write.
func (s *Store) Persist() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.log.Error("encode items failed", "err", err)
		return
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		s.log.Error("save items failed", "key", s.key, "err", err)
	}
}

// Items returns a copy of the collection in store order.
func (s *Store) Items() []Task {
	out := make([]Task, len(s.items))
	for i, t := range s.items {
		out[i] = t.clone()
	}
	return out
}

func (s *Store) Len() int { return len(s.items) }

func (s *Store) Get(id string) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.items[i].clone(), true
}

func (s *Store) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Add inserts a new inbox task at the front. Blank text is ignored.
func (s *Store) Add(text string) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}
	now := s.now()
	t := NewTask(s.newID(now), text, now)
	s.items = append([]Task{t}, s.items...)
	s.Persist()
	s.log.Debug("task added", "id", t.ID)
	return t.clone(), true
}

// Patch carries a partial update. Nil fields are left untouched; for
// Contexts and Tags pass an empty non-nil slice to clear them.
type Patch struct {
	Text         *string
	Description  *string
	List         *List
	Done         *bool
	Priority     *Priority
	DueDate      *Date
	ClearDueDate bool
	Project      *string
	Contexts     []Context
	Tags         []string
}

// Update merges p into the task and stamps UpdatedAt.
func (s *Store) Update(id string, p Patch) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	t := &s.items[i]
	if p.Text != nil {
		if text := strings.TrimSpace(*p.Text); text != "" {
			t.Text = text
		}
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.List != nil && p.List.Valid() {
		t.List = *p.List
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
	if p.Priority != nil && p.Priority.Valid() {
		t.Priority = *p.Priority
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.Project != nil {
		t.Project = strings.TrimSpace(*p.Project)
	}
	if p.Contexts != nil {
		t.Contexts = dedupeContexts(p.Contexts)
	}
	if p.Tags != nil {
		tags := make([]string, 0, len(p.Tags))
		for _, tag := range p.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		t.Tags = tags
	}
	t.UpdatedAt = s.now().UnixMilli()
	s.Persist()
	return true
}

func (s *Store) ToggleDone(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items[i].Done = !s.items[i].Done
	s.Persist()
	return true
}

// Move reassigns the task's list. Unknown lists are ignored.
func (s *Store) Move(id string, target List) bool {
	i := s.index(id)
	if i < 0 || !target.Valid() {
		return false
	}
	s.items[i].List = target
	s.Persist()
	return true
}

func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.Persist()
	return true
}

// ClearCompleted drops every done task and returns how many were removed.
func (s *Store) ClearCompleted() int {
	kept := make([]Task, 0, len(s.items))
	for _, t := range s.items {
		if !t.Done {
			kept = append(kept, t)
		}
	}
	removed := len(s.items) - len(kept)
	s.items = kept
	s.Persist()
	return removed
}
