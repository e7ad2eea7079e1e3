package gtd

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKV is an in-memory KV whose reads and writes can be made to fail.
type fakeKV struct {
	values  map[string]string
	getErr  error
	setErr  error
	setCall int
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}}
}

func (f *fakeKV) Get(key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeKV) Set(key, value string) error {
	f.setCall++
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	return nil
}

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// newTestStore returns a store with a stepping clock and sequential ids.
func newTestStore(t *testing.T, kv KV) *Store {
	t.Helper()
	now := testNow
	seq := 0
	s := NewStore(kv, "gtdpro",
		WithClock(func() time.Time {
			now = now.Add(time.Second)
			return now
		}),
		WithIDGenerator(func(time.Time) string {
			seq++
			return fmt.Sprintf("id%d", seq)
		}),
	)
	s.Load()
	return s
}

func TestStore_AddBlankIsNoop(t *testing.T) {
	kv := newFakeKV()
	s := newTestStore(t, kv)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, ok := s.Add(text)
		assert.False(t, ok)
	}
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, kv.setCall)
}

func TestStore_AddDefaults(t *testing.T) {
	s := newTestStore(t, newFakeKV())
	s.Add("First")

	task, ok := s.Add("  Buy milk  ")
	require.True(t, ok)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, task.ID, items[0].ID, "new task goes to the front")
	assert.Equal(t, "Buy milk", items[0].Text)
	assert.Equal(t, ListInbox, items[0].List)
	assert.Equal(t, PriorityMedium, items[0].Priority)
	assert.False(t, items[0].Done)
	assert.Nil(t, items[0].DueDate)
	assert.Empty(t, items[0].Project)
	assert.Empty(t, items[0].Description)
	assert.NotNil(t, items[0].Contexts)
	assert.Empty(t, items[0].Contexts)
	assert.NotNil(t, items[0].Tags)
	assert.Empty(t, items[0].Tags)
	assert.Equal(t, items[0].CreatedAt, items[0].UpdatedAt)
}

func TestStore_EveryMutationPersists(t *testing.T) {
	kv := newFakeKV()
	s := newTestStore(t, kv)

	task, _ := s.Add("a")
	s.ToggleDone(task.ID)
	s.Move(task.ID, ListNext)
	text := "b"
	s.Update(task.ID, Patch{Text: &text})
	s.ClearCompleted()

	assert.Equal(t, 5, kv.setCall)

	reloaded := newTestStore(t, kv)
	assert.Equal(t, s.Items(), reloaded.Items())
}

func TestStore_ToggleDoneIsInvolution(t *testing.T) {
	s := newTestStore(t, newFakeKV())
	task, _ := s.Add("a")

	require.True(t, s.ToggleDone(task.ID))
	got, _ := s.Get(task.ID)
	assert.True(t, got.Done)

	require.True(t, s.ToggleDone(task.ID))
	got, _ = s.Get(task.ID)
	assert.False(t, got.Done)
}

func TestStore_ClearCompleted(t *testing.T) {
	s := newTestStore(t, newFakeKV())
	a, _ := s.Add("a")
	b, _ := s.Add("b")
	c, _ := s.Add("c")
	s.ToggleDone(a.ID)
	s.ToggleDone(c.ID)

	assert.Equal(t, 2, s.ClearCompleted())

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, 0, s.ClearCompleted())
}

func TestStore_UnknownIDIsNoop(t *testing.T) {
	kv := newFakeKV()
	s := newTestStore(t, kv)
	s.Add("a")
	before := s.Items()
	calls := kv.setCall

	text := "x"
	assert.False(t, s.ToggleDone("missing"))
	assert.False(t, s.Move("missing", ListNext))
	assert.False(t, s.Remove("missing"))
	assert.False(t, s.Update("missing", Patch{Text: &text}))

	assert.Equal(t, before, s.Items())
	assert.Equal(t, calls, kv.setCall)
}

func TestStore_MoveRejectsUnknownList(t *testing.T) {
	s := newTestStore(t, newFakeKV())
	task, _ := s.Add("a")

	assert.False(t, s.Move(task.ID, List("archive")))
	got, _ := s.Get(task.ID)
	assert.Equal(t, ListInbox, got.List)

	assert.True(t, s.Move(task.ID, ListSomeday))
	got, _ = s.Get(task.ID)
	assert.Equal(t, ListSomeday, got.List)
}

func TestStore_Remove(t *testing.T) {
	s := newTestStore(t, newFakeKV())
	a, _ := s.Add("a")
	b, _ := s.Add("b")

	assert.True(t, s.Remove(a.ID))
	_, ok := s.Get(a.ID)
	assert.False(t, ok)
	_, ok = s.Get(b.ID)
	assert.True(t, ok)
}

func TestStore_Update(t *testing.T) {
	s := newTestStore(t, newFakeKV())
	task, _ := s.Add("a")

	due := NewDate(2026, 3, 12)
	text := "  renamed  "
	desc := "notes"
	prio := PriorityHigh
	project := " Launch "
	require.True(t, s.Update(task.ID, Patch{
		Text:        &text,
		Description: &desc,
		Priority:    &prio,
		DueDate:     &due,
		Project:     &project,
		Contexts:    []Context{ContextWork, ContextWork, Context("gym"), ContextPhone},
		Tags:        []string{" a ", "", "b"},
	}))

	got, _ := s.Get(task.ID)
	assert.Equal(t, "renamed", got.Text)
	assert.Equal(t, "notes", got.Description)
	assert.Equal(t, PriorityHigh, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-03-12", got.DueDate.String())
	assert.Equal(t, "Launch", got.Project)
	assert.Equal(t, []Context{ContextWork, ContextPhone}, got.Contexts)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	assert.Greater(t, got.UpdatedAt, got.CreatedAt)
}

func TestStore_UpdateKeepsUnsetFields(t *testing.T) {
	s := newTestStore(t, newFakeKV())
	task, _ := s.Add("keep me")
	due := NewDate(2026, 3, 12)
	s.Update(task.ID, Patch{DueDate: &due, Contexts: []Context{ContextHome}, Tags: []string{"x"}})

	blank := "   "
	require.True(t, s.Update(task.ID, Patch{Text: &blank}))

	got, _ := s.Get(task.ID)
	assert.Equal(t, "keep me", got.Text, "blank text is ignored")
	require.NotNil(t, got.DueDate)
	assert.Equal(t, []Context{ContextHome}, got.Contexts)
	assert.Equal(t, []string{"x"}, got.Tags)
}

func TestStore_UpdateClears(t *testing.T) {
	s := newTestStore(t, newFakeKV())
	task, _ := s.Add("a")
	due := NewDate(2026, 3, 12)
	s.Update(task.ID, Patch{DueDate: &due, Contexts: []Context{ContextHome}, Tags: []string{"x"}})

	require.True(t, s.Update(task.ID, Patch{ClearDueDate: true, Contexts: []Context{}, Tags: []string{}}))

	got, _ := s.Get(task.ID)
	assert.Nil(t, got.DueDate)
	assert.Empty(t, got.Contexts)
	assert.Empty(t, got.Tags)
}

func TestStore_ItemsReturnsCopy(t *testing.T) {
	s := newTestStore(t, newFakeKV())
	task, _ := s.Add("a")
	s.Update(task.ID, Patch{Tags: []string{"x"}})

	items := s.Items()
	items[0].Text = "changed"
	items[0].Tags[0] = "changed"

	got, _ := s.Get(task.ID)
	assert.Equal(t, "a", got.Text)
	assert.Equal(t, []string{"x"}, got.Tags)
}

func TestStore_LoadMissingOrBroken(t *testing.T) {
	tests := []struct {
		name string
		kv   func() *fakeKV
	}{
		{"missing", newFakeKV},
		{"malformed", func() *fakeKV {
			kv := newFakeKV()
			kv.values[ItemsKey("gtdpro")] = "{not json"
			return kv
		}},
		{"null", func() *fakeKV {
			kv := newFakeKV()
			kv.values[ItemsKey("gtdpro")] = "null"
			return kv
		}},
		{"backend error", func() *fakeKV {
			kv := newFakeKV()
			kv.getErr = errors.New("disk on fire")
			return kv
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, tt.kv())
			assert.NotNil(t, s.Items())
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestStore_LoadFillsMissingFields(t *testing.T) {
	kv := newFakeKV()
	kv.values[ItemsKey("gtdpro")] = `[{"id":"a","text":"old","createdAt":1,"updatedAt":1}]`

	s := newTestStore(t, kv)

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, ListInbox, got.List)
	assert.Equal(t, PriorityMedium, got.Priority)
	assert.NotNil(t, got.Contexts)
	assert.NotNil(t, got.Tags)
}

func TestStore_PersistFailureKeepsMemory(t *testing.T) {
	kv := newFakeKV()
	kv.setErr = errors.New("quota exceeded")
	s := newTestStore(t, kv)

	task, ok := s.Add("a")
	require.True(t, ok)
	assert.True(t, s.ToggleDone(task.ID))

	got, found := s.Get(task.ID)
	require.True(t, found)
	assert.True(t, got.Done)
	assert.Empty(t, kv.values)
}

func TestStore_RoundTrip(t *testing.T) {
	kv := newFakeKV()
	s := newTestStore(t, kv)
	a, _ := s.Add("plain")
	b, _ := s.Add("full")
	due := NewDate(2026, 4, 1)
	prio := PriorityLow
	project := "Home"
	s.Update(b.ID, Patch{DueDate: &due, Priority: &prio, Project: &project, Contexts: []Context{ContextHome}, Tags: []string{"diy"}})

	raw := kv.values[ItemsKey("gtdpro")]
	var blob []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &blob))
	require.Len(t, blob, 2)
	assert.Nil(t, blob[1]["dueDate"], "missing due date is stored as null")
	assert.Equal(t, []any{}, blob[1]["contexts"])
	assert.Equal(t, []any{}, blob[1]["tags"])
	assert.Equal(t, "2026-04-01", blob[0]["dueDate"])

	reloaded := newTestStore(t, kv)
	assert.Equal(t, s.Items(), reloaded.Items())
	got, _ := reloaded.Get(a.ID)
	assert.Equal(t, "plain", got.Text)
}

func TestStore_LoadDropsInvalidDueDate(t *testing.T) {
	kv := newFakeKV()
	kv.values[ItemsKey("gtdpro")] = `[
		{"id":"a","text":"bad date","dueDate":"next friday","contexts":[],"tags":[],"createdAt":2,"updatedAt":2},
		{"id":"b","text":"numeric date","dueDate":20260301,"contexts":[],"tags":[],"createdAt":1,"updatedAt":1},
		{"id":"c","text":"good date","dueDate":"2026-03-12","contexts":[],"tags":[],"createdAt":0,"updatedAt":0}
	]`

	s := newTestStore(t, kv)

	require.Equal(t, 3, s.Len(), "one bad field does not empty the collection")
	a, _ := s.Get("a")
	assert.Nil(t, a.DueDate)
	assert.Equal(t, "bad date", a.Text)
	b, _ := s.Get("b")
	assert.Nil(t, b.DueDate)
	c, _ := s.Get("c")
	require.NotNil(t, c.DueDate)
	assert.Equal(t, "2026-03-12", c.DueDate.String())

	s.ToggleDone("a")
	reloaded := newTestStore(t, kv)
	assert.Equal(t, 3, reloaded.Len())
}
