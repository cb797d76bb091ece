package overlay

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

type staticBase map[mapmodel.IntersectionID]*signal.ControlTrafficSignal

func (b staticBase) TrafficSignal(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, bool) {
	plan, ok := b[id]
	return plan, ok
}

type recorder struct {
	mu     sync.Mutex
	events []AppliedEvent
}

func (r *recorder) OnApplied(event AppliedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func plan(id mapmodel.IntersectionID, seconds ...uint64) *signal.ControlTrafficSignal {
	p := signal.NewControlTrafficSignal(id)
	for _, s := range seconds {
		c := signal.NewCycle(id, 0)
		_ = c.SetSeconds(s)
		c.EditTurn(mapmodel.TurnID{Parent: id, Src: 1, Dst: 2}, signal.Priority)
		p.Cycles = append(p.Cycles, c)
	}
	return p
}

func TestDescribe(t *testing.T) {
	edits := NewMapEdits("montlake")
	assert.Equal(t, `map edits "no_edits" (0 lanes, 0 stop signs, 0 traffic signals)`, edits.Describe())

	edits.EditsName = "bike lanes"
	edits.LaneOverrides[3] = mapmodel.Biking
	edits.LaneOverrides[4] = mapmodel.Biking
	edits.TrafficSignalOverrides[1] = plan(1, 30)
	assert.Equal(t, `map edits "bike lanes" (2 lanes, 0 stop signs, 1 traffic signals)`, edits.Describe())
}

func TestOverlayPrefersOverrides(t *testing.T) {
	o := New(staticBase{1: plan(1, 30), 2: plan(2, 10)}, nil)

	got, ok := o.TrafficSignal(1)
	require.True(t, ok)
	assert.Equal(t, 1, got.Len())

	o.Commit(plan(1, 20, 20))
	got, ok = o.TrafficSignal(1)
	require.True(t, ok)
	assert.Equal(t, 2, got.Len())

	_, ok = o.TrafficSignal(3)
	assert.False(t, ok)
}

func TestCommitStoresCopy(t *testing.T) {
	o := New(nil, NewMapEdits("m"))
	p := plan(1, 30)
	o.Commit(p)

	require.NoError(t, p.Cycles[0].SetSeconds(99))
	got, _ := o.TrafficSignal(1)
	assert.Equal(t, uint64(30), got.Cycles[0].Seconds())

	require.NoError(t, got.Cycles[0].SetSeconds(1))
	again, _ := o.TrafficSignal(1)
	assert.Equal(t, uint64(30), again.Cycles[0].Seconds())
}

func TestCommitIsIdempotent(t *testing.T) {
	o := New(nil, NewMapEdits("m"))
	p := plan(1, 30, 15)

	o.Commit(p)
	once, err := yaml.Marshal(o.Edits())
	require.NoError(t, err)

	o.Commit(p)
	twice, err := yaml.Marshal(o.Edits())
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
}

func TestCommitNotifiesObservers(t *testing.T) {
	rec := &recorder{}
	o := New(nil, NewMapEdits("m"), WithObserver(rec))

	first := o.Commit(plan(1, 30))
	second := o.Commit(plan(1, 30))

	require.Equal(t, 2, rec.count())
	assert.NotEqual(t, first, second)
	assert.Equal(t, second, o.Revision())
	assert.Equal(t, mapmodel.IntersectionID(1), rec.events[1].Intersection)
	assert.Equal(t, NoEditsName, rec.events[1].EditsName)

	o.RemoveObserver(rec)
	o.Commit(plan(1, 30))
	assert.Equal(t, 2, rec.count())
}

func TestObserverPanicIsContained(t *testing.T) {
	rec := &recorder{}
	o := New(nil, nil)
	o.AddObserver(ObserverFunc(func(AppliedEvent) { panic("boom") }))
	o.AddObserver(rec)

	assert.NotPanics(t, func() { o.Commit(plan(1, 30)) })
	assert.Equal(t, 1, rec.count())
}

func TestReplaceEditsAppliesTouchedIntersections(t *testing.T) {
	rec := &recorder{}
	o := New(staticBase{1: plan(1, 30)}, nil, WithObserver(rec))
	o.Commit(plan(1, 5))

	next := NewMapEdits("m")
	next.TrafficSignalOverrides[2] = plan(2, 40)
	o.ReplaceEdits(next)

	require.Equal(t, 3, rec.count())
	assert.Equal(t, mapmodel.IntersectionID(1), rec.events[1].Intersection)
	assert.Equal(t, uint64(30), rec.events[1].Plan.Cycles[0].Seconds(), "falls back to the base plan")
	assert.Equal(t, mapmodel.IntersectionID(2), rec.events[2].Intersection)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	edits := NewMapEdits("four_way")

	_, err := edits.Save(dir)
	assert.ErrorIs(t, err, ErrNoEdits)

	edits.EditsName = "retimed"
	edits.LaneOverrides[101] = mapmodel.Bus
	edits.StopSignOverrides[2] = mapmodel.ControlStopSign{
		ID:    2,
		Turns: map[mapmodel.TurnID]mapmodel.TurnPriority{{Parent: 2, Src: 1, Dst: 2}: mapmodel.Stop},
	}
	edits.TrafficSignalOverrides[1] = plan(1, 30, 12)

	path, err := edits.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "four_way", "retimed.yaml"), path)

	loaded, err := LoadNamed(dir, "four_way", "retimed")
	require.NoError(t, err)
	assert.Equal(t, edits.Describe(), loaded.Describe())
	assert.Equal(t, mapmodel.Bus, loaded.LaneOverrides[101])
	assert.Equal(t, edits.StopSignOverrides, loaded.StopSignOverrides)
	assert.True(t, edits.TrafficSignalOverrides[1].Equal(loaded.TrafficSignalOverrides[1]))
}

func TestLoadRejectsMismatchedSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := `
map_name: m
edits_name: bad
traffic_signal_overrides:
  1:
    intersection: 2
    cycles:
      - duration_s: 10
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestListEditSets(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b", "a"} {
		edits := NewMapEdits("four_way")
		edits.EditsName = name
		_, err := edits.Save(dir)
		require.NoError(t, err)
	}
	other := NewMapEdits("downtown")
	other.EditsName = "night"
	_, err := other.Save(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.yaml"), []byte("x: 1"), 0644))

	refs, err := ListEditSets(dir, "")
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, EditSetRef{MapName: "downtown", EditsName: "night", Path: filepath.Join(dir, "downtown", "night.yaml")}, refs[0])
	assert.Equal(t, "a", refs[1].EditsName)
	assert.Equal(t, "b", refs[2].EditsName)

	refs, err = ListEditSets(dir, "four_way/*.yaml")
	require.NoError(t, err)
	assert.Len(t, refs, 2)

	_, err = ListEditSets(dir, "[")
	assert.Error(t, err)
}

type fakePublisher struct {
	subject string
	data    []byte
	err     error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = data
	return f.err
}

func TestNATSPublisher(t *testing.T) {
	pub := &fakePublisher{}
	o := New(nil, NewMapEdits("m"), WithObserver(NewNATSPublisher(pub, "", nil)))

	revision := o.Commit(plan(7, 25))

	assert.Equal(t, "signaledit.plan.7", pub.subject)
	var msg PlanMessage
	require.NoError(t, json.Unmarshal(pub.data, &msg))
	assert.Equal(t, revision.String(), msg.Revision)
	assert.Equal(t, 7, msg.Intersection)
	require.NotNil(t, msg.Plan)
	assert.True(t, plan(7, 25).Equal(msg.Plan))
}

func TestNATSPublisherSwallowsPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("no responders")}
	p := NewNATSPublisher(pub, "sim", nil)
	assert.NotPanics(t, func() {
		p.OnApplied(AppliedEvent{Intersection: 3, Plan: plan(3, 10)})
	})
	assert.Equal(t, "sim.3", pub.subject)
}

func TestWatcherReloadsEdits(t *testing.T) {
	dir := t.TempDir()
	edits := NewMapEdits("four_way")
	edits.EditsName = "live"
	path, err := edits.Save(dir)
	require.NoError(t, err)

	rec := &recorder{}
	o := New(nil, edits, WithObserver(rec))
	w, err := NewWatcher(path, o, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	edits.TrafficSignalOverrides[4] = plan(4, 45)
	_, err = edits.Save(dir)
	require.NoError(t, err)

	select {
	case ev := <-w.Events():
		require.NoError(t, ev.Err)
		assert.Len(t, ev.Edits.TrafficSignalOverrides, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	got, ok := o.TrafficSignal(4)
	require.True(t, ok)
	assert.Equal(t, uint64(45), got.Cycles[0].Seconds())
	assert.GreaterOrEqual(t, rec.count(), 1)
}
