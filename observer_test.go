package signaledit

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/observers"
	"github.com/anggasct/signaledit/pkg/signal"
)

func TestObserver_BasicInterface(t *testing.T) {
	observer := NewTestObserver()

	var _ Observer = observer
	var _ ExtendedObserver = observer
	var _ ExtendedObserver = &observers.LoggingObserver{}
	var _ Observer = &observers.ValidationObserver{}
}

type actionOnlyObserver struct {
	actions int
}

func (o *actionOnlyObserver) OnAction(*core.Session, *core.Event) { o.actions++ }

func (o *actionOnlyObserver) OnCommit(*core.Session, *signal.ControlTrafficSignal, uuid.UUID) {}

func TestObserverManager_PlainObserversSkipExtended(t *testing.T) {
	om := NewObserverManager()
	plain := &actionOnlyObserver{}
	extended := NewTestObserver()
	om.AddObserver(plain)
	om.AddObserver(extended)

	session := core.NewSession(FourWayIntersection)
	om.NotifyAction(session, core.NewEvent(core.ActionAddCycle, 1))
	om.NotifyCycleSelected(session, 2)
	om.NotifyTurnToggled(session, mapmodel.TurnID{Parent: FourWayIntersection, Src: 1, Dst: 2}, signal.Banned, signal.Yield)

	assert.Equal(t, 1, plain.actions)
	assert.Equal(t, 1, extended.ActionCount())
	assert.Equal(t, []int{2}, extended.Selected)
	assert.Len(t, extended.Toggles, 1)
}

type panicOnAction struct {
	core.BaseObserver
}

func (o *panicOnAction) OnAction(*core.Session, *core.Event) {
	panic("boom")
}

func TestObserverManager_PanicReported(t *testing.T) {
	om := NewObserverManager()
	bad := &panicOnAction{}
	recorder := NewTestObserver()
	om.AddObserver(bad)
	om.AddObserver(recorder)

	session := core.NewSession(FourWayIntersection)
	assert.NotPanics(t, func() {
		om.NotifyAction(session, core.NewEvent(core.ActionQuit, 1))
	})
	assert.Equal(t, 1, recorder.ActionCount())

	om.RemoveObserver(bad)
	om.NotifyAction(session, core.NewEvent(core.ActionQuit, 2))
	assert.Equal(t, 2, recorder.ActionCount())
}

func TestObserverManager_ConcurrentRegistration(t *testing.T) {
	om := NewObserverManager()
	session := core.NewSession(FourWayIntersection)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			om.AddObserver(NewTestObserver())
		}()
		go func() {
			defer wg.Done()
			om.NotifySessionStarted(session)
		}()
	}
	wg.Wait()

	assert.Len(t, om.snapshot(), 10)
}
