package contactform

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/temirov/complymint/internal/dispatch"
	"github.com/temirov/complymint/internal/mailintent"
	"github.com/temirov/complymint/internal/notify"
)

type manualTimer struct {
	scheduler *manualScheduler
	delay     time.Duration
	callback  func()
	stopped   bool
	fired     bool
}

func (timer *manualTimer) Stop() bool {
	timer.scheduler.mutex.Lock()
	defer timer.scheduler.mutex.Unlock()
	wasPending := !timer.stopped && !timer.fired
	timer.stopped = true
	return wasPending
}

type manualScheduler struct {
	mutex  sync.Mutex
	timers []*manualTimer
}

func (scheduler *manualScheduler) AfterFunc(delay time.Duration, callback func()) Timer {
	scheduler.mutex.Lock()
	defer scheduler.mutex.Unlock()
	timer := &manualTimer{scheduler: scheduler, delay: delay, callback: callback}
	scheduler.timers = append(scheduler.timers, timer)
	return timer
}

// fireAll runs every pending callback, including stopped ones when force is set,
// to model a timer that was already firing when Stop was called.
func (scheduler *manualScheduler) fireAll(force bool) int {
	scheduler.mutex.Lock()
	var due []*manualTimer
	for _, timer := range scheduler.timers {
		if timer.fired || (timer.stopped && !force) {
			continue
		}
		timer.fired = true
		due = append(due, timer)
	}
	scheduler.mutex.Unlock()
	for _, timer := range due {
		timer.callback()
	}
	return len(due)
}

type recordingDispatcher struct {
	mutex sync.Mutex
	uris  []string
	err   error
}

func (dispatcher *recordingDispatcher) Dispatch(_ context.Context, uri string) error {
	dispatcher.mutex.Lock()
	defer dispatcher.mutex.Unlock()
	dispatcher.uris = append(dispatcher.uris, uri)
	return dispatcher.err
}

func (dispatcher *recordingDispatcher) calls() []string {
	dispatcher.mutex.Lock()
	defer dispatcher.mutex.Unlock()
	return append([]string(nil), dispatcher.uris...)
}

type fixture struct {
	controller *Controller
	scheduler  *manualScheduler
	dispatcher *recordingDispatcher
	notices    *notify.Recorder
}

func newFixture() fixture {
	scheduler := &manualScheduler{}
	dispatcher := &recordingDispatcher{}
	notices := &notify.Recorder{}
	controller := NewController(Config{
		Template:   mailintent.DefaultVariants("info@complymint.eu")[mailintent.VariantConsultation],
		Dispatcher: dispatcher,
		Notifier:   notices,
		Scheduler:  scheduler,
	})
	return fixture{controller: controller, scheduler: scheduler, dispatcher: dispatcher, notices: notices}
}

func TestSubmitDispatchesAndAutoCloses(t *testing.T) {
	testFixture := newFixture()
	controller := testFixture.controller

	if err := controller.Open(); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if err := controller.Update(mailintent.ContactFields{Email: "a@b.ie"}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	intent, err := controller.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if controller.State() != Submitted || !controller.ModalState().IsSubmitted {
		t.Fatalf("expected submitted state, got %s", controller.State())
	}
	uris := testFixture.dispatcher.calls()
	if len(uris) != 1 || !strings.Contains(uris[0], "mailto:info@complymint.eu") || uris[0] != intent.URI() {
		t.Fatalf("unexpected dispatches: %v", uris)
	}
	if testFixture.scheduler.timers[0].delay != DefaultAutoCloseDelay {
		t.Fatalf("expected default delay, got %s", testFixture.scheduler.timers[0].delay)
	}

	if fired := testFixture.scheduler.fireAll(false); fired != 1 {
		t.Fatalf("expected one timer to fire, got %d", fired)
	}
	if controller.State() != Closed {
		t.Fatalf("expected closed after delay, got %s", controller.State())
	}
	if !controller.Fields().IsEmpty() {
		t.Fatalf("expected fields reset, got %+v", controller.Fields())
	}
	if waitErr := controller.WaitClosed(context.Background()); waitErr != nil {
		t.Fatalf("WaitClosed error: %v", waitErr)
	}
}

func TestSubmitWithEmptyEmailStaysOpen(t *testing.T) {
	testFixture := newFixture()
	controller := testFixture.controller
	_ = controller.Open()
	_ = controller.Update(mailintent.ContactFields{Name: "Jane"})

	_, err := controller.Submit(context.Background())
	if !errors.Is(err, mailintent.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if controller.State() != Open {
		t.Fatalf("expected open, got %s", controller.State())
	}
	if len(testFixture.dispatcher.calls()) != 0 {
		t.Fatalf("dispatch must not run on validation failure")
	}
	notices := testFixture.notices.Notices()
	if len(notices) != 1 || notices[0].Kind != notify.KindValidationFailed {
		t.Fatalf("expected validation notice, got %+v", notices)
	}
	if controller.Fields().Name != "Jane" {
		t.Fatalf("fields must survive a validation failure")
	}
}

func TestCancelDuringSubmittedPreventsDeferredReset(t *testing.T) {
	testFixture := newFixture()
	controller := testFixture.controller
	_ = controller.Open()
	_ = controller.Update(mailintent.ContactFields{Email: "a@b.ie"})
	if _, err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	controller.Cancel()
	if controller.State() != Closed {
		t.Fatalf("expected closed after cancel, got %s", controller.State())
	}
	if !testFixture.scheduler.timers[0].stopped {
		t.Fatalf("expected timer to be stopped")
	}

	_ = controller.Open()
	_ = controller.Update(mailintent.ContactFields{Email: "second@b.ie"})
	testFixture.scheduler.fireAll(true)
	if controller.State() != Open {
		t.Fatalf("stale timer changed state to %s", controller.State())
	}
	if controller.Fields().Email != "second@b.ie" {
		t.Fatalf("stale timer reset the new fields")
	}
}

func TestDisposeCancelsPendingTimer(t *testing.T) {
	testFixture := newFixture()
	controller := testFixture.controller
	_ = controller.Open()
	_ = controller.Update(mailintent.ContactFields{Email: "a@b.ie"})
	if _, err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	controller.Dispose()
	testFixture.scheduler.fireAll(true)

	if controller.State() != Closed {
		t.Fatalf("expected closed after dispose, got %s", controller.State())
	}
	if err := controller.Open(); !errors.Is(err, ErrDisposed) {
		t.Fatalf("expected ErrDisposed, got %v", err)
	}
	controller.Cancel()
	controller.Dispose()
}

func TestDispatchFailureKeepsFormOpen(t *testing.T) {
	testFixture := newFixture()
	testFixture.dispatcher.err = dispatch.ErrNoOpener
	controller := testFixture.controller
	_ = controller.Open()
	_ = controller.Update(mailintent.ContactFields{Email: "a@b.ie"})

	if _, err := controller.Submit(context.Background()); !errors.Is(err, dispatch.ErrNoOpener) {
		t.Fatalf("expected dispatch error, got %v", err)
	}
	if controller.State() != Open {
		t.Fatalf("expected open, got %s", controller.State())
	}
	if len(testFixture.scheduler.timers) != 0 {
		t.Fatalf("no auto-close may be scheduled after a failed dispatch")
	}
	notices := testFixture.notices.Notices()
	if len(notices) != 1 || notices[0].Kind != notify.KindDispatchFailed {
		t.Fatalf("expected dispatch notice, got %+v", notices)
	}
}

func TestTransitionsRequireOpenForm(t *testing.T) {
	testFixture := newFixture()
	controller := testFixture.controller

	if err := controller.Update(mailintent.ContactFields{Email: "a@b.ie"}); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen from Update, got %v", err)
	}
	if _, err := controller.Submit(context.Background()); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen from Submit, got %v", err)
	}
	_ = controller.Open()
	_ = controller.Update(mailintent.ContactFields{Email: "a@b.ie"})
	if err := controller.Open(); err != nil {
		t.Fatalf("re-opening an open form: %v", err)
	}
	if controller.Fields().Email != "a@b.ie" {
		t.Fatalf("re-opening must keep fields")
	}
	if _, err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if err := controller.Open(); !errors.Is(err, ErrSubmissionPending) {
		t.Fatalf("expected ErrSubmissionPending, got %v", err)
	}
}

func TestCancelDiscardsEdits(t *testing.T) {
	testFixture := newFixture()
	controller := testFixture.controller
	_ = controller.Open()
	_ = controller.Update(mailintent.ContactFields{Name: "Jane", Email: "a@b.ie"})
	controller.Cancel()
	if controller.ModalState().IsOpen {
		t.Fatalf("expected modal closed")
	}
	_ = controller.Open()
	if !controller.Fields().IsEmpty() {
		t.Fatalf("expected fresh fields after reopening, got %+v", controller.Fields())
	}
}

func TestTimeSchedulerClosesForm(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	controller := NewController(Config{
		Template:       mailintent.DefaultVariants("info@complymint.eu")[mailintent.VariantGeneral],
		Dispatcher:     dispatcher,
		AutoCloseDelay: 10 * time.Millisecond,
	})
	_ = controller.Open()
	_ = controller.Update(mailintent.ContactFields{Email: "a@b.ie"})
	if _, err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := controller.WaitClosed(ctx); err != nil {
		t.Fatalf("WaitClosed error: %v", err)
	}
	if controller.State() != Closed {
		t.Fatalf("expected closed, got %s", controller.State())
	}
}
