// Package contactform implements the contact modal: open, fill, submit, hand
// the mail intent to the mail client and close itself shortly afterwards.
package contactform

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/temirov/complymint/internal/dispatch"
	"github.com/temirov/complymint/internal/mailintent"
	"github.com/temirov/complymint/internal/notify"
)

// DefaultAutoCloseDelay is how long the confirmation stays visible.
const DefaultAutoCloseDelay = 1500 * time.Millisecond

var (
	// ErrDisposed is returned by every operation after Dispose.
	ErrDisposed = errors.New("contact form disposed")
	// ErrNotOpen is returned when the form must be open for the operation.
	ErrNotOpen = errors.New("contact form is not open")
	// ErrSubmissionPending is returned by Open while a submission is still on screen.
	ErrSubmissionPending = errors.New("contact form submission pending")
	// ErrCancelled is returned by Submit when the form was closed during dispatch.
	ErrCancelled = errors.New("contact form cancelled during submission")
)

// State is a position in the modal lifecycle.
type State int

const (
	Closed State = iota
	Open
	Submitting
	Submitted
)

func (state State) String() string {
	switch state {
	case Open:
		return "open"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	default:
		return "closed"
	}
}

// ModalState is what the rendering layer needs to draw the modal.
type ModalState struct {
	IsOpen      bool
	IsSubmitted bool
}

// Config parameterizes one contact form variant.
type Config struct {
	Template       mailintent.MailTemplate
	Dispatcher     dispatch.Dispatcher
	Notifier       notify.Notifier
	AutoCloseDelay time.Duration
	Scheduler      Scheduler
}

// Controller owns the modal state and the in-progress contact fields.
type Controller struct {
	mutex      sync.Mutex
	config     Config
	state      State
	fields     mailintent.ContactFields
	timer      Timer
	generation uint64
	disposed   bool
	closedCh   chan struct{}
}

// NewController returns a closed controller.
func NewController(config Config) *Controller {
	normalized := config
	if normalized.AutoCloseDelay <= 0 {
		normalized.AutoCloseDelay = DefaultAutoCloseDelay
	}
	if normalized.Scheduler == nil {
		normalized.Scheduler = TimeScheduler{}
	}
	if normalized.Notifier == nil {
		normalized.Notifier = discardNotifier{}
	}
	closedCh := make(chan struct{})
	close(closedCh)
	return &Controller{config: normalized, state: Closed, closedCh: closedCh}
}

// State reports the current lifecycle state.
func (controller *Controller) State() State {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	return controller.state
}

// ModalState reports visibility and confirmation flags.
func (controller *Controller) ModalState() ModalState {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	return ModalState{
		IsOpen:      controller.state != Closed,
		IsSubmitted: controller.state == Submitted,
	}
}

// Fields returns a snapshot of the in-progress fields.
func (controller *Controller) Fields() mailintent.ContactFields {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	return controller.fields
}

// Open shows an empty form. Opening an open form keeps its fields.
func (controller *Controller) Open() error {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	if controller.disposed {
		return ErrDisposed
	}
	switch controller.state {
	case Open:
		return nil
	case Submitting, Submitted:
		return ErrSubmissionPending
	}
	controller.generation++
	controller.fields = mailintent.ContactFields{}
	controller.state = Open
	controller.closedCh = make(chan struct{})
	return nil
}

// Update replaces the in-progress fields.
func (controller *Controller) Update(fields mailintent.ContactFields) error {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	if controller.disposed {
		return ErrDisposed
	}
	if controller.state != Open {
		return ErrNotOpen
	}
	controller.fields = fields
	return nil
}

// Submit validates the fields, dispatches the mail intent and schedules the
// auto-close. A validation or dispatch failure leaves the form open.
func (controller *Controller) Submit(ctx context.Context) (mailintent.MailIntent, error) {
	controller.mutex.Lock()
	if controller.disposed {
		controller.mutex.Unlock()
		return mailintent.MailIntent{}, ErrDisposed
	}
	if controller.state != Open {
		controller.mutex.Unlock()
		return mailintent.MailIntent{}, ErrNotOpen
	}
	intent, buildErr := mailintent.Build(controller.fields, controller.config.Template)
	if buildErr != nil {
		controller.mutex.Unlock()
		if errors.Is(buildErr, mailintent.ErrValidation) {
			controller.config.Notifier.Notify(notify.ValidationFailed(buildErr))
		} else {
			controller.config.Notifier.Notify(notify.DispatchFailed(buildErr))
		}
		return mailintent.MailIntent{}, buildErr
	}
	controller.state = Submitting
	generation := controller.generation
	controller.mutex.Unlock()

	dispatchErr := controller.dispatch(ctx, intent.URI())

	controller.mutex.Lock()
	if controller.disposed || controller.generation != generation || controller.state != Submitting {
		controller.mutex.Unlock()
		return intent, ErrCancelled
	}
	if dispatchErr != nil {
		controller.state = Open
		controller.mutex.Unlock()
		controller.config.Notifier.Notify(notify.DispatchFailed(dispatchErr))
		return mailintent.MailIntent{}, dispatchErr
	}
	controller.state = Submitted
	controller.timer = controller.config.Scheduler.AfterFunc(controller.config.AutoCloseDelay, func() {
		controller.autoClose(generation)
	})
	controller.mutex.Unlock()
	controller.config.Notifier.Notify(notify.MailPrepared())
	return intent, nil
}

// Cancel closes the form from any visible state, discarding the fields and
// any pending auto-close.
func (controller *Controller) Cancel() {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	if controller.disposed || controller.state == Closed {
		return
	}
	controller.closeLocked()
}

// Dispose tears the controller down; the pending auto-close never fires.
func (controller *Controller) Dispose() {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	if controller.disposed {
		return
	}
	if controller.state != Closed {
		controller.closeLocked()
	} else {
		controller.stopTimerLocked()
		controller.generation++
	}
	controller.disposed = true
}

// WaitClosed blocks until the form is closed or ctx ends.
func (controller *Controller) WaitClosed(ctx context.Context) error {
	controller.mutex.Lock()
	closedCh := controller.closedCh
	controller.mutex.Unlock()
	select {
	case <-closedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (controller *Controller) dispatch(ctx context.Context, uri string) error {
	if controller.config.Dispatcher == nil {
		return dispatch.ErrNoOpener
	}
	return controller.config.Dispatcher.Dispatch(ctx, uri)
}

func (controller *Controller) autoClose(generation uint64) {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	if controller.disposed || controller.generation != generation || controller.state != Submitted {
		return
	}
	controller.timer = nil
	controller.closeLocked()
}

func (controller *Controller) closeLocked() {
	controller.stopTimerLocked()
	controller.generation++
	controller.fields = mailintent.ContactFields{}
	controller.state = Closed
	close(controller.closedCh)
}

func (controller *Controller) stopTimerLocked() {
	if controller.timer != nil {
		controller.timer.Stop()
		controller.timer = nil
	}
}

type discardNotifier struct{}

func (discardNotifier) Notify(notify.Notice) {}
