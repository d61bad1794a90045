// Package notify surfaces copy and contact outcomes to the person at the keyboard.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Kind classifies a user-visible notice.
type Kind string

const (
	KindCopied           Kind = "copied"
	KindCopyFailed       Kind = "copy_failed"
	KindNothingToCopy    Kind = "nothing_to_copy"
	KindValidationFailed Kind = "validation_failed"
	KindMailPrepared     Kind = "mail_prepared"
	KindDispatchFailed   Kind = "dispatch_failed"
)

const (
	copiedMessageFormat     = "Copied: %s"
	copyFailedMessage       = "Copy failed — copy manually"
	nothingToCopyMessage    = "Nothing to copy"
	validationMessageFormat = "Please check the form: %s"
	mailPreparedMessage     = "Opening your mail client…"
	dispatchFailedFormat    = "Could not open your mail client: %s"
)

// Notice is one message for the user.
type Notice struct {
	Kind    Kind
	Message string
}

// Notifier delivers notices.
type Notifier interface {
	Notify(notice Notice)
}

// Copied reports text placed on the clipboard.
func Copied(text string) Notice {
	return Notice{Kind: KindCopied, Message: fmt.Sprintf(copiedMessageFormat, text)}
}

// CopyFailed carries the manual-copy instruction.
func CopyFailed() Notice {
	return Notice{Kind: KindCopyFailed, Message: copyFailedMessage}
}

// NothingToCopy reports a missing copy target.
func NothingToCopy() Notice {
	return Notice{Kind: KindNothingToCopy, Message: nothingToCopyMessage}
}

// ValidationFailed reports a contact form that cannot be submitted yet.
func ValidationFailed(err error) Notice {
	return Notice{Kind: KindValidationFailed, Message: fmt.Sprintf(validationMessageFormat, err)}
}

// MailPrepared reports the hand-off to the mail client.
func MailPrepared() Notice {
	return Notice{Kind: KindMailPrepared, Message: mailPreparedMessage}
}

// DispatchFailed reports a mail client that could not be opened.
func DispatchFailed(err error) Notice {
	return Notice{Kind: KindDispatchFailed, Message: fmt.Sprintf(dispatchFailedFormat, err)}
}

// ConsoleNotifier prints notices as colored lines.
type ConsoleNotifier struct {
	writer  io.Writer
	mutex   sync.Mutex
	success *color.Color
	warning *color.Color
	failure *color.Color
}

// NewConsoleNotifier writes notices to writer.
func NewConsoleNotifier(writer io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{
		writer:  writer,
		success: color.New(color.FgHiGreen),
		warning: color.New(color.FgHiYellow),
		failure: color.New(color.FgHiRed),
	}
}

// Notify prints notice in the color matching its kind.
func (notifier *ConsoleNotifier) Notify(notice Notice) {
	notifier.mutex.Lock()
	defer notifier.mutex.Unlock()
	_, _ = notifier.paletteFor(notice.Kind).Fprintln(notifier.writer, notice.Message)
}

func (notifier *ConsoleNotifier) paletteFor(kind Kind) *color.Color {
	switch kind {
	case KindCopied, KindMailPrepared:
		return notifier.success
	case KindValidationFailed, KindNothingToCopy:
		return notifier.warning
	default:
		return notifier.failure
	}
}

// Recorder keeps every notice it receives.
type Recorder struct {
	mutex   sync.Mutex
	notices []Notice
}

// Notify appends notice.
func (recorder *Recorder) Notify(notice Notice) {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	recorder.notices = append(recorder.notices, notice)
}

// Notices returns a copy of the recorded notices.
func (recorder *Recorder) Notices() []Notice {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	return append([]Notice(nil), recorder.notices...)
}

var (
	_ Notifier = (*ConsoleNotifier)(nil)
	_ Notifier = (*Recorder)(nil)
)
