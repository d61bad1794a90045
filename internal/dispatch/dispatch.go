// Package dispatch hands prepared URIs to the host so the registered mail client opens them.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// ErrNoOpener reports a host without a known URI opener.
var ErrNoOpener = errors.New("no uri opener available")

// Dispatcher opens a URI.
type Dispatcher interface {
	Dispatch(ctx context.Context, uri string) error
}

// DispatcherFunc adapts a function into a Dispatcher.
type DispatcherFunc func(ctx context.Context, uri string) error

// Dispatch invokes the underlying function.
func (dispatcher DispatcherFunc) Dispatch(ctx context.Context, uri string) error {
	return dispatcher(ctx, uri)
}

// SystemOpener opens URIs with the platform's default handler.
type SystemOpener struct {
	Open func(uri string) error
}

// NewSystemOpener returns an opener backed by github.com/pkg/browser, which
// hands mailto: links to open, xdg-open or the Windows URL handler.
func NewSystemOpener() *SystemOpener {
	return &SystemOpener{Open: browser.OpenURL}
}

// Dispatch hands uri to the host handler.
func (opener *SystemOpener) Dispatch(ctx context.Context, uri string) error {
	if opener == nil || opener.Open == nil {
		return ErrNoOpener
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if openErr := opener.Open(uri); openErr != nil {
		return fmt.Errorf("open mail client: %w", openErr)
	}
	return nil
}

// WriterDispatcher prints the URI instead of opening it.
type WriterDispatcher struct {
	Writer io.Writer
}

// Dispatch writes uri followed by a newline.
func (dispatcher WriterDispatcher) Dispatch(_ context.Context, uri string) error {
	_, err := fmt.Fprintln(dispatcher.Writer, uri)
	return err
}

var (
	_ Dispatcher = (*SystemOpener)(nil)
	_ Dispatcher = WriterDispatcher{}
	_ Dispatcher = DispatcherFunc(nil)
)
