// Package clipboard provides access to the system clipboard with a command-line fallback.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

var (
	// ErrClipboardUnavailable means neither the primary path nor a fallback command exists.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
	// ErrClipboardWriteFailed means every available path was attempted and failed.
	ErrClipboardWriteFailed = errors.New("clipboard write failed")
	// ErrNoCopyTarget means the requested copy source does not exist.
	ErrNoCopyTarget = errors.New("nothing to copy")
)

// Outcome is the user-facing result of a copy request.
type Outcome int

const (
	// Failed means the text did not reach the clipboard.
	Failed Outcome = iota
	// Succeeded means the text is on the clipboard.
	Succeeded
)

func (outcome Outcome) String() string {
	if outcome == Succeeded {
		return "succeeded"
	}
	return "failed"
}

// Path names the mechanism that settled a copy request.
type Path string

const (
	PathNone     Path = "none"
	PathPrimary  Path = "primary"
	PathFallback Path = "fallback"
)

// Result reports how a copy request ended.
type Result struct {
	Outcome Outcome
	Path    Path
	Err     error
}

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// PrimaryWriter is the preferred clipboard mechanism.
type PrimaryWriter interface {
	Available() bool
	WriteAll(text string) error
}

// FallbackWriter is the synchronous mechanism used once the primary path is
// unavailable or has rejected.
type FallbackWriter interface {
	Available() bool
	Write(ctx context.Context, text string) error
}

// TargetResolver maps a named copy target to the text it displays.
type TargetResolver interface {
	ResolveCopyTarget(name string) (string, bool)
}

// SystemWriter implements PrimaryWriter using github.com/atotto/clipboard.
type SystemWriter struct{}

// Available reports whether atotto/clipboard found a backend on this host.
func (SystemWriter) Available() bool {
	return !clipboard.Unsupported
}

// WriteAll writes text to the system clipboard.
func (SystemWriter) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Service copies text using the primary writer and falls back to the command writer.
type Service struct {
	primary  PrimaryWriter
	fallback FallbackWriter
}

// NewService constructs a clipboard Service backed by the host clipboard.
func NewService() *Service {
	return NewServiceWithWriters(SystemWriter{}, NewCommandWriter())
}

// NewServiceWithWriters constructs a Service from explicit writers; either may be nil.
func NewServiceWithWriters(primary PrimaryWriter, fallback FallbackWriter) *Service {
	return &Service{primary: primary, fallback: fallback}
}

// Copy writes text to the clipboard. The fallback starts only after the
// primary attempt has settled; a context that ends while the primary attempt
// is pending fails the request without touching the fallback.
func (service *Service) Copy(ctx context.Context, text string) Result {
	primaryAvailable := service.primary != nil && service.primary.Available()
	fallbackAvailable := service.fallback != nil && service.fallback.Available()
	if !primaryAvailable && !fallbackAvailable {
		return Result{Outcome: Failed, Path: PathNone, Err: ErrClipboardUnavailable}
	}

	var primaryErr error
	if primaryAvailable {
		primaryErr = service.writePrimary(ctx, text)
		if primaryErr == nil {
			return Result{Outcome: Succeeded, Path: PathPrimary}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{Outcome: Failed, Path: PathPrimary, Err: fmt.Errorf("%w: %v", ErrClipboardWriteFailed, ctxErr)}
		}
	}

	if !fallbackAvailable {
		return Result{Outcome: Failed, Path: PathPrimary, Err: fmt.Errorf("%w: %v", ErrClipboardWriteFailed, primaryErr)}
	}
	if fallbackErr := service.fallback.Write(ctx, text); fallbackErr != nil {
		if primaryErr != nil {
			return Result{Outcome: Failed, Path: PathFallback, Err: fmt.Errorf("%w: primary: %v; fallback: %v", ErrClipboardWriteFailed, primaryErr, fallbackErr)}
		}
		return Result{Outcome: Failed, Path: PathFallback, Err: fmt.Errorf("%w: %v", ErrClipboardWriteFailed, fallbackErr)}
	}
	return Result{Outcome: Succeeded, Path: PathFallback}
}

// CopyTarget resolves a named target and copies its trimmed text. An unknown
// or blank target fails with ErrNoCopyTarget before any clipboard path runs.
func (service *Service) CopyTarget(ctx context.Context, resolver TargetResolver, name string) (string, Result) {
	if resolver == nil {
		return "", Result{Outcome: Failed, Path: PathNone, Err: fmt.Errorf("%w: %s", ErrNoCopyTarget, name)}
	}
	text, found := resolver.ResolveCopyTarget(name)
	text = strings.TrimSpace(text)
	if !found || text == "" {
		return "", Result{Outcome: Failed, Path: PathNone, Err: fmt.Errorf("%w: %s", ErrNoCopyTarget, name)}
	}
	return text, service.Copy(ctx, text)
}

func (service *Service) writePrimary(ctx context.Context, text string) error {
	settled := make(chan error, 1)
	go func() {
		settled <- service.primary.WriteAll(text)
	}()
	select {
	case err := <-settled:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ErrorCopier adapts Service to the Copier interface.
type ErrorCopier struct {
	Service *Service
	Context context.Context
}

// Copy writes text to the clipboard and returns the failure, if any.
func (copier ErrorCopier) Copy(text string) error {
	ctx := copier.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return copier.Service.Copy(ctx, text).Err
}

var (
	_ Copier         = ErrorCopier{}
	_ PrimaryWriter  = SystemWriter{}
	_ FallbackWriter = (*CommandWriter)(nil)
)
