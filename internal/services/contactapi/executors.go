package contactapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/temirov/complymint/internal/mailintent"
	"github.com/temirov/complymint/internal/services/clipboard"
)

// Command names registered by DefaultExecutors.
const (
	CommandCopy = "copy"
	CommandMail = "mail"
)

// CommandResponse contains the outcome of a command execution.
type CommandResponse struct {
	Outcome string                 `json:"outcome"`
	Output  string                 `json:"output"`
	Path    string                 `json:"path,omitempty"`
	Intent  *mailintent.MailIntent `json:"intent,omitempty"`
}

type copyPayload struct {
	Text   *string `json:"text"`
	Target string  `json:"target"`
}

type mailPayload struct {
	Variant string                   `json:"variant"`
	Fields  mailintent.ContactFields `json:"fields"`
}

// TemplateLookup resolves a form variant; a blank name selects the default variant.
type TemplateLookup func(variant string) (mailintent.MailTemplate, error)

// DefaultCapabilities describes the commands registered by DefaultExecutors.
func DefaultCapabilities() []Capability {
	return []Capability{
		{Name: CommandCopy, Description: "Copy text or a named contact target to the host clipboard"},
		{Name: CommandMail, Description: "Build a mailto intent from contact form fields"},
	}
}

// DefaultExecutors wires the copy and mail commands.
func DefaultExecutors(copier *clipboard.Service, resolver clipboard.TargetResolver, lookup TemplateLookup) map[string]CommandExecutor {
	return map[string]CommandExecutor{
		CommandCopy: NewCopyExecutor(copier, resolver),
		CommandMail: NewMailExecutor(lookup),
	}
}

// NewCopyExecutor copies {"text": ...} or {"target": "email"|"phone"}.
func NewCopyExecutor(copier *clipboard.Service, resolver clipboard.TargetResolver) CommandExecutor {
	return CommandExecutorFunc(func(ctx context.Context, request CommandRequest) (CommandResponse, error) {
		var payload copyPayload
		if decodeErr := decodePayload(request, &payload); decodeErr != nil {
			return CommandResponse{}, decodeErr
		}
		var text string
		var result clipboard.Result
		switch {
		case payload.Target != "":
			text, result = copier.CopyTarget(ctx, resolver, payload.Target)
		case payload.Text != nil:
			text = *payload.Text
			result = copier.Copy(ctx, text)
		default:
			return CommandResponse{}, NewCommandExecutionError(http.StatusNotFound, clipboard.ErrNoCopyTarget)
		}
		if result.Err != nil {
			return CommandResponse{}, NewCommandExecutionError(copyStatusCode(result.Err), result.Err)
		}
		return CommandResponse{Outcome: result.Outcome.String(), Output: text, Path: string(result.Path)}, nil
	})
}

// NewMailExecutor builds a mail intent from {"variant": ..., "fields": {...}}.
func NewMailExecutor(lookup TemplateLookup) CommandExecutor {
	return CommandExecutorFunc(func(_ context.Context, request CommandRequest) (CommandResponse, error) {
		var payload mailPayload
		if decodeErr := decodePayload(request, &payload); decodeErr != nil {
			return CommandResponse{}, decodeErr
		}
		template, lookupErr := lookup(payload.Variant)
		if lookupErr != nil {
			return CommandResponse{}, NewCommandExecutionError(http.StatusNotFound, lookupErr)
		}
		intent, buildErr := mailintent.Build(payload.Fields, template)
		if buildErr != nil {
			if errors.Is(buildErr, mailintent.ErrValidation) {
				return CommandResponse{}, NewCommandExecutionError(http.StatusUnprocessableEntity, buildErr)
			}
			return CommandResponse{}, buildErr
		}
		return CommandResponse{Outcome: clipboard.Succeeded.String(), Output: intent.URI(), Intent: &intent}, nil
	})
}

func decodePayload(request CommandRequest, target interface{}) error {
	if len(request.Payload) == 0 {
		return NewCommandExecutionError(http.StatusBadRequest, errors.New("empty request body"))
	}
	if decodeErr := json.Unmarshal(request.Payload, target); decodeErr != nil {
		return NewCommandExecutionError(http.StatusBadRequest, fmt.Errorf("decode request: %w", decodeErr))
	}
	return nil
}

func copyStatusCode(err error) int {
	switch {
	case errors.Is(err, clipboard.ErrNoCopyTarget):
		return http.StatusNotFound
	case errors.Is(err, clipboard.ErrClipboardUnavailable), errors.Is(err, clipboard.ErrClipboardWriteFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
