package mailintent

import (
	"fmt"
	"sort"
	"strings"
)

const (
	placeholderOpen  = "{"
	placeholderClose = "}"
)

// DefaultPrompts fills placeholders whose field was left empty, so the sender
// sees what to complete before sending.
var DefaultPrompts = map[string]string{
	PlaceholderName:    "[Your name]",
	PlaceholderEmail:   "[Email]",
	PlaceholderPhone:   "[Phone]",
	PlaceholderMessage: "[Message]",
}

// MailTemplate is deployment configuration for one form variant.
type MailTemplate struct {
	Recipient string `json:"recipient" mapstructure:"recipient"`
	Subject   string `json:"subject" mapstructure:"subject"`
	Body      string `json:"body" mapstructure:"body"`
}

// Validate checks that the template names a usable recipient.
func (template MailTemplate) Validate() error {
	recipient := strings.TrimSpace(template.Recipient)
	if recipient == "" {
		return fmt.Errorf("%w: recipient is empty", ErrInvalidTemplate)
	}
	if !strings.Contains(recipient, "@") || strings.ContainsAny(recipient, "?&#/ \t\r\n") {
		return fmt.Errorf("%w: recipient %q is not a plain address", ErrInvalidTemplate, recipient)
	}
	return nil
}

// Substitute replaces {key} placeholders in text. Blank values fall back to
// prompts[key] when present; placeholders without a value or prompt entry
// are left untouched. Substituted values are never rescanned.
func Substitute(text string, values map[string]string, prompts map[string]string) string {
	keys := make(map[string]struct{}, len(values)+len(prompts))
	for key := range values {
		keys[key] = struct{}{}
	}
	for key := range prompts {
		keys[key] = struct{}{}
	}
	orderedKeys := make([]string, 0, len(keys))
	for key := range keys {
		orderedKeys = append(orderedKeys, key)
	}
	sort.Strings(orderedKeys)

	replacements := make([]string, 0, 2*len(orderedKeys))
	for _, key := range orderedKeys {
		value, hasValue := values[key]
		if !hasValue || strings.TrimSpace(value) == "" {
			prompt, hasPrompt := prompts[key]
			if !hasPrompt {
				if !hasValue {
					continue
				}
				prompt = ""
			}
			value = prompt
		}
		replacements = append(replacements, placeholderOpen+key+placeholderClose, value)
	}
	if len(replacements) == 0 {
		return text
	}
	return strings.NewReplacer(replacements...).Replace(text)
}
