// Package mailintent turns contact form input into mailto: intents that
// pre-fill the visitor's own mail client.
package mailintent

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	mailtoScheme      = "mailto"
	subjectQueryKey   = "subject"
	bodyQueryKey      = "body"
	encodedPlus       = "+"
	encodedSpace      = "%20"
	uriFormat         = "mailto:%s?subject=%s&body=%s"
	malformedURIError = "%w: %s"
)

// MailIntent is a fully substituted message ready to hand to a mail client.
type MailIntent struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Build validates fields and renders template into a MailIntent.
func Build(fields ContactFields, template MailTemplate) (MailIntent, error) {
	if validationErr := fields.Validate(); validationErr != nil {
		return MailIntent{}, validationErr
	}
	if templateErr := template.Validate(); templateErr != nil {
		return MailIntent{}, templateErr
	}
	normalized := fields.Normalized()
	return MailIntent{
		Recipient: strings.TrimSpace(template.Recipient),
		Subject:   template.Subject,
		Body:      Substitute(template.Body, normalized.placeholderValues(), DefaultPrompts),
	}, nil
}

// URI renders the intent as mailto:<recipient>?subject=<enc>&body=<enc>.
func (intent MailIntent) URI() string {
	return fmt.Sprintf(uriFormat, intent.Recipient, EncodeComponent(intent.Subject), EncodeComponent(intent.Body))
}

// String returns URI.
func (intent MailIntent) String() string {
	return intent.URI()
}

// EncodeComponent percent-encodes value for a URI query component. Spaces
// become %20, never +.
func EncodeComponent(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), encodedPlus, encodedSpace)
}

// ParseMailIntent decodes a mailto URI produced by URI.
func ParseMailIntent(rawURI string) (MailIntent, error) {
	parsed, parseErr := url.Parse(rawURI)
	if parseErr != nil {
		return MailIntent{}, fmt.Errorf(malformedURIError, ErrMalformedURI, parseErr)
	}
	if !strings.EqualFold(parsed.Scheme, mailtoScheme) {
		return MailIntent{}, fmt.Errorf(malformedURIError, ErrMalformedURI, "scheme is not mailto")
	}
	recipient, unescapeErr := url.PathUnescape(parsed.Opaque)
	if unescapeErr != nil {
		return MailIntent{}, fmt.Errorf(malformedURIError, ErrMalformedURI, unescapeErr)
	}
	query, queryErr := url.ParseQuery(parsed.RawQuery)
	if queryErr != nil {
		return MailIntent{}, fmt.Errorf(malformedURIError, ErrMalformedURI, queryErr)
	}
	return MailIntent{
		Recipient: recipient,
		Subject:   query.Get(subjectQueryKey),
		Body:      query.Get(bodyQueryKey),
	}, nil
}
