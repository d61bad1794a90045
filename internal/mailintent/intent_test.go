package mailintent

import (
	"errors"
	"strings"
	"testing"
)

const testRecipient = "info@complymint.eu"

func testTemplate() MailTemplate {
	return MailTemplate{
		Recipient: testRecipient,
		Subject:   "Consultation Request",
		Body:      "Name: {name}\nEmail: {email}\nPhone: {phone}\n\n{message}",
	}
}

func TestBuildRejectsMissingEmail(t *testing.T) {
	testCases := []struct {
		name   string
		fields ContactFields
	}{
		{name: "empty", fields: ContactFields{}},
		{name: "whitespace", fields: ContactFields{Name: "Jane", Email: "   "}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			intent, err := Build(testCase.fields, testTemplate())
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) || validationErr.Field != PlaceholderEmail {
				t.Fatalf("expected email validation error, got %#v", err)
			}
			if intent != (MailIntent{}) {
				t.Fatalf("expected no intent, got %+v", intent)
			}
		})
	}
}

func TestBuildSubstitutesFieldsAndPrompts(t *testing.T) {
	fields := ContactFields{Name: "Jane", Email: "jane@x.ie", Phone: "", Message: ""}
	intent, err := Build(fields, testTemplate())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	for _, expected := range []string{"Jane", "jane@x.ie", "[Phone]", "[Message]"} {
		if !strings.Contains(intent.Body, expected) {
			t.Fatalf("body %q does not contain %q", intent.Body, expected)
		}
	}
	uri := intent.URI()
	if !strings.HasPrefix(uri, "mailto:"+testRecipient+"?subject=") {
		t.Fatalf("unexpected uri prefix: %s", uri)
	}
	decoded, parseErr := ParseMailIntent(uri)
	if parseErr != nil {
		t.Fatalf("ParseMailIntent error: %v", parseErr)
	}
	if decoded != intent {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, intent)
	}
}

func TestBuildRejectsInvalidRecipient(t *testing.T) {
	testCases := []struct {
		name      string
		recipient string
	}{
		{name: "empty", recipient: ""},
		{name: "no_at_sign", recipient: "complymint.eu"},
		{name: "injected_query", recipient: "a@b.ie?cc=victim@x.ie"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			template := testTemplate()
			template.Recipient = testCase.recipient
			_, err := Build(ContactFields{Email: "a@b.ie"}, template)
			if !errors.Is(err, ErrInvalidTemplate) {
				t.Fatalf("expected ErrInvalidTemplate, got %v", err)
			}
		})
	}
}

func TestEncodeComponentEscapesReservedCharacters(t *testing.T) {
	encoded := EncodeComponent("a b\nc&d?e%f+g#h")
	expected := "a%20b%0Ac%26d%3Fe%25f%2Bg%23h"
	if encoded != expected {
		t.Fatalf("expected %s, got %s", expected, encoded)
	}
}

func TestURIRoundTripsFreeText(t *testing.T) {
	testCases := []struct {
		name    string
		message string
	}{
		{name: "multi_line", message: "line one\nline two\r\nline three"},
		{name: "reserved", message: "50% off? Q&A + more #1 = yes"},
		{name: "unicode", message: "Dia dhuit, fáilte — €100"},
		{name: "literal_placeholder", message: "please keep {email} verbatim"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			intent, err := Build(ContactFields{Email: "a@b.ie", Message: testCase.message}, testTemplate())
			if err != nil {
				t.Fatalf("Build error: %v", err)
			}
			if !strings.Contains(intent.Body, testCase.message) {
				t.Fatalf("body %q lost the message", intent.Body)
			}
			decoded, parseErr := ParseMailIntent(intent.URI())
			if parseErr != nil {
				t.Fatalf("ParseMailIntent error: %v", parseErr)
			}
			if decoded.Subject != intent.Subject || decoded.Body != intent.Body {
				t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, intent)
			}
		})
	}
}

func TestParseMailIntentRejectsOtherSchemes(t *testing.T) {
	if _, err := ParseMailIntent("https://complymint.eu/?subject=x"); !errors.Is(err, ErrMalformedURI) {
		t.Fatalf("expected ErrMalformedURI, got %v", err)
	}
}
