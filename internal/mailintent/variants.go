package mailintent

import (
	"fmt"
	"sort"
	"strings"
)

// Variant names shipped with the default configuration.
const (
	VariantConsultation = "consultation"
	VariantTraining     = "training"
	VariantGeneral      = "general"
)

// Variants maps a form variant name to its template.
type Variants map[string]MailTemplate

// Lookup returns the template registered under name, matched case-insensitively.
func (variants Variants) Lookup(name string) (MailTemplate, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	template, found := variants[normalized]
	if !found {
		return MailTemplate{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownVariant, name, strings.Join(variants.Names(), ", "))
	}
	return template, nil
}

// Names lists the registered variants in sorted order.
func (variants Variants) Names() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultVariants returns the stock templates addressed to recipient.
func DefaultVariants(recipient string) Variants {
	return Variants{
		VariantConsultation: {
			Recipient: recipient,
			Subject:   "Consultation Request",
			Body:      "Hello ComplyMint,\n\nI would like to arrange an initial confidential consultation.\n\nName: {name}\nEmail: {email}\nPhone: {phone}\n\nDetails:\n{message}\n",
		},
		VariantTraining: {
			Recipient: recipient,
			Subject:   "Training Inquiry",
			Body:      "Hello ComplyMint,\n\nWe are interested in AML staff training.\n\nName: {name}\nEmail: {email}\nPhone: {phone}\n\nTeam and topics:\n{message}\n",
		},
		VariantGeneral: {
			Recipient: recipient,
			Subject:   "General enquiry",
			Body:      "Hello ComplyMint,\n\n{message}\n\nName: {name}\nEmail: {email}\nPhone: {phone}\n",
		},
	}
}
