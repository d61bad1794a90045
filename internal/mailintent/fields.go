package mailintent

import "strings"

// Placeholder keys understood by body templates.
const (
	PlaceholderName    = "name"
	PlaceholderEmail   = "email"
	PlaceholderPhone   = "phone"
	PlaceholderMessage = "message"
)

// ContactFields holds what a visitor typed into the contact form.
type ContactFields struct {
	Name    string `json:"name" mapstructure:"name"`
	Email   string `json:"email" mapstructure:"email"`
	Phone   string `json:"phone" mapstructure:"phone"`
	Message string `json:"message" mapstructure:"message"`
}

// Normalized trims the single-line fields and blanks a whitespace-only message.
func (fields ContactFields) Normalized() ContactFields {
	normalized := ContactFields{
		Name:    strings.TrimSpace(fields.Name),
		Email:   strings.TrimSpace(fields.Email),
		Phone:   strings.TrimSpace(fields.Phone),
		Message: fields.Message,
	}
	if strings.TrimSpace(normalized.Message) == "" {
		normalized.Message = ""
	}
	return normalized
}

// IsEmpty reports whether no field carries a value.
func (fields ContactFields) IsEmpty() bool {
	return fields.Normalized() == ContactFields{}
}

// Validate enforces the only hard requirement: a non-empty email.
func (fields ContactFields) Validate() error {
	if fields.Normalized().Email == "" {
		return &ValidationError{Field: PlaceholderEmail, Reason: "missing email"}
	}
	return nil
}

func (fields ContactFields) placeholderValues() map[string]string {
	return map[string]string{
		PlaceholderName:    fields.Name,
		PlaceholderEmail:   fields.Email,
		PlaceholderPhone:   fields.Phone,
		PlaceholderMessage: fields.Message,
	}
}
