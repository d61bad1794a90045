package config

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/temirov/complymint/internal/mailintent"
)

// Built-in defaults applied by Resolve.
const (
	DefaultContactEmail   = "info@complymint.eu"
	DefaultContactPhone   = "353 - 894533581"
	DefaultServerAddress  = "127.0.0.1:8787"
	DefaultAllowedOrigin  = "https://complymint.eu"
	DefaultRateLimit      = 1.0
	DefaultBurst          = 3
	DefaultAutoCloseDelay = 1500 * time.Millisecond

	copyTargetEmail = "email"
	copyTargetPhone = "phone"
	telScheme       = "tel:+"
)

// ContactInfo is the contact detail pair injected into every surface once at start-up.
type ContactInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ResolveCopyTarget maps the copy targets "email" and "phone" to their display text.
func (info ContactInfo) ResolveCopyTarget(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case copyTargetEmail:
		return info.Email, info.Email != ""
	case copyTargetPhone:
		return info.Phone, info.Phone != ""
	default:
		return "", false
	}
}

// CopyTargets lists the names understood by ResolveCopyTarget.
func (info ContactInfo) CopyTargets() []string {
	return []string{copyTargetEmail, copyTargetPhone}
}

// TelURI turns the display phone number into a dialable tel: URI.
func (info ContactInfo) TelURI() string {
	digits := strings.Map(func(character rune) rune {
		if unicode.IsDigit(character) {
			return character
		}
		return -1
	}, info.Phone)
	if digits == "" {
		return ""
	}
	return telScheme + digits
}

// ServerSettings is the resolved HTTP command service configuration.
type ServerSettings struct {
	Address        string
	AllowedOrigins []string
	RateLimit      float64
	Burst          int
}

// Settings is configuration with defaults applied and templates validated.
type Settings struct {
	Contact        ContactInfo
	Variants       mailintent.Variants
	DefaultVariant string
	AutoCloseDelay time.Duration
	Server         ServerSettings
}

// Template returns the template for variant, or the default variant when blank.
func (settings Settings) Template(variant string) (mailintent.MailTemplate, error) {
	if strings.TrimSpace(variant) == "" {
		variant = settings.DefaultVariant
	}
	return settings.Variants.Lookup(variant)
}

// Resolve applies defaults and validates the result.
func (config ApplicationConfiguration) Resolve() (Settings, error) {
	settings := Settings{
		Contact: ContactInfo{
			Email: firstNonEmpty(config.Contact.Email, DefaultContactEmail),
			Phone: firstNonEmpty(config.Contact.Phone, DefaultContactPhone),
		},
		DefaultVariant: strings.ToLower(firstNonEmpty(config.Mail.DefaultVariant, mailintent.VariantGeneral)),
		AutoCloseDelay: DefaultAutoCloseDelay,
		Server: ServerSettings{
			Address:        firstNonEmpty(config.Server.Address, DefaultServerAddress),
			AllowedOrigins: append([]string{}, config.Server.AllowedOrigins...),
			RateLimit:      DefaultRateLimit,
			Burst:          DefaultBurst,
		},
	}
	if len(settings.Server.AllowedOrigins) == 0 {
		settings.Server.AllowedOrigins = []string{DefaultAllowedOrigin}
	}
	if config.Server.RateLimit != nil {
		settings.Server.RateLimit = *config.Server.RateLimit
	}
	if config.Server.Burst != nil {
		settings.Server.Burst = *config.Server.Burst
	}
	if settings.Server.RateLimit <= 0 || settings.Server.Burst <= 0 {
		return Settings{}, fmt.Errorf("server rate_limit and burst must be positive")
	}

	if autoClose := strings.TrimSpace(config.Form.AutoClose); autoClose != "" {
		delay, parseErr := time.ParseDuration(autoClose)
		if parseErr != nil {
			return Settings{}, fmt.Errorf("parse form.auto_close %q: %w", autoClose, parseErr)
		}
		if delay <= 0 {
			return Settings{}, fmt.Errorf("form.auto_close must be positive, got %s", delay)
		}
		settings.AutoCloseDelay = delay
	}

	recipient := firstNonEmpty(config.Mail.Recipient, settings.Contact.Email)
	variants := mailintent.DefaultVariants(recipient)
	for name, override := range config.Mail.Templates {
		normalizedName := strings.ToLower(strings.TrimSpace(name))
		template := variants[normalizedName]
		template.Recipient = recipient
		if override.Subject != "" {
			template.Subject = override.Subject
		}
		if override.Body != "" {
			template.Body = override.Body
		}
		variants[normalizedName] = template
	}
	for _, name := range variants.Names() {
		template := variants[name]
		if validateErr := template.Validate(); validateErr != nil {
			return Settings{}, fmt.Errorf("mail template %s: %w", name, validateErr)
		}
		if strings.TrimSpace(template.Subject) == "" || strings.TrimSpace(template.Body) == "" {
			return Settings{}, fmt.Errorf("mail template %s: subject and body are required", name)
		}
	}
	if _, lookupErr := variants.Lookup(settings.DefaultVariant); lookupErr != nil {
		return Settings{}, fmt.Errorf("mail default_variant: %w", lookupErr)
	}
	settings.Variants = variants
	return settings, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
