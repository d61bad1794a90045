// Package config loads complymint configuration from global and local YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/complymint/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors config.yaml. Unset values stay zero so that
// a local file only overrides what it names.
type ApplicationConfiguration struct {
	Contact ContactConfiguration `mapstructure:"contact"`
	Mail    MailConfiguration    `mapstructure:"mail"`
	Form    FormConfiguration    `mapstructure:"form"`
	Server  ServerConfiguration  `mapstructure:"server"`
}

// ContactConfiguration holds the contact details displayed on the site.
type ContactConfiguration struct {
	Email string `mapstructure:"email"`
	Phone string `mapstructure:"phone"`
}

// MailConfiguration holds the fixed recipient and the per-variant templates.
type MailConfiguration struct {
	Recipient      string                           `mapstructure:"recipient"`
	DefaultVariant string                           `mapstructure:"default_variant"`
	Templates      map[string]TemplateConfiguration `mapstructure:"templates"`
}

// TemplateConfiguration is one form variant's subject and body.
type TemplateConfiguration struct {
	Subject string `mapstructure:"subject"`
	Body    string `mapstructure:"body"`
}

// FormConfiguration tunes the contact form controller.
type FormConfiguration struct {
	AutoClose string `mapstructure:"auto_close"`
}

// ServerConfiguration tunes the local HTTP command service.
type ServerConfiguration struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RateLimit      *float64 `mapstructure:"rate_limit"`
	Burst          *int     `mapstructure:"burst"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	return merged.Merge(localConfig), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Contact = result.Contact.merge(override.Contact)
	result.Mail = result.Mail.merge(override.Mail)
	if override.Form.AutoClose != "" {
		result.Form.AutoClose = override.Form.AutoClose
	}
	result.Server = result.Server.merge(override.Server)
	return result
}

func (config ContactConfiguration) merge(override ContactConfiguration) ContactConfiguration {
	result := config
	if override.Email != "" {
		result.Email = override.Email
	}
	if override.Phone != "" {
		result.Phone = override.Phone
	}
	return result
}

func (config MailConfiguration) merge(override MailConfiguration) MailConfiguration {
	result := config
	if override.Recipient != "" {
		result.Recipient = override.Recipient
	}
	if override.DefaultVariant != "" {
		result.DefaultVariant = override.DefaultVariant
	}
	if len(override.Templates) > 0 {
		templates := make(map[string]TemplateConfiguration, len(config.Templates)+len(override.Templates))
		for name, template := range config.Templates {
			templates[name] = template
		}
		for name, template := range override.Templates {
			templates[name] = templates[name].merge(template)
		}
		result.Templates = templates
	}
	return result
}

func (config TemplateConfiguration) merge(override TemplateConfiguration) TemplateConfiguration {
	result := config
	if override.Subject != "" {
		result.Subject = override.Subject
	}
	if override.Body != "" {
		result.Body = override.Body
	}
	return result
}

func (config ServerConfiguration) merge(override ServerConfiguration) ServerConfiguration {
	result := config
	if override.Address != "" {
		result.Address = override.Address
	}
	if len(override.AllowedOrigins) > 0 {
		result.AllowedOrigins = append([]string{}, override.AllowedOrigins...)
	}
	if override.RateLimit != nil {
		result.RateLimit = cloneFloat(override.RateLimit)
	}
	if override.Burst != nil {
		result.Burst = cloneInt(override.Burst)
	}
	return result
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
