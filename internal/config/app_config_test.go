package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/temirov/complymint/internal/utils"
)

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name            string
		globalContent   string
		localContent    string
		explicitPath    string
		explicitContent string
		expectEmail     string
		expectPhone     string
		expectSubject   string
		expectAutoClose time.Duration
		expectBurst     int
	}{
		{
			name:            "defaults_without_files",
			expectEmail:     DefaultContactEmail,
			expectPhone:     DefaultContactPhone,
			expectSubject:   "Training Inquiry",
			expectAutoClose: DefaultAutoCloseDelay,
			expectBurst:     DefaultBurst,
		},
		{
			name:            "local_overrides_global",
			globalContent:   "contact:\n  email: global@complymint.eu\n  phone: 353 - 111\nform:\n  auto_close: 2s\nserver:\n  burst: 5\n",
			localContent:    "contact:\n  email: local@complymint.eu\nmail:\n  templates:\n    training:\n      subject: MLRO Training\n",
			expectEmail:     "local@complymint.eu",
			expectPhone:     "353 - 111",
			expectSubject:   "MLRO Training",
			expectAutoClose: 2 * time.Second,
			expectBurst:     5,
		},
		{
			name:            "explicit_path_replaces_local",
			localContent:    "contact:\n  email: local@complymint.eu\n",
			explicitPath:    "custom.yaml",
			explicitContent: "contact:\n  email: custom@complymint.eu\n",
			expectEmail:     "custom@complymint.eu",
			expectPhone:     DefaultContactPhone,
			expectSubject:   "Training Inquiry",
			expectAutoClose: DefaultAutoCloseDelay,
			expectBurst:     DefaultBurst,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.ConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte(testCase.explicitContent), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			settings, resolveErr := loadedConfig.Resolve()
			if resolveErr != nil {
				t.Fatalf("Resolve error: %v", resolveErr)
			}
			if settings.Contact.Email != testCase.expectEmail {
				t.Fatalf("expected email %s, got %s", testCase.expectEmail, settings.Contact.Email)
			}
			if settings.Contact.Phone != testCase.expectPhone {
				t.Fatalf("expected phone %s, got %s", testCase.expectPhone, settings.Contact.Phone)
			}
			training, lookupErr := settings.Template("training")
			if lookupErr != nil {
				t.Fatalf("lookup training: %v", lookupErr)
			}
			if training.Subject != testCase.expectSubject {
				t.Fatalf("expected subject %s, got %s", testCase.expectSubject, training.Subject)
			}
			if training.Recipient != settings.Contact.Email {
				t.Fatalf("expected recipient to follow contact email, got %s", training.Recipient)
			}
			if settings.AutoCloseDelay != testCase.expectAutoClose {
				t.Fatalf("expected auto close %s, got %s", testCase.expectAutoClose, settings.AutoCloseDelay)
			}
			if settings.Server.Burst != testCase.expectBurst {
				t.Fatalf("expected burst %d, got %d", testCase.expectBurst, settings.Server.Burst)
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: t.TempDir(), ExplicitFilePath: "absent.yaml"})
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration")
	}
}

func TestResolveRejectsInvalidValues(t *testing.T) {
	zero := 0
	testCases := []struct {
		name   string
		config ApplicationConfiguration
	}{
		{name: "bad_duration", config: ApplicationConfiguration{Form: FormConfiguration{AutoClose: "soon"}}},
		{name: "bad_recipient", config: ApplicationConfiguration{Mail: MailConfiguration{Recipient: "not-an-address"}}},
		{name: "unknown_default_variant", config: ApplicationConfiguration{Mail: MailConfiguration{DefaultVariant: "newsletter"}}},
		{name: "zero_burst", config: ApplicationConfiguration{Server: ServerConfiguration{Burst: &zero}}},
		{
			name: "new_variant_without_body",
			config: ApplicationConfiguration{Mail: MailConfiguration{Templates: map[string]TemplateConfiguration{
				"audit": {Subject: "Audit request"},
			}}},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			if _, err := testCase.config.Resolve(); err == nil {
				t.Fatalf("expected resolve error")
			}
		})
	}
}

func TestContactInfo(t *testing.T) {
	info := ContactInfo{Email: "info@complymint.eu", Phone: "353 - 894533581"}
	if info.TelURI() != "tel:+353894533581" {
		t.Fatalf("unexpected tel uri %s", info.TelURI())
	}
	if value, found := info.ResolveCopyTarget(" Phone "); !found || value != info.Phone {
		t.Fatalf("unexpected phone target %q %t", value, found)
	}
	if _, found := info.ResolveCopyTarget("fax"); found {
		t.Fatalf("unexpected fax target")
	}
	if (ContactInfo{}).TelURI() != "" {
		t.Fatalf("expected empty tel uri without phone")
	}
}

func TestResolveDefaultsAllowedOrigins(t *testing.T) {
	settings, err := ApplicationConfiguration{}.Resolve()
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if len(settings.Server.AllowedOrigins) != 1 || settings.Server.AllowedOrigins[0] != DefaultAllowedOrigin {
		t.Fatalf("expected default origin, got %v", settings.Server.AllowedOrigins)
	}

	configured := ApplicationConfiguration{Server: ServerConfiguration{AllowedOrigins: []string{"https://staging.complymint.eu"}}}
	settings, err = configured.Resolve()
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if len(settings.Server.AllowedOrigins) != 1 || settings.Server.AllowedOrigins[0] != "https://staging.complymint.eu" {
		t.Fatalf("configured origins must be kept, got %v", settings.Server.AllowedOrigins)
	}
}
