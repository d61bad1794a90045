// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/complymint/internal/config"
	"github.com/temirov/complymint/internal/contactform"
	"github.com/temirov/complymint/internal/dispatch"
	"github.com/temirov/complymint/internal/mailintent"
	"github.com/temirov/complymint/internal/notify"
	"github.com/temirov/complymint/internal/services/clipboard"
	"github.com/temirov/complymint/internal/services/contactapi"
	"github.com/temirov/complymint/internal/utils"
)

const (
	configFlagName       = "config"
	versionFlagName      = "version"
	targetFlagName       = "target"
	nameFlagName         = "name"
	emailFlagName        = "email"
	phoneFlagName        = "phone"
	messageFlagName      = "message"
	variantFlagName      = "variant"
	openFlagName         = "open"
	copyFlagName         = "copy"
	waitFlagName         = "wait"
	addressFlagName      = "address"
	globalFlagName       = "global"
	forceFlagName        = "force"
	versionTemplate      = "complymint version: %s\n"
	rootUse              = "complymint"
	rootShortDescription = "ComplyMint contact tooling"
	rootLongDescription  = `complymint copies ComplyMint contact details to the clipboard and prepares
mail intents that open the visitor's own mail client with a pre-filled message.
Use serve to expose the same operations to the rendered site over local HTTP.`

	copyUse              = "copy [text]"
	copyAlias            = "cp"
	copyShortDescription = "copy text or a contact detail to the clipboard (" + copyAlias + ")"
	copyUsageExample     = `  # Copy the configured email address
  complymint copy --target email

  # Copy arbitrary text
  complymint copy "353 - 894533581"`

	mailUse              = "mail"
	mailAlias            = "m"
	mailShortDescription = "prepare a mailto intent and open the mail client (" + mailAlias + ")"
	mailLongDescription  = `Fill the contact form from flags, validate it and hand the mailto intent to
the mail client. Use --open=no to print the URI instead, and --copy to also place it on the clipboard.`
	mailUsageExample = `  # Request a consultation
  complymint mail --variant consultation --name Jane --email jane@x.ie

  # Print the URI without opening a mail client
  complymint mail --email jane@x.ie --open no`

	serveUse              = "serve"
	serveShortDescription = "serve copy and mail commands over local HTTP"
	initUse               = "init"
	initShortDescription  = "write a default config.yaml"

	configFlagDescription  = "path to a configuration file"
	versionFlagDescription = "display application version"
	targetFlagDescription  = "contact detail to copy (email or phone)"
	variantFlagDescription = "mail template variant"
	openFlagDescription    = "open the mail client instead of printing the URI"
	copyFlagDescription    = "also copy the mail URI to the clipboard"
	waitFlagDescription    = "wait for the form to close after submission"
	addressFlagDescription = "listen address"
	globalFlagDescription  = "write the global configuration instead of the local one"
	forceFlagDescription   = "overwrite an existing configuration file"

	missingCopySourceMessage = "provide text to copy or --target"
	initializedMessageFormat = "configuration written to %s\n"
)

type dependencies struct {
	logger           *zap.Logger
	output           io.Writer
	notifier         notify.Notifier
	clipboard        *clipboard.Service
	opener           dispatch.Dispatcher
	scheduler        contactform.Scheduler
	workingDirectory string
	onListening      func(address string)
	exit             func(code int)
}

// Execute runs the complymint application.
func Execute(logger *zap.Logger) error {
	workingDirectory, workingDirectoryErr := os.Getwd()
	if workingDirectoryErr != nil {
		return fmt.Errorf("determine working directory: %w", workingDirectoryErr)
	}
	rootCommand := createRootCommand(dependencies{
		logger:           logger,
		output:           os.Stdout,
		notifier:         notify.NewConsoleNotifier(os.Stderr),
		clipboard:        clipboard.NewService(),
		opener:           dispatch.NewSystemOpener(),
		scheduler:        contactform.TimeScheduler{},
		workingDirectory: workingDirectory,
	})
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(context.Background())
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	if deps.logger == nil {
		deps.logger = zap.NewNop()
	}
	if deps.exit == nil {
		deps.exit = os.Exit
	}
	var showVersion bool
	var configPath string

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				deps.exit(0)
			}
		},
	}
	rootCommand.SetOut(deps.output)
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configPath, configFlagName, "", configFlagDescription)

	loadSettings := func() (config.Settings, error) {
		loaded, loadErr := config.LoadApplicationConfiguration(config.LoadOptions{
			WorkingDirectory: deps.workingDirectory,
			ExplicitFilePath: configPath,
		})
		if loadErr != nil {
			return config.Settings{}, loadErr
		}
		return loaded.Resolve()
	}

	rootCommand.AddCommand(
		createCopyCommand(deps, loadSettings),
		createMailCommand(deps, loadSettings),
		createServeCommand(deps, loadSettings),
		createInitCommand(deps),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

type settingsLoader func() (config.Settings, error)

// createCopyCommand returns the copy subcommand.
func createCopyCommand(deps dependencies, loadSettings settingsLoader) *cobra.Command {
	var target string

	copyCommand := &cobra.Command{
		Use:     copyUse,
		Aliases: []string{copyAlias},
		Short:   copyShortDescription,
		Example: copyUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			var text string
			var result clipboard.Result
			switch {
			case target != "":
				settings, settingsErr := loadSettings()
				if settingsErr != nil {
					return settingsErr
				}
				text, result = deps.clipboard.CopyTarget(command.Context(), settings.Contact, target)
			case len(arguments) == 1:
				text = arguments[0]
				result = deps.clipboard.Copy(command.Context(), text)
			default:
				return errors.New(missingCopySourceMessage)
			}
			reportCopy(deps.notifier, text, result)
			return result.Err
		},
	}
	copyCommand.Flags().StringVar(&target, targetFlagName, "", targetFlagDescription)
	return copyCommand
}

// createMailCommand returns the mail subcommand. It drives one contact form
// through open, submit and, with --wait, the auto-close.
func createMailCommand(deps dependencies, loadSettings settingsLoader) *cobra.Command {
	var fields mailintent.ContactFields
	var variant string
	var openClient bool
	var copyURI bool
	var waitForClose bool

	mailCommand := &cobra.Command{
		Use:     mailUse,
		Aliases: []string{mailAlias},
		Short:   mailShortDescription,
		Long:    mailLongDescription,
		Example: mailUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, settingsErr := loadSettings()
			if settingsErr != nil {
				return settingsErr
			}
			template, templateErr := settings.Template(variant)
			if templateErr != nil {
				return templateErr
			}
			var dispatcher dispatch.Dispatcher = dispatch.WriterDispatcher{Writer: command.OutOrStdout()}
			if openClient {
				dispatcher = deps.opener
			}
			controller := contactform.NewController(contactform.Config{
				Template:       template,
				Dispatcher:     dispatcher,
				Notifier:       deps.notifier,
				AutoCloseDelay: settings.AutoCloseDelay,
				Scheduler:      deps.scheduler,
			})
			defer controller.Dispose()

			if openErr := controller.Open(); openErr != nil {
				return openErr
			}
			if updateErr := controller.Update(fields); updateErr != nil {
				return updateErr
			}
			intent, submitErr := controller.Submit(command.Context())
			if submitErr != nil {
				return submitErr
			}
			if copyURI {
				uri := intent.URI()
				result := deps.clipboard.Copy(command.Context(), uri)
				reportCopy(deps.notifier, uri, result)
			}
			if waitForClose {
				return controller.WaitClosed(command.Context())
			}
			return nil
		},
	}
	flagSet := mailCommand.Flags()
	flagSet.StringVar(&fields.Name, nameFlagName, "", "sender name")
	flagSet.StringVar(&fields.Email, emailFlagName, "", "sender email (required)")
	flagSet.StringVar(&fields.Phone, phoneFlagName, "", "sender phone")
	flagSet.StringVar(&fields.Message, messageFlagName, "", "message body")
	flagSet.StringVar(&variant, variantFlagName, "", variantFlagDescription)
	registerToggleFlag(flagSet, &openClient, openFlagName, true, openFlagDescription)
	registerToggleFlag(flagSet, &copyURI, copyFlagName, false, copyFlagDescription)
	registerToggleFlag(flagSet, &waitForClose, waitFlagName, false, waitFlagDescription)
	return mailCommand
}

// createServeCommand returns the serve subcommand.
func createServeCommand(deps dependencies, loadSettings settingsLoader) *cobra.Command {
	var address string

	serveCommand := &cobra.Command{
		Use:   serveUse,
		Short: serveShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, settingsErr := loadSettings()
			if settingsErr != nil {
				return settingsErr
			}
			if address != "" {
				settings.Server.Address = address
			}
			server := contactapi.NewServer(contactapi.Config{
				Address:        settings.Server.Address,
				Capabilities:   contactapi.DefaultCapabilities(),
				Executors:      contactapi.DefaultExecutors(deps.clipboard, settings.Contact, settings.Template),
				Contact:        settings.Contact,
				AllowedOrigins: settings.Server.AllowedOrigins,
				RateLimit:      settings.Server.RateLimit,
				Burst:          settings.Server.Burst,
				Logger:         deps.logger,
			})
			ctx, stop := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, deps.onListening)
		},
	}
	serveCommand.Flags().StringVar(&address, addressFlagName, "", addressFlagDescription)
	return serveCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(deps dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, initErr := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: deps.workingDirectory,
			})
			if initErr != nil {
				return initErr
			}
			fmt.Fprintf(command.OutOrStdout(), initializedMessageFormat, path)
			return nil
		},
	}
	registerToggleFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

func reportCopy(notifier notify.Notifier, text string, result clipboard.Result) {
	switch {
	case result.Outcome == clipboard.Succeeded:
		notifier.Notify(notify.Copied(text))
	case errors.Is(result.Err, clipboard.ErrNoCopyTarget):
		notifier.Notify(notify.NothingToCopy())
	default:
		notifier.Notify(notify.CopyFailed())
	}
}
