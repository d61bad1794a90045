package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

const stagingFilePattern = "complymint-clipboard-*.txt"

// Command is one clipboard utility invocation.
type Command struct {
	Name      string
	Arguments []string
}

// CommandRunner executes command with stdin attached.
type CommandRunner func(ctx context.Context, command Command, stdin *os.File) error

// CommandWriter pipes text through the first clipboard utility found on PATH.
// The text is staged in a temporary file that is removed on every exit path.
type CommandWriter struct {
	Candidates       []Command
	LookPath         func(string) (string, error)
	Run              CommandRunner
	StagingDirectory string
}

// NewCommandWriter returns a CommandWriter with the candidates for the current OS.
func NewCommandWriter() *CommandWriter {
	return &CommandWriter{
		Candidates: DefaultCommands(runtime.GOOS),
		LookPath:   exec.LookPath,
		Run:        runCommand,
	}
}

// DefaultCommands lists clipboard utilities in preference order for goos.
// Only the copy half of each tool is required, so on Linux a host with
// wl-copy but no wl-paste, termux-clipboard-set alone or WSL's clip.exe
// still has a working path while atotto/clipboard reports Unsupported.
func DefaultCommands(goos string) []Command {
	switch goos {
	case "darwin":
		return []Command{{Name: "pbcopy"}}
	case "windows":
		return []Command{{Name: "clip"}}
	default:
		return []Command{
			{Name: "wl-copy"},
			{Name: "xclip", Arguments: []string{"-selection", "clipboard"}},
			{Name: "xsel", Arguments: []string{"--clipboard", "--input"}},
			{Name: "termux-clipboard-set"},
			{Name: "clip.exe"},
		}
	}
}

// Available reports whether any candidate utility is installed.
func (writer *CommandWriter) Available() bool {
	_, found := writer.resolve()
	return found
}

// Write copies text through the resolved utility.
func (writer *CommandWriter) Write(ctx context.Context, text string) (err error) {
	command, found := writer.resolve()
	if !found {
		return ErrClipboardUnavailable
	}

	staging, createErr := os.CreateTemp(writer.StagingDirectory, stagingFilePattern)
	if createErr != nil {
		return fmt.Errorf("stage clipboard text: %w", createErr)
	}
	defer func() {
		closeErr := staging.Close()
		removeErr := os.Remove(staging.Name())
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%s panicked: %v", command.Name, recovered)
			return
		}
		if err == nil && closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			err = closeErr
		}
		if err == nil && removeErr != nil {
			err = removeErr
		}
	}()

	if _, writeErr := staging.WriteString(text); writeErr != nil {
		return fmt.Errorf("stage clipboard text: %w", writeErr)
	}
	if _, seekErr := staging.Seek(0, 0); seekErr != nil {
		return fmt.Errorf("rewind clipboard text: %w", seekErr)
	}
	run := writer.Run
	if run == nil {
		run = runCommand
	}
	if runErr := run(ctx, command, staging); runErr != nil {
		return fmt.Errorf("%s: %w", command.Name, runErr)
	}
	return nil
}

func (writer *CommandWriter) resolve() (Command, bool) {
	if writer == nil || writer.LookPath == nil {
		return Command{}, false
	}
	for _, candidate := range writer.Candidates {
		resolvedPath, lookErr := writer.LookPath(candidate.Name)
		if lookErr == nil && resolvedPath != "" {
			return Command{Name: resolvedPath, Arguments: candidate.Arguments}, true
		}
	}
	return Command{}, false
}

func runCommand(ctx context.Context, command Command, stdin *os.File) error {
	// #nosec G204
	process := exec.CommandContext(ctx, command.Name, command.Arguments...)
	process.Stdin = stdin
	return process.Run()
}
