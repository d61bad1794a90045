package utils

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	gitExecutableName  = "git"
	gitDescribeCommand = "describe"
)

// ReleaseVersion is injected at link time with -ldflags "-X github.com/temirov/complymint/internal/utils.ReleaseVersion=v1.2.3".
var ReleaseVersion string

var errGitDirectoryNotFound = errors.New(".git directory not found")

// GetApplicationVersion reports the link-time version, then the module build info,
// then git describe output for development checkouts.
func GetApplicationVersion() string {
	if trimmed := strings.TrimSpace(ReleaseVersion); trimmed != "" {
		return trimmed
	}
	if buildInfo, available := debug.ReadBuildInfo(); available {
		if version := buildInfo.Main.Version; version != "" && version != develBuildVersion {
			return version
		}
	}
	repositoryRoot, lookupErr := findGitDirectory(".")
	if lookupErr != nil {
		return unknownVersion
	}
	for _, describeArguments := range [][]string{
		{gitDescribeCommand, "--tags", "--exact-match"},
		{gitDescribeCommand, "--tags", "--long", "--dirty"},
	} {
		// #nosec G204
		command := exec.Command(gitExecutableName, describeArguments...)
		command.Dir = repositoryRoot
		output, runErr := command.Output()
		if runErr == nil && len(output) > 0 {
			return strings.TrimSpace(string(output))
		}
	}
	return unknownVersion
}

// findGitDirectory walks upward from startDirectory to the directory holding .git.
func findGitDirectory(startDirectory string) (string, error) {
	currentDirectory, absoluteErr := filepath.Abs(startDirectory)
	if absoluteErr != nil {
		return "", absoluteErr
	}
	for {
		info, statErr := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if statErr == nil && info.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", errGitDirectoryNotFound
		}
		currentDirectory = parentDirectory
	}
}
