package gitutil

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// InitialCommitMessage is the message of the scaffold commit.
const InitialCommitMessage = "chore(init): scaffold with create-liquid-apps"

// ErrGitUnavailable indicates git is not on PATH.
var ErrGitUnavailable = errors.New("git is not available")

// Run executes git within dir and returns trimmed stdout.
func Run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %v\n%s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Available reports whether a git binary can be found.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// InitRepository creates a repository in dir, stages everything and records
// one commit. The first failing step's error is returned.
func InitRepository(dir, message string) error {
	if !Available() {
		return ErrGitUnavailable
	}
	if message == "" {
		message = InitialCommitMessage
	}
	steps := [][]string{
		{"init"},
		{"add", "."},
		{"commit", "-m", message},
	}
	for _, args := range steps {
		if _, err := Run(dir, args...); err != nil {
			return err
		}
	}
	return nil
}

// HeadSubject returns the subject line of the HEAD commit.
func HeadSubject(dir string) (string, error) {
	return Run(dir, "log", "-1", "--format=%s", "HEAD")
}
