// Package svnlook reads a pending transaction (or a committed revision) through
// the svnlook binary.
package svnlook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/lxiaocode/SVNTools/internal/commit"
)

// DefaultBinary is the svnlook executable looked up on PATH.
const DefaultBinary = "svnlook"

// CommandError is a failed svnlook invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("svnlook %s failed: %s", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += " — " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Look addresses one transaction or revision of a repository.
// Exactly one of Txn and Revision should be set; Txn wins if both are.
type Look struct {
	Binary   string
	Repos    string
	Txn      string
	Revision string
}

// New returns a Look for transaction txn of repos.
func New(repos, txn string) *Look {
	return &Look{Repos: repos, Txn: txn}
}

// Changed lists the paths changed by the transaction.
func (l *Look) Changed(ctx context.Context) ([]commit.ChangeRecord, error) {
	args := append([]string{"changed", l.Repos}, l.target()...)
	out, err := l.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return commit.ParseChanges(out)
}

// ReadFile returns the content of path as of the transaction.
func (l *Look) ReadFile(ctx context.Context, path string) (string, error) {
	args := append([]string{"cat"}, l.target()...)
	args = append(args, l.Repos, path)
	return l.run(ctx, args...)
}

// Validate reports whether the Look has enough to address a change set.
func (l *Look) Validate() error {
	if l.Repos == "" {
		return errors.New("repository path is required")
	}
	if l.Txn == "" && l.Revision == "" {
		return errors.New("one of transaction or revision is required")
	}
	return nil
}

func (l *Look) target() []string {
	if l.Txn != "" {
		return []string{"-t", l.Txn}
	}
	return []string{"-r", l.Revision}
}

func (l *Look) run(ctx context.Context, args ...string) (string, error) {
	bin := l.Binary
	if bin == "" {
		bin = DefaultBinary
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = append(os.Environ(), "LANG=en_US.UTF-8", "LC_ALL=en_US.UTF-8")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &CommandError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.String(), nil
}
