// Package prompt collects operator input during interactive provisioning.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Prompter asks the operator for values. Installations driven by a profile
// use Scripted; interactive runs use Terminal.
type Prompter interface {
	Input(label, def string) (string, error)
	Secret(label string) (string, error)
	Confirm(label string, def bool) (bool, error)
}

// Terminal prompts on stdin/stdout. Secrets are read without echo when stdin
// is a terminal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal returns a Prompter bound to the process stdin/stdout.
func NewTerminal() *Terminal {
	return &Terminal{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// Input prints the label and reads a trimmed line. An empty answer returns def.
func (t *Terminal) Input(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(t.out, "%s: ", label)
	}
	answer, err := t.in.ReadString('\n')
	if err != nil && answer == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Secret reads a value without echoing it when stdin is a terminal, and falls
// back to a plain read when input is piped.
func (t *Terminal) Secret(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	if isatty.IsTerminal(os.Stdin.Fd()) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(t.out)
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	answer, err := t.in.ReadString('\n')
	if err != nil && answer == "" {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// Confirm asks a yes/no question. An empty answer returns def.
func (t *Terminal) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(t.out, "%s [%s]: ", label, hint)
		answer, err := t.in.ReadString('\n')
		if err != nil && answer == "" {
			return false, fmt.Errorf("read confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, "Please answer y or n.")
	}
}

// Scripted answers prompts from a fixed table. Missing answers fall back to
// the defaults the caller supplied, which is what --yes and profile runs want.
type Scripted struct {
	Answers  map[string]string
	Secrets  map[string]string
	Confirms map[string]bool
}

func (s *Scripted) Input(label, def string) (string, error) {
	if value, ok := s.Answers[label]; ok {
		return value, nil
	}
	return def, nil
}

func (s *Scripted) Secret(label string) (string, error) {
	if value, ok := s.Secrets[label]; ok {
		return value, nil
	}
	return "", fmt.Errorf("no scripted answer for secret %q", label)
}

func (s *Scripted) Confirm(label string, def bool) (bool, error) {
	if value, ok := s.Confirms[label]; ok {
		return value, nil
	}
	return def, nil
}
