package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.trai.ch/mutuals/internal/core/domain"
	"golang.org/x/term"
)

// Prompter asks the user for a value that was not configured.
type Prompter interface {
	Prompt(label string, secret bool) (string, error)
}

// TermPrompter prompts on a terminal. Secrets are read without echo when in
// is a terminal; otherwise every answer is read as one line.
type TermPrompter struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewTermPrompter creates a new TermPrompter reading from in and prompting on out.
func NewTermPrompter(in *os.File, out io.Writer) *TermPrompter {
	return &TermPrompter{in: in, out: out, reader: bufio.NewReader(in)}
}

// Prompt writes label and reads the answer.
func (p *TermPrompter) Prompt(label string, secret bool) (string, error) {
	_, _ = fmt.Fprint(p.out, label)

	fd := int(p.in.Fd())
	if secret && term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) ensureCredentials(auth *domain.AuthConfig) error {
	var err error
	if auth.Identifier == "" {
		if auth.Identifier, err = a.prompter.Prompt("login username: ", false); err != nil {
			return errors.Join(domain.ErrMissingCredentials, err)
		}
	}
	if auth.Password == "" {
		if auth.Password, err = a.prompter.Prompt("login password: ", true); err != nil {
			return errors.Join(domain.ErrMissingCredentials, err)
		}
	}
	if auth.Identifier == "" || auth.Password == "" {
		return domain.ErrMissingCredentials
	}
	return nil
}
