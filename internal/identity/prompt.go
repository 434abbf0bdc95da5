package identity

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Prompter asks the operator for credentials. The password is read without
// echo when the input is a terminal.
type Prompter struct {
	mu     sync.Mutex
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

// NewPrompter reads answers from in and writes prompts to out (normally
// stdin and stderr, so prompts never end up in the report).
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, reader: bufio.NewReader(in)}
}

func (p *Prompter) Credentials(ctx context.Context, fabric string) (Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}

	userPrompt := fmt.Sprintf("Username to fabric %s: ", fabric)
	passPrompt := fmt.Sprintf("Password to fabric %s: ", fabric)
	if fabric == AllFabrics {
		userPrompt = "Username for all fabrics: "
		passPrompt = "Password to all fabrics: "
	}

	fmt.Fprint(p.out, userPrompt)
	user, err := p.readLine()
	if err != nil {
		return Credentials{}, fmt.Errorf("reading username: %w", err)
	}
	if user == "" {
		return Credentials{}, errors.New("username is required")
	}

	fmt.Fprint(p.out, passPrompt)
	pass, err := p.readSecret()
	if err != nil {
		return Credentials{}, fmt.Errorf("reading password: %w", err)
	}
	return Credentials{Username: user, Password: pass}, nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *Prompter) readSecret() (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out) // newline after password input
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}
	return p.readLine()
}
