package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// prompter asks for missing run inputs. All non-terminal reads share one reader so
// piped answers are not swallowed by buffering.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, reader: bufio.NewReader(cmd.InOrStdin())}
}

func (p *prompter) readLine() (string, error) {
	value, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(value, "\r\n"), nil
}

func (p *prompter) input(label string) (string, error) {
	fmt.Fprintf(p.cmd.ErrOrStderr(), "%s: ", label)
	value, err := p.readLine()
	return strings.TrimSpace(value), err
}

// password reads without echo from a terminal. Only the line ending is stripped,
// spaces can be part of a password.
func (p *prompter) password(label string) (string, error) {
	fmt.Fprintf(p.cmd.ErrOrStderr(), "%s: ", label)
	if file, ok := p.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		bytes, err := term.ReadPassword(int(file.Fd()))
		fmt.Fprintln(p.cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(bytes), "\r\n"), nil
	}
	return p.readLine()
}
