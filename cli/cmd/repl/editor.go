package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/formula/formula"
	"github.com/ardnew/formula/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-evaluate-retry loop.
// It writes the variable table as assignments to a temp file, opens the
// user's editor, and evaluates the result into a new session. On error the
// user is prompted to re-edit; declining exits the program.
type editCommand struct {
	session    *formula.Session
	precision  int
	ctxFunc    func() context.Context
	logger     log.Logger
	newSession *formula.Session
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. If the user empties the file, newSession is
// left nil. If the user declines to re-edit after an error, Run returns
// [ErrEditDeclined].
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.session.Table().Format(ctx, &buf, c.precision); err != nil {
		return fmt.Errorf("format variables: %w", err)
	}

	f, err := os.CreateTemp(os.TempDir(), "formula-vars-*.txt")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	f.Close()

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		content, err = os.ReadFile(path)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		session, err := c.load(ctx, content)

		c.logger.TraceContext(ctx, "editor evaluate attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			c.newSession = session

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%v\n", err)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// load evaluates each line of content into a new session.
func (c *editCommand) load(ctx context.Context, content []byte) (*formula.Session, error) {
	session := formula.NewSession(
		formula.WithTable(formula.NewTable(formula.WithCapacity(c.session.Table().Cap()))),
		formula.WithLogger(c.logger),
	)

	scanner := bufio.NewScanner(bytes.NewReader(content))

	for number := 1; scanner.Scan(); number++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if r := session.Evaluate(ctx, text); !r.OK() {
			return nil, fmt.Errorf("line %d: %s: %w", number, text, r.Err())
		}
	}

	return session, scanner.Err()
}

// runEditor launches the user's editor on the file at path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
