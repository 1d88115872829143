package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when input ends before a question was answered
var ErrNoInput = errors.New("no input")

// Prompter asks line-oriented questions
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a new Prompter reading answers from in and writing questions to out
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// IsInteractive reports whether f is attached to a terminal
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Confirm asks a yes/no question. An empty answer selects def.
func (p *Prompter) Confirm(message string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}

	for {
		answer, err := p.ask(fmt.Sprintf("%s (%s): ", message, hint))
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// Input asks for a line of text until validate accepts it
func (p *Prompter) Input(message string, validate func(string) error) (string, error) {
	for {
		answer, err := p.ask(message + " ")
		if err != nil {
			return "", err
		}

		if validate != nil {
			if err := validate(answer); err != nil {
				fmt.Fprintf(p.out, ">> %v\n", err)
				continue
			}
		}
		return answer, nil
	}
}

// Int asks for a whole number no smaller than minValue
func (p *Prompter) Int(message string, minValue int) (int, error) {
	var n int
	_, err := p.Input(message, func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil || v < minValue {
			return fmt.Errorf("please enter a whole number of at least %d", minValue)
		}
		n = v
		return nil
	})
	return n, err
}

func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}
