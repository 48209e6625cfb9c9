// Package console reads parameters and writes results one line at a time.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput is returned when input ends before a line could be read.
var ErrNoInput = errors.New("no input")

type Console struct {
	in      *bufio.Reader
	out     io.Writer
	prompts io.Writer
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// WithPrompts makes ReadLine announce what it is waiting for on w.
func (c *Console) WithPrompts(w io.Writer) *Console {
	c.prompts = w
	return c
}

// ReadLine returns the next line without its line ending. A final line
// without a newline is still returned.
func (c *Console) ReadLine(prompt string) (string, error) {
	if c.prompts != nil && prompt != "" {
		fmt.Fprintf(c.prompts, "%s: ", prompt)
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) WriteLine(s string) error {
	_, err := fmt.Fprintln(c.out, s)
	return err
}
