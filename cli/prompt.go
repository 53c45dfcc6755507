package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"cmdref/ui"
)

// prompter asks for values the user did not pass as flags.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints label and returns one line of input without its line ending.
// EOF with nothing typed is an error unless optional is set.
func (p *prompter) ask(label string, optional bool) (string, error) {
	fmt.Fprint(p.out, ui.Prompt(label))
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	if err == io.EOF && line == "" && !optional {
		return "", fmt.Errorf("no value given for %s", strings.ToLower(label))
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// splitTags turns a space-delimited tag string into tags, dropping the empty
// pieces left by repeated spaces.
func splitTags(s string) []string {
	return strings.Fields(s)
}
