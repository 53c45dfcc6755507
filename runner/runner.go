// Package runner executes stored commands through a shell.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"slices"
	"strings"
	"sync"
)

const DefaultShell = "sh"

// placeholder matches {{name}}; the first group is the name.
var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// ExtractParams returns the distinct {{param}} names in cmd, in order of
// first appearance.
func ExtractParams(cmd string) []string {
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(cmd, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// SubstituteParams fills in every placeholder that has a value in one pass.
// Placeholders without a value are left as written, and values are never
// expanded again.
func SubstituteParams(cmd string, values map[string]string) string {
	return placeholder.ReplaceAllStringFunc(cmd, func(m string) string {
		if v, ok := values[m[2:len(m)-2]]; ok {
			return v
		}
		return m
	})
}

// ParseParams turns "key=value" pairs into a map.
func ParseParams(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid param %q, want name=value", p)
		}
		values[name] = value
	}
	return values, nil
}

// OutputMsg is one line of output, or the final message when Done is set.
type OutputMsg struct {
	Line   string
	IsErr  bool
	Done   bool
	ErrMsg string
}

func finished(err error) OutputMsg {
	if err != nil {
		return OutputMsg{Done: true, ErrMsg: err.Error()}
	}
	return OutputMsg{Done: true}
}

// Run executes cmd with `shell -c` and streams its output through the channel,
// finishing with a Done message. The channel is closed on return. Cancelling
// ctx kills the shell along with everything it started.
func Run(ctx context.Context, shell, cmd string, output chan<- OutputMsg) {
	defer close(output)

	if shell == "" {
		shell = DefaultShell
	}
	proc := exec.CommandContext(ctx, shell, "-c", cmd)
	killGroup(proc)

	streams, err := pipes(proc)
	if err != nil {
		output <- finished(err)
		return
	}
	if err := proc.Start(); err != nil {
		output <- finished(err)
		return
	}

	var wg sync.WaitGroup
	for i, r := range streams {
		i, r := i, r
		wg.Add(1)
		go func() {
			defer wg.Done()
			sc := bufio.NewScanner(r)
			for sc.Scan() {
				output <- OutputMsg{Line: sc.Text(), IsErr: i == 1}
			}
		}()
	}
	// Wait closes the pipes, so both readers must drain first.
	wg.Wait()

	output <- finished(proc.Wait())
}

// pipes returns stdout and stderr, in that order.
func pipes(proc *exec.Cmd) ([2]io.Reader, error) {
	var streams [2]io.Reader
	stdout, err := proc.StdoutPipe()
	if err != nil {
		return streams, err
	}
	stderr, err := proc.StderrPipe()
	if err != nil {
		return streams, err
	}
	streams[0], streams[1] = stdout, stderr
	return streams, nil
}
