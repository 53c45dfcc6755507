package runner

import (
	"context"
	"slices"
	"testing"
	"time"
)

func TestExtractParams(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want []string
	}{
		{"none", "ls -la", nil},
		{"single", "ssh {{host}}", []string{"host"}},
		{"ordered and distinct", "scp {{file}} {{host}}:{{dir}}/{{file}}", []string{"file", "host", "dir"}},
		{"ignores single braces", "awk '{print $1}' {{path}}", []string{"path"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractParams(tt.cmd); !slices.Equal(got, tt.want) {
				t.Errorf("ExtractParams(%q) = %v, want %v", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestSubstituteParams(t *testing.T) {
	got := SubstituteParams("scp {{file}} {{host}}:{{file}} {{other}}", map[string]string{
		"file": "a.txt",
		"host": "box",
	})
	want := "scp a.txt box:a.txt {{other}}"
	if got != want {
		t.Errorf("SubstituteParams() = %q, want %q", got, want)
	}
}

func TestParseParams(t *testing.T) {
	got, err := ParseParams([]string{"host=box", "q=a=b", "empty="})
	if err != nil {
		t.Fatalf("ParseParams() error = %v", err)
	}
	if got["host"] != "box" || got["q"] != "a=b" || got["empty"] != "" {
		t.Errorf("ParseParams() = %v", got)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := ParseParams([]string{bad}); err == nil {
			t.Errorf("ParseParams(%q) error = nil, want error", bad)
		}
	}
}

func collect(t *testing.T, ctx context.Context, cmd string) []OutputMsg {
	t.Helper()
	ch := make(chan OutputMsg)
	go Run(ctx, "", cmd, ch)

	var msgs []OutputMsg
	for m := range ch {
		msgs = append(msgs, m)
	}
	if len(msgs) == 0 || !msgs[len(msgs)-1].Done {
		t.Fatalf("Run(%q) did not finish with a Done message: %v", cmd, msgs)
	}
	return msgs
}

func TestRun_StreamsOutput(t *testing.T) {
	msgs := collect(t, context.Background(), "echo one; echo two; echo oops 1>&2")

	var stdout, stderr []string
	for _, m := range msgs[:len(msgs)-1] {
		if m.IsErr {
			stderr = append(stderr, m.Line)
		} else {
			stdout = append(stdout, m.Line)
		}
	}
	if !slices.Equal(stdout, []string{"one", "two"}) {
		t.Errorf("stdout = %v, want [one two]", stdout)
	}
	if !slices.Equal(stderr, []string{"oops"}) {
		t.Errorf("stderr = %v, want [oops]", stderr)
	}
	if last := msgs[len(msgs)-1]; last.ErrMsg != "" {
		t.Errorf("ErrMsg = %q, want empty", last.ErrMsg)
	}
}

func TestRun_ReportsExitStatus(t *testing.T) {
	msgs := collect(t, context.Background(), "exit 3")
	if last := msgs[len(msgs)-1]; last.ErrMsg == "" {
		t.Errorf("ErrMsg empty for failing command")
	}
}

func TestRun_Cancel(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
	}{
		{"exec", "exec sleep 5"},
		{"forked child", "sleep 4; echo done"},
		{"background child holding output", "sleep 4 & wait; echo done"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			start := time.Now()
			msgs := collect(t, ctx, tt.cmd)
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("Run() took %v after cancellation", elapsed)
			}
			for _, m := range msgs {
				if m.Line == "done" {
					t.Errorf("command kept running after cancellation")
				}
			}
			if last := msgs[len(msgs)-1]; last.ErrMsg == "" {
				t.Errorf("ErrMsg empty for killed command")
			}
		})
	}
}
