package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	calls    [][]string
	err      error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) Execute(_ context.Context, args []string) error {
	f.calls = append(f.calls, args)
	if len(args) > 0 && args[0] == "login" {
		f.loggedIn = true
	}
	return f.err
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesToCommandTree(t *testing.T) {
	lines := capturePrintln(t)
	exec := &fakeExec{}

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		`new-deck --topic "Go concurrency" -n 3`,
		"ls -o json",
		"repl",
		"exit",
		"ls",
	}, "\n")

	runREPL(context.Background(), exec, func() string { return " (Ada)" }, rdr(input))

	assert.Equal(t, [][]string{
		{"login"},
		{"new-deck", "--topic", "Go concurrency", "-n", "3"},
		{"ls", "-o", "json"},
	}, exec.calls)
	assert.Contains(t, *lines, helpGuest)
	assert.Contains(t, *lines, helpLoggedIn)
	assert.Contains(t, *lines, "slidesmith (Ada)> ")
	assert.Contains(t, *lines, "Already in the interactive shell")
	assert.Equal(t, "Bye!", (*lines)[len(*lines)-1])
}

func TestRunREPL_ErrorsDoNotStopTheLoop(t *testing.T) {
	lines := capturePrintln(t)
	exec := &fakeExec{err: errors.New("boom")}

	runREPL(context.Background(), exec, func() string { return "" }, rdr("whoami\nls\n"))

	assert.Len(t, exec.calls, 2)
	assert.Contains(t, *lines, "Error: boom")
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("ls"))
	assert.Equal(t, [][]string{{"ls"}}, exec.calls, "last line without newline still runs")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, rdr("ls\nls\n"))
	assert.Len(t, exec.calls, 1)
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "ls -o json", want: []string{"ls", "-o", "json"}},
		{line: `new-deck --topic "Go and Rust"`, want: []string{"new-deck", "--topic", "Go and Rust"}},
		{line: `new-doc --title 'It''s' x`, want: []string{"new-doc", "--title", "Its", "x"}},
		{line: `theme 1 --font Times\ New\ Roman`, want: []string{"theme", "1", "--font", "Times New Roman"}},
		{line: `--topic ""`, want: []string{"--topic", ""}},
		{line: "   \t ", want: nil},
		{line: `show "1`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got, err := splitLine(tc.line)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExecute_RootStartsREPL(t *testing.T) {
	lines := capturePrintln(t)
	env := newTestEnv(t)
	env.app.reader = rdr("help\nquit\n")

	_, err := env.run(t)
	require.NoError(t, err)
	assert.Contains(t, *lines, helpGuest)
	assert.Equal(t, "Bye!", (*lines)[len(*lines)-1])
}

func TestExecute_FreshFlagsPerCommand(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	seedListing(env)

	out, err := env.run(t, "ls", "-o", "json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "["))

	out, err = env.run(t, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
}

func TestExecute_ReplCommand(t *testing.T) {
	lines := capturePrintln(t)
	env := newTestEnv(t)
	env.app.reader = rdr("exit\n")

	_, err := env.run(t, "repl")
	require.NoError(t, err)
	assert.Equal(t, []string{"Welcome to slidesmith (type 'help' for commands)", "slidesmith> ", "Bye!"}, *lines)
}
