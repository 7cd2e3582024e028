package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL needs. App satisfies it; tests
// provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Execute(ctx context.Context, args []string) error
}

const (
	helpGuest    = "Available commands: login, register, ls, help, exit"
	helpLoggedIn = "Available commands: ls, show, export, new-deck, new-doc, theme, edit-deck, edit-doc, refine, whoami, logout, help, exit"
)

// REPL runs the interactive shell on stdin until exit or EOF.
func (a *App) REPL(ctx context.Context) error {
	printlnFn("Welcome to slidesmith (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// runREPL reads a line, splits it into arguments and hands them to the
// command tree. Command errors are printed and the loop continues; it exits
// on EOF or when the user types "exit" or "quit".
//
// The prompts of interactive commands read from the same reader, so a
// command like "login" consumes the lines that follow it.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("slidesmith%s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return
		}

		args, err := splitLine(line)
		if err != nil {
			printlnFn("Error:", err)
		}

		if len(args) > 0 {
			switch args[0] {
			case "help":
				if a.isLoggedIn() {
					printlnFn(helpLoggedIn)
				} else {
					printlnFn(helpGuest)
				}
			case "exit", "quit":
				printlnFn("Bye!")
				return
			case "repl":
				printlnFn("Already in the interactive shell")
			default:
				if err := a.Execute(ctx, args); err != nil {
					printlnFn("Error:", errorText(err))
				}
			}
		}

		if readErr != nil || ctx.Err() != nil {
			return
		}
	}
}

// splitLine splits a command line on whitespace. Double or single quotes
// group words; a backslash escapes the next rune outside single quotes.
func splitLine(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped, inWord = true, true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inWord = r, true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
