package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"l5/checker-go/pkg/sexp"
	"l5/checker-go/pkg/typechecker"
)

const (
	historyFile = ".l5_history"
	promptMain  = "l5> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("L5 type checker REPL (%s)\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", cliToolVersion)

func runRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	session := typechecker.NewSession()

	for {
		code, ok := readDatum(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		typeStr, err := session.TypeOfSource(trimmed)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(typeStr)
		ln.AppendHistory(strings.ReplaceAll(trimmed, "\n", " "))
	}
}

// readDatum keeps prompting until the accumulated input reads as a
// complete datum; a read failure other than truncation is handed to the
// checker path so the user sees the real error.
func readDatum(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) == "" || strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := sexp.Read(src); perr == nil || !sexp.IsIncomplete(perr) {
			return src, true
		}
	}
}
