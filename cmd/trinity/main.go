package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	trinity "github.com/DoctorDalek1963/trinity"
)

const (
	appName     = "trinity"
	historyFile = ".trinity_history"
	promptMain  = "==> "
)

var banner = fmt.Sprintf("trinity %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", trinity.Version)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "view":
		os.Exit(cmdView(os.Args[2:]))
	case "version":
		fmt.Println(trinity.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`trinity %s (built %s)

Usage:
  %s run <file>                     Evaluate a script, one expression per line.
  %s repl                           Start the interactive REPL.
  %s view [-defs <file>] <expr>     Visualise a 2D transformation.
  %s version                        Print the compiled version

`, trinity.Version, trinity.BuildDate, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

// cmdRun evaluates a script file expression by expression against one shared
// session. Blank lines and lines starting with '#' are skipped; the value of
// the last expression is printed.
func cmdRun(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file>\n", appName)
		return 2
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 1
	}
	defer f.Close()

	sess := trinity.NewSession()

	var last trinity.Value
	evaluated := false
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := sess.EvalSource(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s:%d:\n%s\n", args[0], lineNo, red(err.Error()))
			return 1
		}
		last = v
		evaluated = true
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: reading %s: %v\n", appName, args[0], err)
		return 1
	}

	if evaluated {
		fmt.Println(trinity.FormatValue(last))
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
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

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	sess := trinity.NewSession()

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}

		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}

		if strings.HasPrefix(code, ":") {
			switch strings.ToLower(code) {
			case ":quit":
				return 0
			case ":reset":
				sess.Reset()
				fmt.Println(green("environment cleared"))
			case ":vars":
				printVars(sess)
			default:
				fmt.Println("unknown command. Commands: :quit :reset :vars")
			}
			continue
		}

		v, err := sess.EvalSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		fmt.Println(blue(trinity.FormatValue(v)))
		ln.AppendHistory(code)
	}
}

func printVars(sess *trinity.Session) {
	names := sess.Env.Names()
	if len(names) == 0 {
		fmt.Println(green("no variables defined"))
		return
	}
	for _, name := range names {
		v, _ := sess.Env.Get(name)
		fmt.Printf("%s = %s\n", name, blue(trinity.FormatValue(v)))
	}
}
