package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/gommon/color"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"hashlang/internal"
	"hashlang/internal/config"
)

const historyFile = ".hashlang_history"

type stdPrinter struct{}

func (s stdPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Println(a...)
}

// Fprintf colors error reports written to stderr
func (s stdPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	if w == os.Stderr {
		return fmt.Fprint(w, color.Red(fmt.Sprintf(format, a...)))
	}
	return fmt.Fprintf(w, format, a...)
}

func (s stdPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return fmt.Fprintln(w, a...)
}

func main() {
	configPath := flag.String("config", "", "path to "+config.FileName)
	logLevel := flag.String("log-level", "", "override log level")
	logFormat := flag.String("log-format", "", "override log format: text or json")
	tokensOut := flag.String("tokens", "", "write the token stream to `FILE` and exit")
	printAst := flag.Bool("ast", false, "print the syntax tree and exit")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hashlang [flags] [/path/to/script.hl]")
		flag.PrintDefaults()
	}
	flag.Parse()

	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		color.Disable()
	}

	var absPath, source string
	dir, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}
	if flag.NArg() == 1 {
		absPath, err = filepath.Abs(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		b, err := os.ReadFile(absPath)
		if err != nil {
			log.Fatal(err)
		}
		source = string(b)
		dir = filepath.Dir(absPath)
	}

	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.FindAndLoad(dir)
	}
	if err != nil {
		log.Fatal(err)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Path != "" {
		logger.WithField("config", cfg.Path).Debug("configuration loaded")
	}

	printer := stdPrinter{}

	if *tokensOut != "" {
		out, err := os.Create(*tokensOut)
		if err != nil {
			log.Fatal(err)
		}
		defer out.Close()
		if !internal.DumpTokens(source, out, printer) {
			os.Exit(1)
		}
		return
	}

	if *printAst {
		if !internal.PrintTree(source, printer) {
			os.Exit(1)
		}
		return
	}

	rt := internal.NewRuntime(internal.Options{
		Printer: printer,
		Logger:  logger,
		Config:  cfg,
	})

	if absPath == "" {
		repl(rt)
		return
	}

	if !rt.Run(absPath, source) {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}
	return logger, nil
}

func repl(rt *internal.Runtime) {
	defer rt.Close()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		code, ok := readStatement(ln)
		if !ok {
			fmt.Println()
			return
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if value, ok := rt.Eval(code); ok && value != "" {
			fmt.Println(value)
		}
	}
}

// readStatement reads lines until every group and block is closed
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := "> "
		if b.Len() > 0 {
			prompt = ". "
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !internal.Incomplete(b.String()) {
			return b.String(), true
		}
	}
}
