// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Command elctl evaluates, renders and checks expressions from the command
// line.
//
//	elctl [flags] eval 'order.total * 1.2'
//	elctl [flags] render 'Hello ${user.name}'
//	elctl [flags] check 'a + b' 'T(System).gc()'
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/toolhive-el/convert"
	"github.com/stacklok/toolhive-el/el"
	"github.com/stacklok/toolhive-el/env"
	"github.com/stacklok/toolhive-el/logger"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, &env.OSReader{}))
}

// setFlags collects repeated -set name=value flags.
type setFlags map[string]any

func (s setFlags) String() string {
	return fmt.Sprint(map[string]any(s))
}

func (s setFlags) Set(v string) error {
	k, raw, ok := strings.Cut(v, "=")
	if !ok || k == "" {
		return fmt.Errorf("expected name=value, got %q", v)
	}
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", k, err)
	}
	s[k] = value
	return nil
}

type options struct {
	configPath string
	policy     string
	policyFile string
	varsPath   string
	rootPath   string
	output     string
	strict     bool
	debug      bool
	set        setFlags
}

func run(args []string, stdout, stderr io.Writer, envReader env.Reader) int {
	opts := options{set: setFlags{}}
	fs := flag.NewFlagSet("elctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "configuration file (default: $"+el.ConfigEnvVar+" or XDG config)")
	fs.StringVar(&opts.policy, "policy", "", "built-in policy: default, strict or none")
	fs.StringVar(&opts.policyFile, "policy-file", "", "policy file (YAML or JSON)")
	fs.StringVar(&opts.varsPath, "vars", "", "YAML file of variables")
	fs.StringVar(&opts.rootPath, "root", "", "YAML file used as the root object")
	fs.StringVar(&opts.output, "o", "text", "output format: text or json")
	fs.BoolVar(&opts.strict, "strict", false, "fail on undefined variables")
	fs.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	fs.Var(opts.set, "set", "variable as name=value, repeatable")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: elctl [flags] eval|render|check <expression>...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return exitUsage
	}
	if opts.output != "text" && opts.output != "json" {
		fmt.Fprintf(stderr, "unknown output format %q\n", opts.output)
		return exitUsage
	}

	if err := logger.Initialize(envReader, logger.DebugFlag(opts.debug)); err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return exitError
	}
	defer logger.Sync()

	engine, err := newEngine(opts, envReader)
	if err != nil {
		logger.Errorw("invalid configuration", "error", err)
		return exitError
	}

	command, inputs := fs.Arg(0), fs.Args()[1:]
	if command == "check" {
		return check(engine, inputs, opts.output, stdout)
	}

	root, vars, err := loadData(opts)
	if err != nil {
		logger.Errorw("failed to load data", "error", err)
		return exitError
	}

	var result any
	switch command {
	case "eval":
		result, err = engine.Evaluate(strings.Join(inputs, " "), root, vars)
	case "render":
		result, err = engine.Render(strings.Join(inputs, " "), root, vars)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", command)
		return exitUsage
	}
	if err != nil {
		writeError(stderr, err, opts.output)
		return exitError
	}
	if err := writeResult(stdout, result, opts.output); err != nil {
		logger.Errorw("failed to write result", "error", err)
		return exitError
	}
	return exitOK
}

func newEngine(opts options, envReader env.Reader) (*el.Engine, error) {
	if opts.configPath != "" {
		envReader = env.Chain(env.MapReader{el.ConfigEnvVar: opts.configPath}, envReader)
	}
	cfg, err := el.LoadConfigFromEnv(envReader)
	if err != nil {
		return nil, err
	}
	if opts.policy != "" || opts.policyFile != "" {
		cfg.Policy.Builtin = opts.policy
		cfg.Policy.File = opts.policyFile
	}
	if opts.strict {
		cfg.Strict = true
	}
	logger.Debugw("loaded configuration", "strict", cfg.Strict, "imports", cfg.Imports)

	slogger := slog.New(logr.ToSlogHandler(logger.NewLogr()))
	return el.NewEngineFromConfig(cfg, el.WithLogger(slogger))
}

func loadData(opts options) (any, map[string]any, error) {
	var root any
	if opts.rootPath != "" {
		if err := readYAML(opts.rootPath, &root); err != nil {
			return nil, nil, err
		}
	}

	vars := map[string]any{}
	if opts.varsPath != "" {
		if err := readYAML(opts.varsPath, &vars); err != nil {
			return nil, nil, err
		}
	}
	for k, v := range opts.set {
		vars[k] = v
	}
	return root, vars, nil
}

func readYAML(path string, out any) error {
	// #nosec G304 - reading a user-specified data file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func check(engine *el.Engine, inputs []string, output string, w io.Writer) int {
	code := exitOK
	for _, in := range inputs {
		var err error
		if strings.Contains(in, "${") {
			err = engine.CheckComposite(in)
		} else {
			err = engine.Check(in)
		}
		if err == nil {
			fmt.Fprintf(w, "ok\t%s\n", in)
			continue
		}
		code = exitError
		writeError(w, err, output)
	}
	return code
}

func writeResult(w io.Writer, result any, output string) error {
	if output == "json" {
		data, err := json.Marshal(jsonValue(result))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err := fmt.Fprintln(w, convert.ToString(result))
	return err
}

// jsonValue replaces values encoding/json cannot represent faithfully.
func jsonValue(v any) any {
	switch x := v.(type) {
	case convert.Char:
		return string(x)
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = jsonValue(e)
		}
		return m
	case []any:
		s := make([]any, len(x))
		for i, e := range x {
			s[i] = jsonValue(e)
		}
		return s
	}
	return v
}

func writeError(w io.Writer, err error, output string) {
	details, ok := el.Details(err)
	if !ok {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	if output == "json" {
		fmt.Fprintln(w, details.AsJSON())
		return
	}
	for _, inst := range details.Errors {
		fmt.Fprintf(w, "%s error at %d:%d: %s\n", details.Kind, inst.Line, inst.Col, inst.Msg)
	}
	fmt.Fprintf(w, "  %s\n", details.Source)
}
