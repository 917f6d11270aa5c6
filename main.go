// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sheetwatch/sheetwatch/internal/command"
	"github.com/sheetwatch/sheetwatch/internal/config"
	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/log"
	"github.com/sheetwatch/sheetwatch/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// loadDotEnv reads .env from the working directory. Variables already in the
// environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("no .env file loaded")
			return
		}
		log.Warnf("failed to load .env: %v", err)
	}
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand makes run the default subcommand, so a bare
// "sheetwatch" or "sheetwatch --dry-run" does the daily job.
func handleNakedCommand(args []string) []string {
	if len(args) == 0 {
		return args
	}
	if len(args) == 1 {
		return append(args, "run")
	}
	if a := args[1]; strings.HasPrefix(a, "-") && a != "--help" && a != "-h" {
		return append([]string{args[0], "run"}, args[1:]...)
	}
	return args
}

// processSetOnly expands the first @name argument with the flag list stored
// under "<command>.<name>" in the config file. Without an @name, the
// "<command>.defaults" list is inserted right after the command.
func processSetOnly(args []string) []string {
	if len(args) < 2 || args[1] == "completion" {
		return args
	}

	set, at := "defaults", 2
	for i, a := range args[2:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			set, at = a[1:], i+2
			args = append(args[:at:at], args[at+1:]...)
			break
		}
	}

	entries, err := config.GetStringSlice(args[1] + "." + set)
	if err != nil {
		if set != "defaults" {
			log.Warnf("flag set %q not found for %s", set, args[1])
		}
		return args
	}
	return injectConfigSet(args, entries, at)
}

// injectConfigSet splits every entry on whitespace and inserts the fields at
// idx.
func injectConfigSet(args []string, entries []string, idx int) []string {
	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}
	if len(expanded) == 0 {
		return args
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:idx]...)
	out = append(out, expanded...)
	return append(out, args[idx:]...)
}

// deduplicateFlags keeps only the last occurrence of each long or short flag
// so values from a flag set can be overridden on the command line. A flag
// followed by a non-flag argument is treated as flag plus value.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type token struct {
		name  string
		parts []string
	}

	var tokens []token
	for i := 2; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") || a == "-" {
			tokens = append(tokens, token{parts: []string{a}})
			continue
		}
		name, _, hasValue := strings.Cut(a, "=")
		parts := []string{a}
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") && isValueFlag(name) {
			parts = append(parts, args[i+1])
			i++
		}
		tokens = append(tokens, token{name: name, parts: parts})
	}

	last := map[string]int{}
	for i, tk := range tokens {
		if tk.name != "" {
			last[tk.name] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, tk := range tokens {
		if tk.name != "" && last[tk.name] != i {
			continue
		}
		out = append(out, tk.parts...)
	}
	return out
}

// boolFlags lists the switches that never take a separate value.
var boolFlags = map[string]bool{
	"--dry-run":    true,
	"--path-style": true,
	"--color":      true,
	"-c":           true,
	"--help":       true,
	"-h":           true,
}

func isValueFlag(name string) bool {
	return !boolFlags[name]
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: kind=%s err=%v", failure.Kind(err), err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()
	loadDotEnv()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip set processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = deduplicateFlags(processSetOnly(args))
		log.Debugf("args after set processing: args=%v", args)
	}

	return initAndRunApp(args)
}
