// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docsgen writes a markdown page per subcommand plus a YAML manifest of the
// command tree into the directory given as its only argument.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/sheetwatch/sheetwatch/internal/command"
)

type Manifest struct {
	Name        string       `yaml:"name"`
	Version     string       `yaml:"version"`
	Subcommands []Subcommand `yaml:"subcommands"`
}

type Subcommand struct {
	ID          string `yaml:"id"`
	Short       string `yaml:"short"`
	Usage       string `yaml:"usage"`
	Flags       []Flag `yaml:"flags"`
	Date        string `yaml:"-"`
	Version     string `yaml:"-"`
	Application string `yaml:"-"`
}

type Flag struct {
	ID          string   `yaml:"id"`
	Syntax      string   `yaml:"syntax"`
	Description string   `yaml:"description"`
	Default     string   `yaml:"default,omitempty"`
	Env         []string `yaml:"env,omitempty"`
}

const pageTemplate = `# {{.Application}} {{.ID}}

{{.Short}}

` + "```" + `
{{.Usage}}
` + "```" + `

## Flags

| flag | description | default | env |
|---|---|---|---|
{{- range .Flags}}
| ` + "`{{.Syntax}}`" + ` | {{.Description}} | {{.Default}} | {{join .Env ", "}} |
{{- end}}

_Generated {{.Date}} for version {{.Version}}._
`

var page = template.Must(template.New("page").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(pageTemplate))

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DIR")
		os.Exit(1)
	}
	if err := generate(os.Args[1], getVersion(), time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generate(dir, version string, now time.Time) error {
	app, err := command.InitApp(context.Background(), []string{"sheetwatch"})
	if err != nil {
		return err
	}

	manifest := describe(app, version)
	if err := os.MkdirAll(filepath.Join(dir, "commands"), 0o755); err != nil {
		return err
	}

	for _, sub := range manifest.Subcommands {
		sub.Date = now.Format("January 2, 2006")
		sub.Version = version
		sub.Application = manifest.Name

		path := filepath.Join(dir, "commands", sub.ID+".md")
		fmt.Println("Generating", path)
		if err := writeFile(path, func(w io.Writer) error { return page.Execute(w, sub) }); err != nil {
			return err
		}
	}

	return writeFile(filepath.Join(dir, manifest.Name+".yaml"), func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(manifest)
	})
}

// describe flattens the command tree into a manifest.
func describe(app *cli.Command, version string) Manifest {
	m := Manifest{Name: app.Name, Version: version}
	for _, cmd := range app.Commands {
		if cmd.Hidden {
			continue
		}
		sub := Subcommand{ID: cmd.Name, Short: cmd.Usage, Usage: cmd.UsageText}
		for _, f := range cmd.Flags {
			sub.Flags = append(sub.Flags, describeFlag(f))
		}
		sort.Slice(sub.Flags, func(i, j int) bool { return sub.Flags[i].ID < sub.Flags[j].ID })
		m.Subcommands = append(m.Subcommands, sub)
	}
	return m
}

func describeFlag(f cli.Flag) Flag {
	names := f.Names()
	out := Flag{ID: names[0]}

	var syntax []string
	for _, n := range names {
		if len(n) == 1 {
			syntax = append(syntax, "-"+n)
		} else {
			syntax = append(syntax, "--"+n)
		}
	}
	out.Syntax = strings.Join(syntax, ", ")

	if df, ok := f.(cli.DocGenerationFlag); ok {
		out.Description = df.GetUsage()
		if df.TakesValue() {
			out.Syntax += " VALUE"
			out.Default = df.GetDefaultText()
		}
		out.Env = df.GetEnvVars()
	}
	return out
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
