// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sheetwatch/sheetwatch/internal/meta"
)

const bashCompletionScript = `# bash completion for sheetwatch
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_sheetwatch()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "run diff snapshot completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local report="--max-sample -n --mode"
    local store="--snapshot-driver --snapshot --bucket --region --endpoint --path-style"

    case "$cmd" in
        run)
            local opts="$report $store --url -u --title --timeout --commit --smtp-host --smtp-port --smtp-user --smtp-pass --from --recipients -r --metrics-file --dry-run"
            ;;
        diff)
            local opts="$report --output -o --color -c"
            ;;
        snapshot)
            local opts="$store"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts=""
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text table json yaml" -- "$cur") )
            return 0
            ;;
        --mode)
            COMPREPLY=( $(compgen -W "set multiset" -- "$cur") )
            return 0
            ;;
        --commit)
            COMPREPLY=( $(compgen -W "eager after-delivery" -- "$cur") )
            return 0
            ;;
        --snapshot-driver)
            COMPREPLY=( $(compgen -W "fs s3 memory" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* || "$cmd" != "diff" ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # diff takes two workbook paths
    COMPREPLY=( $(compgen -f -X '!*.xlsx' -- "$cur") $(compgen -d -- "$cur") )
    return 0
}

complete -F _sheetwatch sheetwatch
`

const zshCompletionScript = `#compdef sheetwatch

_sheetwatch() {
  local -a cmds
  cmds=(
    'run:fetch, compare, store and mail once'
    'diff:compare two local spreadsheets'
    'snapshot:show the stored snapshot'
    'completion:generate shell completion script'
  )

  local -a report store
  report=(
  '(-n --max-sample)'{-n,--max-sample}'[rows listed per section]:count'
  '--mode[duplicate row handling]:mode:(set multiset)'
  )
  store=(
  '--snapshot-driver[snapshot storage]:driver:(fs s3 memory)'
  '--snapshot[snapshot path or key]:path:_files'
  '--bucket[s3 bucket]:bucket'
  '--region[s3 region]:region'
  '--endpoint[s3-compatible endpoint]:url'
  '--path-style[path-style s3 addressing]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'sheetwatch commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    run)
      _arguments -C \
        $report \
        $store \
        '(-u --url)'{-u,--url}'[report URL]:url' \
        '--title[report name]:title' \
        '--timeout[network timeout]:duration' \
        '--commit[when to replace the snapshot]:policy:(eager after-delivery)' \
        '--smtp-host[SMTP host]:host' \
        '--smtp-port[SMTP port]:port' \
        '--smtp-user[SMTP username]:user' \
        '--smtp-pass[SMTP password]:password' \
        '--from[sender address]:address' \
        '(-r --recipients)'{-r,--recipients}'[recipient list]:addresses' \
        '--metrics-file[Prometheus textfile]:path:_files' \
        '--dry-run[print instead of saving and sending]'
      ;;
    diff)
      _arguments -C \
        $report \
        '(-o --output)'{-o,--output}'[output format]:format:(text table json yaml)' \
        '(-c --color)'{-c,--color}'[color text output]' \
        '1:old workbook:_files -g "*.xlsx"' \
        '2:new workbook:_files -g "*.xlsx"'
      ;;
    snapshot)
      _arguments -C $store
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _sheetwatch sheetwatch
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := Stdout(cmd)
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: sheetwatch completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "sheetwatch completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
