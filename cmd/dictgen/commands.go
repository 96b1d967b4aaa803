// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// mutationFlags mirrors the per-keyword options accepted on the command line.
// The same values apply to every -k keyword.
type mutationFlags struct {
	Keywords     []string
	Numbers      bool
	Years        string
	Digits       int
	SpecialChars []string
	Limit        int
	CaseMix      bool
}

// --- Global Command Variables ---
var (
	mflags mutationFlags

	outputPath   string
	jobsFile     string
	interactive  bool
	processes    int
	deduplicate  bool
	appendOutput bool
	verbose      bool

	configPath       string
	logDir           string
	logJSON          bool
	personalityLevel string // full, standard, minimal, machine
	metricsAddr      string
	traceExporter    string

	rootCmd = &cobra.Command{
		Use:   "dictgen [keyword...]",
		Short: "Generate password wordlists from base keywords",
		Long: `dictgen expands base keywords into password candidates by applying
case variants, numeric decorations and special-character decorations, and
writes the result to a single wordlist file using all CPU cores.

Run without keywords (or with -i) to start the interactive wizard.`,
		Example: `  dictgen -k admin root -n -y 1990-2025 -s '!' '@' '#' -o out.txt
  dictgen -k acme -n -d 3 -c -l 100000 -x
  dictgen --jobs jobs.yaml -p 4`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate, // Defined in cmd_generate.go
	}

	// --- Post-processing ---
	dedupeCmd = &cobra.Command{
		Use:   "dedupe <file>",
		Short: "Write a sorted, duplicate-free copy of a wordlist next to it",
		Args:  cobra.ExactArgs(1),
		RunE:  runDedupe, // Defined in cmd_dedupe.go
	}

	// --- Planning ---
	estimateCmd = &cobra.Command{
		Use:   "estimate [keyword...]",
		Short: "Print how many lines a run would write without generating anything",
		Args:  cobra.ArbitraryArgs,
		RunE:  runEstimate, // Defined in cmd_estimate.go
	}

	// --- Configuration ---
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage the dictgen configuration file",
	}
	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit, // Defined in cmd_config.go
	}
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow, // Defined in cmd_config.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the dictgen version",
		Args:  cobra.NoArgs,
		Run:   runVersion, // Defined in cmd_config.go
	}
)

// multiValueFlags take every following token up to the next flag, so
// "-s ! @ #" is three special characters rather than one plus two keywords.
var multiValueFlags = map[string]bool{
	"-k": true, "--keywords": true,
	"-s": true, "--special-chars": true,
}

// expandMultiValueFlags rewrites "-s ! @" as "-s ! -s @" so pflag sees one
// value per occurrence. The first value is always taken, like pflag does;
// later values stop at the next token that looks like a flag, or at "--".
func expandMultiValueFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		out = append(out, arg)
		if !multiValueFlags[arg] || i+1 >= len(args) {
			continue
		}
		i++
		out = append(out, args[i])
		for i+1 < len(args) && !isFlagToken(args[i+1]) {
			i++
			out = append(out, arg, args[i])
		}
	}
	return out
}

func isFlagToken(s string) bool {
	return len(s) > 1 && s[0] == '-'
}

// addMutationFlags binds the keyword and mutation flags on cmd.
func addMutationFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayVarP(&mflags.Keywords, "keywords", "k", nil,
		"Base keywords, space or comma separated: -k admin root")
	f.BoolVarP(&mflags.Numbers, "numbers", "n", false, "Add numeric decorations (years or digits)")
	f.StringVarP(&mflags.Years, "years", "y", "", "Year range for --numbers, e.g. 1990-2025. Cannot be combined with --digits")
	f.IntVarP(&mflags.Digits, "digits", "d", 0, "Zero-padded digit width for --numbers, e.g. 3 for 000-999. Cannot be combined with --years")
	f.StringArrayVarP(&mflags.SpecialChars, "special-chars", "s", nil, "Special characters or tokens, space or comma separated: -s ! @ '#'")
	f.IntVarP(&mflags.Limit, "limit", "l", 0, "Maximum lines per keyword (0 = unlimited)")
	f.BoolVarP(&mflags.CaseMix, "case-mix", "c", false, "Generate every upper/lower case combination of each keyword")
	f.StringVar(&jobsFile, "jobs", "", "YAML file with per-keyword settings")
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default $DICTGEN_CONFIG or ~/.dictgen/dictgen.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&logDir, "log-dir", "", "Also write JSON logs to this directory")
	pf.BoolVar(&logJSON, "log-json", false, "Write console logs as JSON")
	pf.StringVar(&personalityLevel, "personality", "",
		"Output style: full, standard, minimal, or machine (scripting)")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9464")
	pf.StringVar(&traceExporter, "trace-exporter", "", "Trace exporter: none, stdout, or otlp")

	addMutationFlags(rootCmd)
	f := rootCmd.Flags()
	f.StringVarP(&outputPath, "output", "o", "", "Output file (default dictionary.txt)")
	f.BoolVarP(&interactive, "interactive", "i", false, "Start the interactive wizard even when other flags are given")
	f.IntVarP(&processes, "processes", "p", 0, "Parallel workers (default: number of CPUs)")
	f.BoolVarP(&deduplicate, "deduplicate", "x", false, "Remove duplicates after generation into <name>_unique<ext>")
	f.BoolVar(&appendOutput, "append", false, "Append to the output file instead of truncating it")

	rootCmd.AddCommand(estimateCmd)
	addMutationFlags(estimateCmd)

	rootCmd.AddCommand(dedupeCmd)

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(versionCmd)
}
