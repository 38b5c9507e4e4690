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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/CRMBridge/services/options"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	optionStyle   = lipgloss.NewStyle().PaddingLeft(2)
	advisoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func newResolveCmd() *cobra.Command {
	var (
		all     bool
		limit   int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "resolve [attribute]",
		Short: "Resolve dropdown options for one or all attributes",
		Long: `Resolve runs the fallback strategy chain for an attribute and prints
the resulting dropdown options. With no attribute argument on an
interactive terminal, a picker is shown; --all resolves every attribute
concurrently.

Known attributes: ` + strings.Join(attributeNames(), ", "),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if all {
				return resolveAll(ctx, engine, limit)
			}

			attrName := ""
			if len(args) == 1 {
				attrName = args[0]
			} else {
				attrName, err = pickAttribute()
				if err != nil {
					return err
				}
			}

			attr, err := options.ParseAttribute(attrName)
			if err != nil {
				return fmt.Errorf("%w (known: %s)", err, strings.Join(attributeNames(), ", "))
			}

			result := engine.Resolve(ctx, attr, options.Query{Limit: limit})
			return printResult(attr, result)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Resolve every attribute concurrently")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max options per backend query (0 = engine default)")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Overall resolution deadline")
	return cmd
}

// pickAttribute shows an interactive attribute picker. On a non-terminal
// stdin (pipes, CI) there is nothing to ask, so the attribute argument is
// required instead.
func pickAttribute() (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", fmt.Errorf("attribute argument required in non-interactive mode (known: %s)",
			strings.Join(attributeNames(), ", "))
	}

	opts := make([]huh.Option[string], 0, len(options.Attributes()))
	for _, attr := range options.Attributes() {
		opts = append(opts, huh.NewOption(attr.DisplayName(), string(attr)))
	}

	var picked string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Which attribute?").
			Options(opts...).
			Value(&picked),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return picked, nil
}

// resolveAll resolves every attribute concurrently and prints them in the
// engine's stable attribute order.
func resolveAll(ctx context.Context, engine *options.Engine, limit int) error {
	attrs := options.Attributes()
	results := make(map[options.Attribute]options.Result, len(attrs))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for _, attr := range attrs {
		g.Go(func() error {
			// Resolve never returns an error; failures live in the Result.
			result := engine.Resolve(gCtx, attr, options.Query{Limit: limit})
			mu.Lock()
			results[attr] = result
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if jsonOutput {
		ordered := make(map[string]options.Result, len(results))
		for attr, result := range results {
			ordered[string(attr)] = result
		}
		return printJSON(ordered)
	}

	for _, attr := range attrs {
		if err := printResult(attr, results[attr]); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

// printResult renders one resolution outcome. Failed resolutions print their
// user-facing message and do not fail the command: an empty dropdown state
// is a valid answer, not a CLI error.
func printResult(attr options.Attribute, result options.Result) error {
	if jsonOutput {
		return printJSON(map[string]options.Result{string(attr): result})
	}

	styled := isatty.IsTerminal(os.Stdout.Fd())
	header := fmt.Sprintf("%s (%d)", attr.DisplayName(), len(result.Options))

	if !result.OK {
		if styled {
			fmt.Println(errorStyle.Render(result.Message))
		} else {
			fmt.Println(result.Message)
		}
		return nil
	}

	if styled {
		fmt.Println(headerStyle.Render(header))
		for _, opt := range result.Options {
			line := opt.Label
			if opt.Value != opt.Label {
				line = fmt.Sprintf("%s  [%s]", opt.Label, opt.Value)
			}
			fmt.Println(optionStyle.Render(line))
		}
		if result.Message != "" {
			fmt.Println(advisoryStyle.Render(result.Message))
		}
		return nil
	}

	fmt.Println(header)
	for _, opt := range result.Options {
		fmt.Printf("  %s\n", opt.Label)
	}
	if result.Message != "" {
		fmt.Println(result.Message)
	}
	return nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// attributeNames returns the wire names in stable, sorted order for help
// text and error hints.
func attributeNames() []string {
	names := make([]string, 0, len(options.Attributes()))
	for _, attr := range options.Attributes() {
		names = append(names, string(attr))
	}
	sort.Strings(names)
	return names
}
