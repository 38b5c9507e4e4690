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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CRMBridge/services/options"
)

func newAttributesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attributes",
		Short: "List the resolvable form attributes",
		RunE: func(_ *cobra.Command, _ []string) error {
			if jsonOutput {
				names := make([]string, 0, len(options.Attributes()))
				for _, attr := range options.Attributes() {
					names = append(names, string(attr))
				}
				return printJSON(names)
			}
			for _, attr := range options.Attributes() {
				fmt.Printf("%-20s %s\n", attr, attr.DisplayName())
			}
			return nil
		},
	}
}
