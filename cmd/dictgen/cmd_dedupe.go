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
	"errors"
	"fmt"
	"strings"

	"github.com/AleutianAI/dictgen/pkg/ux"
	"github.com/AleutianAI/dictgen/services/dictgen/dedupe"
	"github.com/spf13/cobra"
)

func runDedupe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	input := args[0]
	var out string
	err = ux.WithSpinner("Removing duplicates from "+input, func() error {
		var err error
		out, err = dedupe.New(dedupe.WithLogger(a.log)).Run(cmd.Context(), input)
		return err
	})
	if err != nil {
		var cmdErr *dedupe.CommandError
		if errors.As(err, &cmdErr) {
			ux.WarningBox("Run it manually", strings.Join(dedupe.ManualCommands(input), "\n"))
		}
		return err
	}
	ux.Info(fmt.Sprintf("%s %s", ux.IconArrow.Render(), out))
	return nil
}
