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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitCancelled = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rootCmd.SetArgs(expandMultiValueFlags(os.Args[1:]))
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, dgerr.ErrCancelled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps an error kind to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, dgerr.ErrCancelled):
		return exitCancelled
	case errors.Is(err, dgerr.ErrInvalidInput), errors.Is(err, dgerr.ErrInvalidConfig):
		return exitUsage
	default:
		return exitFailure
	}
}
