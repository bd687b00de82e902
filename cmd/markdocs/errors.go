package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for command handling.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrNoInput     = errors.New("no input file specified")
	ErrNotMarkdown = errors.New("input is not a markdown file")
	ErrWriteOutput = errors.New("failed to write output")
)

// usageError marks a flag parsing error as a usage error. The help
// request is passed through untouched.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
