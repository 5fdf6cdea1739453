package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/sproutlang/sprout/compiler"
	"github.com/sproutlang/sprout/compiler/core"
)

func main() {
	var (
		output       string
		prefix       string
		debug        bool
		keepComments bool
	)

	rootCmd := &cobra.Command{
		Use:   "sprout [template]",
		Short: "Compile sprout templates to Go render functions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compileTemplate(args[0], output, prefix, debug, keepComments)
		},
	}

	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Write generated code to this file instead of stdout")
	rootCmd.Flags().StringVar(&prefix, "prefix", "s", "Directive attribute prefix")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Prepend a header with the template path and compile time")
	rootCmd.Flags().BoolVar(&keepComments, "keep-comments", false, "Pass HTML comments through to the output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func compileTemplate(path, output, prefix string, debug, keepComments bool) error {
	source, displayPath, err := readTemplate(path)
	if err != nil {
		return err
	}

	cfg := core.DefaultConfig()
	cfg.Debug = debug
	cfg.KeepComments = keepComments
	if prefix != "" {
		cfg.Prefix = prefix
		cfg.FragmentTag = prefix + ":fragment"
	}

	src, err := compiler.New(cfg).Compile(displayPath, source, nil)
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Print(src)
		return nil
	}
	// Atomic write so a half-compiled artifact never replaces a good one.
	if err := atomic.WriteFile(output, strings.NewReader(src)); err != nil {
		return fmt.Errorf("error writing %s: %w", output, err)
	}
	return nil
}

// readTemplate reads the template from a file, or from stdin when path is "-".
func readTemplate(path string) (source, displayPath string, err error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("error reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("error opening file %s: %w", path, err)
	}
	return string(data), path, nil
}
