package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zyl/internal/analyzer"
	"zyl/internal/diag"
	"zyl/internal/parser"
	"zyl/internal/printer"
	"zyl/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.zyl>",
	Short: "Parse and validate a zyl file, printing the canonical form",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().Bool("check-only", false, "validate without printing")
}

func runParse(cmd *cobra.Command, args []string) error {
	checkOnly, err := cmd.Flags().GetBool("check-only")
	if err != nil {
		return fmt.Errorf("failed to get check-only flag: %w", err)
	}
	session, err := loadSession(cmd, "", 0)
	if err != nil {
		return err
	}

	fileSet := source.NewFileSet()
	id, err := fileSet.Load(args[0])
	if err != nil {
		return err
	}
	bag := diag.NewBag(100)
	block := parser.ParseFile(fileSet.Get(id), bag)
	if block != nil {
		analyzer.Analyze(block, session.Dialect, bag)
	}
	reportDiagnostics(fileSet, bag)
	if block == nil || bag.HasErrors() {
		return fmt.Errorf("%s: invalid input", args[0])
	}
	if !checkOnly {
		return printer.Print(os.Stdout, block)
	}
	return nil
}
