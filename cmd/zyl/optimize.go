package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zyl/internal/driver"
	"zyl/internal/opt"
	"zyl/internal/printer"
	"zyl/internal/source"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [flags] <file.zyl|directory>",
	Short: "Run optimizer passes over a file or every file in a directory",
	Long: `Apply a sequence of optimizer passes, selected by their one-letter keys,
left to right. Run "zyl optimize --list" for the catalog.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().String("passes", "", "pass key sequence (default from config)")
	optimizeCmd.Flags().String("dialect", "", "builtin dialect version (v1|v2)")
	optimizeCmd.Flags().Int("stack-limit", 0, "stack pressure threshold for the remat pass")
	optimizeCmd.Flags().Int("jobs", 0, "parallel workers for directory mode (0 = GOMAXPROCS)")
	optimizeCmd.Flags().Bool("no-cache", false, "skip the on-disk result cache")
	optimizeCmd.Flags().Bool("list", false, "list available passes and exit")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}
	if list {
		for _, p := range opt.Catalog() {
			fmt.Printf("  %s  %-6s %s\n", p.Key, p.Name, p.Desc)
		}
		return nil
	}
	if len(args) != 1 {
		return errors.New("expected a file or directory argument")
	}

	passes, err := cmd.Flags().GetString("passes")
	if err != nil {
		return fmt.Errorf("failed to get passes flag: %w", err)
	}
	dialectVersion, err := cmd.Flags().GetString("dialect")
	if err != nil {
		return fmt.Errorf("failed to get dialect flag: %w", err)
	}
	stackLimit, err := cmd.Flags().GetInt("stack-limit")
	if err != nil {
		return fmt.Errorf("failed to get stack-limit flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	session, err := loadSession(cmd, dialectVersion, stackLimit)
	if err != nil {
		return err
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return err
	}
	if info.IsDir() {
		return optimizeDirectory(cmd, session, args[0], passes, jobs, noCache)
	}
	return optimizeSingle(session, args[0], passes)
}

func optimizeSingle(session *driver.Session, path, passes string) error {
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return err
	}
	prog, bag, err := session.Prepare(fileSet, id)
	reportDiagnostics(fileSet, bag)
	if err != nil {
		return err
	}
	block, err := session.Optimize(prog, passes)
	if err != nil {
		return err
	}
	return printer.Print(os.Stdout, block)
}

func optimizeDirectory(cmd *cobra.Command, session *driver.Session, dir, passes string, jobs int, noCache bool) error {
	var cache *driver.Cache
	if !noCache {
		var err error
		cache, err = driver.OpenCache("zyl")
		if err != nil {
			// A broken cache location degrades to uncached operation.
			fmt.Fprintf(os.Stderr, "warning: cache unavailable: %v\n", err)
		}
	}

	results, err := session.OptimizeDir(cmd.Context(), dir, passes, jobs, cache)
	if err != nil {
		return err
	}
	failed := 0
	for _, res := range results {
		status := "ok"
		if res.Cached {
			status = "cached"
		}
		if res.Err != nil {
			status = "failed: " + res.Err.Error()
			failed++
		}
		fmt.Printf("%-40s %s\n", res.Path, status)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}
