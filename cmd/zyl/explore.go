package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"zyl/internal/printer"
	"zyl/internal/source"
	"zyl/internal/ui"
)

var exploreCmd = &cobra.Command{
	Use:   "explore [flags] <file.zyl>",
	Short: "Interactively apply optimizer passes one keystroke at a time",
	Long: `Open a program in the interactive explorer: each pass is bound to a
single key, z undoes, q quits. The final state is printed on exit.`,
	Args: cobra.ExactArgs(1),
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().String("dialect", "", "builtin dialect version (v1|v2)")
	exploreCmd.Flags().Int("stack-limit", 0, "stack pressure threshold for the remat pass")
}

func runExplore(cmd *cobra.Command, args []string) error {
	dialectVersion, err := cmd.Flags().GetString("dialect")
	if err != nil {
		return fmt.Errorf("failed to get dialect flag: %w", err)
	}
	stackLimit, err := cmd.Flags().GetInt("stack-limit")
	if err != nil {
		return fmt.Errorf("failed to get stack-limit flag: %w", err)
	}
	session, err := loadSession(cmd, dialectVersion, stackLimit)
	if err != nil {
		return err
	}

	fileSet := source.NewFileSet()
	id, err := fileSet.Load(args[0])
	if err != nil {
		return err
	}
	prog, bag, err := session.Prepare(fileSet, id)
	reportDiagnostics(fileSet, bag)
	if err != nil {
		return err
	}

	model := ui.NewExplorer(args[0], prog.Ctx, prog.Block)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return err
	}
	explorer, ok := final.(*ui.ExplorerModel)
	if !ok {
		return fmt.Errorf("unexpected model type %T", final)
	}
	return printer.Print(os.Stdout, explorer.Block())
}
