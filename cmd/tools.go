package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Rorical/CosmicDialog/internal/app"
	"github.com/Rorical/CosmicDialog/internal/core"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the simulated tools",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := core.NewChatService(app.ServiceOptions(cfg, logger), nil)
		defer service.Stop()

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("TOOL", "DESCRIPTION")
		for _, tool := range service.ListTools() {
			t.Row(tool.Name(), tool.Description())
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
