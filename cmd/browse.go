package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/tui"
)

var logFile string

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse movies interactively",
	Long: `Open an interactive list of the configured movie list. More pages load
as you scroll, r refreshes, enter shows details and o opens the movie page in
your browser.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of discarding them")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	list := catalog.NewList(tmdbClient, resolver, logger)
	detail := catalog.NewDetail(tmdbClient, resolver, logger)

	model := tui.New(ctx, list, detail, tui.Options{
		Title:             tmdbClient.List(),
		WebURL:            cfg.TMDB.WebURL,
		PrefetchThreshold: cfg.Browse.PrefetchThreshold,
		Formatter:         formatter,
	})
	defer model.Close()

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
