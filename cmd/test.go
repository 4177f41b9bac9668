package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/catalog"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to TMDB",
	Long:  `Test the connection to the TMDB API and display the image configuration.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Testing connection to TMDB at %s...\n", cfg.TMDB.URL)
	if err := tmdbClient.TestConnection(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	fmt.Fprintln(out, "✓ Connection successful!")

	imageCfg, err := resolver.EnsureLoaded(ctx)
	if err != nil {
		return fmt.Errorf("failed to get image configuration: %w", err)
	}

	fmt.Fprintf(out, "\nImage Configuration:\n")
	fmt.Fprintf(out, "- Base URL: %s\n", imageCfg.BaseURL)
	fmt.Fprintf(out, "- Secure base URL: %s\n", imageCfg.SecureBaseURL)
	fmt.Fprintf(out, "- Poster sizes: %s\n", strings.Join(imageCfg.PosterSizes, ", "))
	fmt.Fprintf(out, "- Example poster: %s\n", resolver.ItemURL(catalog.Item{PosterPath: "/example.jpg"}))

	fmt.Fprintf(out, "\nCatalog:\n")
	fmt.Fprintf(out, "- List: %s\n", tmdbClient.List())
	fmt.Fprintf(out, "- Language: %s\n", cfg.TMDB.Language)
	fmt.Fprintf(out, "- Secure images: %s\n", boolToStatus(cfg.Images.Secure))

	return nil
}

func boolToStatus(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}
