package cmd

import (
	"github.com/huanfeng/rustoredl/pkg/client"
	"github.com/spf13/cobra"
)

var searchLinkOnly bool

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search packages on RuStore by application name",
	Long: `Prompt for a query and page through matching applications five at a time.
Enter the number of an entry to download it (or print its links with --link-only);
anything else shows the next page. Press Ctrl+D or Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		service := newService(cmd, appConfig.Download.OutputDir, appConfig.Download.Verify)
		prompter := client.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())

		_, err := service.Search(cmd.Context(), prompter, searchLinkOnly)
		return report(cmd, err)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolVarP(&searchLinkOnly, "link-only", "l", false, "Get direct download link, skip downloading")
}
