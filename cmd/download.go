package cmd

import (
	"github.com/spf13/cobra"
)

var (
	downloadPackage   string
	downloadOutputDir string
	downloadNoVerify  bool
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download apk by package name immediately",
	Long: `Download every installable file of a package. Files are named
<package>.<n>.apk after their position in the store's link list; split bundles
produce one file per split.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir := appConfig.Download.OutputDir
		if cmd.Flags().Changed("output-dir") {
			outputDir = downloadOutputDir
		}
		verify := appConfig.Download.Verify && !downloadNoVerify

		service := newService(cmd, outputDir, verify)
		return report(cmd, service.DownloadPackage(cmd.Context(), downloadPackage))
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadPackage, "package-name", "p", "", "Package name to download.")
	downloadCmd.Flags().StringVarP(&downloadOutputDir, "output-dir", "o", ".", "Directory to save downloaded files to")
	downloadCmd.Flags().BoolVar(&downloadNoVerify, "no-verify", false, "Skip manifest verification of downloaded files")
	downloadCmd.MarkFlagRequired("package-name")
}
