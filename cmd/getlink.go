package cmd

import (
	"github.com/spf13/cobra"
)

var getlinkPackage string

var getlinkCmd = &cobra.Command{
	Use:   "getlink",
	Short: "Get direct download link for apk by package name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		service := newService(cmd, appConfig.Download.OutputDir, false)
		return report(cmd, service.PrintLinks(cmd.Context(), getlinkPackage))
	},
}

func init() {
	rootCmd.AddCommand(getlinkCmd)

	getlinkCmd.Flags().StringVarP(&getlinkPackage, "package-name", "p", "", "Package name to download.")
	getlinkCmd.MarkFlagRequired("package-name")
}
