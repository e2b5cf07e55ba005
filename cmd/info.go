package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/huanfeng/rustoredl/internal/i18n"
	"github.com/huanfeng/rustoredl/pkg/apk"
	"github.com/huanfeng/rustoredl/pkg/client"
	"github.com/huanfeng/rustoredl/pkg/models"
	"github.com/spf13/cobra"
)

var (
	infoPackage  string
	infoIconPath string
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show store metadata for a package",
	Long:  `Show what RuStore reports about a package and optionally save its icon as a PNG thumbnail.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := newGateway().LookupPackage(cmd.Context(), infoPackage)
		if err != nil {
			return report(cmd, err)
		}

		printRecord(cmd, record)

		if infoIconPath == "" {
			return nil
		}
		if record.IconURL == "" {
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("info.noIcon", map[string]interface{}{"Package": record.PackageName}))
			return nil
		}

		thumb, err := apk.NewIconProcessor(nil).FetchIcon(cmd.Context(), record.IconURL)
		if err != nil {
			return report(cmd, err)
		}
		if err := writeFile(infoIconPath, thumb); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T("info.iconSaved", map[string]interface{}{"Path": infoIconPath}))
		return nil
	},
}

func printRecord(cmd *cobra.Command, record *models.ApplicationRecord) {
	out := cmd.OutOrStdout()
	label := lipgloss.NewRenderer(out).NewStyle().Bold(true)

	row := func(key, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(out, "%s %s\n", label.Render(i18n.T(key)+":"), value)
	}

	row("info.name", record.AppName)
	row("info.package", record.PackageName)
	row("info.appId", record.AppID.String())
	row("info.version", fmt.Sprintf("%s (%d)", record.VersionName, record.VersionCode))
	row("info.company", record.CompanyName)
	if !record.UpdatedAt.IsZero() {
		row("info.updated", record.UpdatedAt.Format(client.UpdatedLayout))
	}
	row("info.description", record.ShortDescription)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVarP(&infoPackage, "package-name", "p", "", "Package name to download.")
	infoCmd.Flags().StringVar(&infoIconPath, "icon", "", "Save the application icon as a PNG thumbnail to this path")
	infoCmd.MarkFlagRequired("package-name")
}
