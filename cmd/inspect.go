package cmd

import (
	"fmt"
	"strings"

	"github.com/huanfeng/rustoredl/internal/i18n"
	"github.com/huanfeng/rustoredl/pkg/apk"
	"github.com/huanfeng/rustoredl/pkg/models"
	"github.com/huanfeng/rustoredl/pkg/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	inspectIconPath string
	inspectFormat   string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.apk>",
	Short: "Show the manifest of a downloaded APK file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := apk.NewManifestReader().ReadManifest(args[0])
		if err != nil {
			return err
		}

		switch inspectFormat {
		case "yaml":
			data, err := yaml.Marshal(info)
			if err != nil {
				return fmt.Errorf("failed to encode manifest: %w", err)
			}
			cmd.OutOrStdout().Write(data)
		case "text":
			printManifest(cmd, info)
		default:
			return fmt.Errorf("unsupported format: %s", inspectFormat)
		}

		if inspectIconPath == "" {
			return nil
		}
		thumb, err := apk.NewIconProcessor(nil).ExtractIcon(args[0])
		if err != nil {
			return err
		}
		if err := writeFile(inspectIconPath, thumb); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T("inspect.iconSaved", map[string]interface{}{"Path": inspectIconPath}))
		return nil
	},
}

func printManifest(cmd *cobra.Command, info *models.ManifestInfo) {
	out := cmd.OutOrStdout()
	row := func(key, value string) {
		fmt.Fprintf(out, "%-14s %s\n", i18n.T(key)+":", value)
	}

	row("inspect.package", info.PackageName)
	row("inspect.name", info.AppName)
	row("inspect.version", fmt.Sprintf("%s (%d)", info.VersionName, info.VersionCode))
	row("inspect.sdk", fmt.Sprintf("min %d, target %d", info.MinSDK, info.TargetSDK))
	row("inspect.size", utils.FormatBytes(info.Size))
	row("inspect.sha256", info.SHA256)
	if len(info.ABIs) > 0 {
		row("inspect.abis", strings.Join(info.ABIs, ", "))
	}
	if len(info.Permissions) > 0 {
		row("inspect.permissions", "")
		for _, perm := range info.Permissions {
			fmt.Fprintf(out, "  %s\n", perm)
		}
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectIconPath, "icon", "", "Save the application icon as a PNG thumbnail to this path")
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format: text, yaml")
}
