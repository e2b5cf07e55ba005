package cmd

import (
	"github.com/huanfeng/rustoredl/internal/i18n"
	"github.com/spf13/cobra"
)

// applyCommandLocalization updates command and flag descriptions after i18n is initialized.
func applyCommandLocalization() {
	rootCmd.Short = i18n.T("cmd.root.short")
	rootCmd.Long = i18n.T("cmd.root.long")

	persistent := map[string]string{
		"config":     "flags.config",
		"lang":       "flags.lang",
		"log-level":  "flags.logLevel",
		"log-format": "flags.logFormat",
	}
	for name, id := range persistent {
		if flag := rootCmd.PersistentFlags().Lookup(name); flag != nil {
			flag.Usage = i18n.T(id)
		}
	}

	searchCmd.Short = i18n.T("cmd.search.short")
	downloadCmd.Short = i18n.T("cmd.download.short")
	getlinkCmd.Short = i18n.T("cmd.getlink.short")
	infoCmd.Short = i18n.T("cmd.info.short")
	inspectCmd.Short = i18n.T("cmd.inspect.short")
	configCmd.Short = i18n.T("cmd.config.short")
	configInitCmd.Short = i18n.T("cmd.config.init.short")
	configShowCmd.Short = i18n.T("cmd.config.show.short")
	versionCmd.Short = i18n.T("cmd.version.short")
	doctorCmd.Short = i18n.T("cmd.doctor.short")

	setFlagUsage(searchCmd, "link-only", "flags.linkOnly")
	setFlagUsage(downloadCmd, "package-name", "flags.packageName")
	setFlagUsage(downloadCmd, "output-dir", "flags.outputDir")
	setFlagUsage(downloadCmd, "no-verify", "flags.noVerify")
	setFlagUsage(getlinkCmd, "package-name", "flags.packageName")
	setFlagUsage(infoCmd, "package-name", "flags.packageName")
	setFlagUsage(infoCmd, "icon", "flags.icon")
	setFlagUsage(inspectCmd, "icon", "flags.icon")
	setFlagUsage(inspectCmd, "format", "flags.format")
	setFlagUsage(configInitCmd, "force", "flags.force")
	setFlagUsage(doctorCmd, "output-dir", "flags.outputDir")
}

func setFlagUsage(cmd *cobra.Command, name, id string) {
	if flag := cmd.Flags().Lookup(name); flag != nil {
		flag.Usage = i18n.T(id)
	}
}
