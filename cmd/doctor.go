package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/huanfeng/rustoredl/internal/i18n"
	"github.com/huanfeng/rustoredl/pkg/store"
	"github.com/huanfeng/rustoredl/pkg/system"
	"github.com/huanfeng/rustoredl/pkg/utils"
	"github.com/spf13/cobra"
)

// minFreeSpace is the free space below which the output directory is flagged
const minFreeSpace = 512 * 1024 * 1024

var doctorOutputDir string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check backend reachability and the output directory",
	Long: `The doctor command checks that the RuStore backend answers with the
configured device identity and that the output directory can take downloads.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := utils.GetGlobalLogger()
		out := cmd.OutOrStdout()

		outputDir := appConfig.Download.OutputDir
		if cmd.Flags().Changed("output-dir") {
			outputDir = doctorOutputDir
		}

		fmt.Fprintln(out, i18n.T("doctor.title"))
		fmt.Fprintln(out, strings.Repeat("=", 50))

		var issues int

		fmt.Fprintf(out, "\n%s\n", i18n.T("doctor.backend"))
		identity := store.NewIdentity(appConfig.Device, store.NewRandomSource())
		backend := system.NewNetworkChecker(logger, nil).
			CheckBackend(cmd.Context(), appConfig.Store.BaseURL, identity.Headers())
		if backend.Reachable {
			fmt.Fprintf(out, "   ✅ %s\n", i18n.T("doctor.reachable", map[string]interface{}{
				"URL":     backend.URL,
				"Status":  backend.StatusCode,
				"Latency": backend.Latency.Round(time.Millisecond),
			}))
		} else {
			issues++
			fmt.Fprintf(out, "   ❌ %s\n", i18n.T("doctor.unreachable", map[string]interface{}{
				"URL":   backend.URL,
				"Error": backend.Error,
			}))
			fmt.Fprintf(out, "   💡 %s\n", i18n.T("doctor.hint."+backend.ErrorType))
		}

		fmt.Fprintf(out, "\n%s\n", i18n.T("doctor.outputDir"))
		dir := system.NewResourceChecker(logger).CheckOutputDir(outputDir)
		switch {
		case !dir.Writable:
			issues++
			fmt.Fprintf(out, "   ❌ %s\n", i18n.T("doctor.notWritable", map[string]interface{}{
				"Path":  dir.Path,
				"Error": dir.Error,
			}))
		case !dir.Exists:
			fmt.Fprintf(out, "   ✅ %s\n", i18n.T("doctor.willCreate", map[string]interface{}{"Path": dir.Path}))
		default:
			fmt.Fprintf(out, "   ✅ %s\n", i18n.T("doctor.writable", map[string]interface{}{"Path": dir.Path}))
		}
		if dir.Disk != nil {
			free := utils.FormatBytes(int64(dir.Disk.Available))
			if dir.Disk.Available < minFreeSpace {
				issues++
				fmt.Fprintf(out, "   ⚠️  %s\n", i18n.T("doctor.lowSpace", map[string]interface{}{"Free": free}))
			} else {
				fmt.Fprintf(out, "   ✅ %s\n", i18n.T("doctor.freeSpace", map[string]interface{}{"Free": free}))
			}
		}

		fmt.Fprintln(out, "\n"+strings.Repeat("=", 50))
		if issues == 0 {
			fmt.Fprintln(out, i18n.T("doctor.ok"))
			return nil
		}
		fmt.Fprintln(out, i18n.T("doctor.issues", map[string]interface{}{"Issues": issues}))
		return &exitError{code: 1}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVarP(&doctorOutputDir, "output-dir", "o", ".", "Directory to check")
}
