package cmd

import (
	"os"
	"time"

	apperrors "github.com/huanfeng/rustoredl/internal/errors"
	"github.com/huanfeng/rustoredl/internal/i18n"
	"github.com/huanfeng/rustoredl/pkg/apk"
	"github.com/huanfeng/rustoredl/pkg/client"
	"github.com/huanfeng/rustoredl/pkg/store"
	"github.com/huanfeng/rustoredl/pkg/utils"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// newGateway builds a backend gateway with a fresh device identity
func newGateway() *store.Gateway {
	cfg := appConfig
	identity := store.NewIdentity(cfg.Device, store.NewRandomSource())
	logger := utils.GetGlobalLogger()
	logger.Debug("device id %s", identity.DeviceID())

	return store.NewGateway(identity, store.Options{
		BaseURL:    cfg.Store.BaseURL,
		Debug:      cfg.Store.Debug,
		Timeout:    time.Duration(cfg.Store.Timeout) * time.Second,
		Logger:     logger,
		DumpOutput: os.Stderr,
	})
}

// newService wires the gateway, downloader and verifier for one command
func newService(cmd *cobra.Command, outputDir string, verify bool) *client.Service {
	cfg := appConfig

	showProgress := cfg.Download.ShowProgress && isatty.IsTerminal(os.Stderr.Fd())
	progress := utils.NewProgressBar(cmd.ErrOrStderr(), showProgress)

	opts := client.ServiceOptions{
		OutputDir: outputDir,
		Logger:    utils.GetGlobalLogger(),
	}
	if verify {
		opts.Verifier = apk.NewManifestReader()
	}

	return client.NewService(newGateway(), client.NewDownloader(nil, progress), cmd.OutOrStdout(), opts)
}

// report turns an operation error into a one-line message and an exit status
func report(cmd *cobra.Command, err error) error {
	reporter := apperrors.NewReporter(cmd.OutOrStdout(), utils.GetGlobalLogger())

	switch reporter.Report(err) {
	case apperrors.OutcomeOK:
		return nil
	case apperrors.OutcomeReported:
		return &exitError{code: 1}
	case apperrors.OutcomeCancelled:
		cmd.PrintErrln(i18n.T("error.cancelled"))
		return &exitError{code: 130}
	default:
		return err
	}
}
