// Package cli holds the command line entry points.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/api/apitype"
	"vincit.fi/picture-triage/backend"
	"vincit.fi/picture-triage/common"
	"vincit.fi/picture-triage/common/logger"
	gui "vincit.fi/picture-triage/ui/giu"
)

func NewRootCommand(version string) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "picture-triage [directory]",
		Short: "Sort pictures into save and delete directories",
		Long: `Picture triage shows the pictures of a directory one at a time.
Each picture is either saved or deleted and the decision can be undone.
Commit moves the pictures into the save and delete subdirectories.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootPath := ""
			if len(args) > 0 {
				rootPath = args[0]
			}
			params, err := opts.params(cmd, rootPath)
			if err != nil {
				return err
			}
			return runGui(cmd.Context(), params)
		},
	}
	opts.register(cmd)

	cmd.AddCommand(scanCmd(opts))
	cmd.AddCommand(prepareCmd(opts))
	return cmd
}

func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCommand(version).ExecuteContext(ctx)
}

func runGui(ctx context.Context, params *common.Params) error {
	logger.Info.Printf("Starting picture triage")
	brokers := backend.InitializeEventBrokers(params.EventBusQueueSize())

	ui := gui.NewUi(ctx, params)
	services, err := backend.InitializeServices(params, brokers.Broker, gui.TextureLoader{})
	if err != nil {
		return err
	}
	defer services.Close()
	ui.SetSession(services.Session)

	brokers.Broker.Subscribe(api.ShowError, func(command apitype.Command) {
		ui.ShowError(command.(*api.ErrorCommand))
	})
	brokers.Broker.Subscribe(api.ProcessStatusUpdated, func(command apitype.Command) {
		ui.UpdateProgress(command.(*api.UpdateProgressCommand))
	})
	brokers.Broker.Subscribe(api.DirectoryChanged, func(command apitype.Command) {
		changed := command.(*api.DirectoryChangedCommand)
		logger.Info.Printf("Showing %d pictures from '%s'", changed.Images, changed.Directory)
	})
	brokers.Broker.Subscribe(api.ImagesCommitted, func(command apitype.Command) {
		report := command.(*api.ImagesCommittedCommand).Report
		logger.Info.Printf("Committed '%s': %d moved, %d failed", report.Root, report.Moved(), len(report.Failed))
	})

	ui.Run()
	return nil
}
