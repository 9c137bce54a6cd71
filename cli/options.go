package cli

import (
	"github.com/spf13/cobra"
	"vincit.fi/picture-triage/common"
	"vincit.fi/picture-triage/common/logger"
)

type options struct {
	configPath    string
	logLevel      string
	workers       int
	chunks        int
	thumbnailSize int
	filter        string
	excludes      []string
}

func (s *options) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "configuration file (default ~/.config/picture-triage/config.yaml)")
	flags.StringVar(&s.logLevel, "logLevel", common.DefaultLogLevel, "log level: ERROR, WARN, INFO, DEBUG or TRACE")
	flags.IntVar(&s.workers, "workers", common.DefaultWorkers, "number of image loading workers")
	flags.IntVar(&s.chunks, "chunks", 0, "number of work chunks the pictures are split into (0 = 4 per worker)")
	flags.IntVar(&s.thumbnailSize, "thumbnailSize", common.DefaultThumbnailSize, "longer edge of the prepared pictures in pixels")
	flags.StringVar(&s.filter, "filter", common.DefaultFilter, "resize filter: linear, nearest, lanczos or nfnt")
	flags.StringSliceVar(&s.excludes, "exclude", nil, "glob of paths relative to the directory to skip, e.g. 'save/**'")
}

// params loads the configuration file and applies the flags the user set on
// top of it.
func (s *options) params(cmd *cobra.Command, rootPath string) (*common.Params, error) {
	configPath := s.configPath
	if configPath == "" {
		if defaultPath, err := common.DefaultConfigPath(); err == nil {
			configPath = defaultPath
		}
	}

	cfg := common.DefaultConfig()
	if configPath != "" {
		loaded, err := common.LoadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("logLevel") {
		cfg.LogLevel = s.logLevel
	}
	if flags.Changed("workers") {
		cfg.Workers = s.workers
	}
	if flags.Changed("chunks") {
		cfg.Chunks = s.chunks
	}
	if flags.Changed("thumbnailSize") {
		cfg.ThumbnailSize = s.thumbnailSize
	}
	if flags.Changed("filter") {
		cfg.Filter = s.filter
	}
	if flags.Changed("exclude") {
		cfg.Exclude = s.excludes
	}

	logger.Initialize(logger.StringToLogLevel(cfg.LogLevel))
	return common.NewParams(cfg, rootPath), nil
}
