package cli

import (
	"github.com/dmitrijs2005/healthkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/config"
	"github.com/spf13/cobra"
)

type storageFlags struct {
	envFile    string
	configFile string
	storage    string
	dataDir    string
	dsn        string
	blob       string
	uploadDir  string
	logLevel   string
}

func (a *App) newRootCommand() *cobra.Command {
	var f storageFlags

	root := &cobra.Command{
		Use:           "healthctl",
		Short:         "Administer a HealthKeeper installation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.envFile, "env", ".env", "dotenv file")
	pf.StringVarP(&f.configFile, "config", "c", "", "JSON config file")
	pf.StringVar(&f.storage, "storage", "", "storage backend: json or postgres")
	pf.StringVar(&f.dataDir, "data", "", "directory with users.json and health_data.json")
	pf.StringVarP(&f.dsn, "dsn", "d", "", "PostgreSQL DSN")
	pf.StringVar(&f.blob, "blob", "", "blob backend: local or s3")
	pf.StringVar(&f.uploadDir, "uploads", "", "upload directory")
	pf.StringVar(&f.logLevel, "log-level", "", "log level")

	root.AddCommand(
		a.newUserCommand(),
		a.newFilesCommand(),
		a.newRemoteCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Run: func(cmd *cobra.Command, _ []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
			},
		},
	)

	return root
}

// loadConfig layers the flags that were set on the command line over
// defaults, the environment and the JSON file.
func (a *App) loadConfig(cmd *cobra.Command, f storageFlags) error {
	cfg, err := config.LoadWithoutFlags(f.envFile, f.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("storage", &cfg.Storage, f.storage)
	set("data", &cfg.DataDir, f.dataDir)
	set("dsn", &cfg.DatabaseDSN, f.dsn)
	set("blob", &cfg.Blob, f.blob)
	set("uploads", &cfg.UploadDir, f.uploadDir)
	set("log-level", &cfg.LogLevel, f.logLevel)

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, a.errOut)
	if err != nil {
		return err
	}

	a.config = cfg
	a.logger = logger
	return nil
}
