package cmds

import (
	"os"
	"path/filepath"

	"github.com/MotWakorb/guidearr/internal/app/config"
	"github.com/MotWakorb/guidearr/internal/pkg/logging"
	"github.com/MotWakorb/guidearr/internal/pkg/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string

	conf *config.Config
)

func init() {
	cobra.OnInitialize(initLogging, initConfig)
}

func NewRootCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "guidearr",
		Short:         "Dispatcharr channel guide server",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(NewServeCLI())
	rootCmd.AddCommand(NewSnapshotCLI())
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to the YAML config file")

	return rootCmd
}

// initLogging installs the global logger before any command runs.
func initLogging() {
	logDir, err := util.GetCurrentAbPathByExecutable()
	cobra.CheckErr(err)

	err = logging.InitLogger(&logging.LogConfig{
		Level:      zapcore.InfoLevel,
		FileName:   filepath.Join(logDir, "guidearr.log"),
		MaxSize:    50,
		MaxAge:     15,
		MaxBackups: 3,
		IsStdout:   true,
	})
	cobra.CheckErr(err)
}

// initConfig loads the config file, creating a default one on first run.
func initConfig() {
	var err error
	var fPath string

	if cfgFile != "" {
		// use the config file from the command flag
		fPath = cfgFile
	} else {
		cfgHome, err := util.GetCurrentAbPathByExecutable()
		cobra.CheckErr(err)

		fPath = filepath.Join(cfgHome, "config.yml")

		// write the default config file
		if _, err = os.Stat(fPath); os.IsNotExist(err) {
			err = config.CreateDefaultCfg(fPath)
			cobra.CheckErr(err)
		}
	}

	conf, err = config.Load(fPath)
	cobra.CheckErr(err)
}
