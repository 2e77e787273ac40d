package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/terra-clan/sitetrack/pkg/client"
)

var (
	cfgFile       string
	serverAddress string
	timeout       time.Duration
	api           *client.Client

	// Version info set by main
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sitetrackctl",
	Short: "Command line client for the sitetrack API",
	Long: `sitetrackctl talks to a running sitetrack server to inspect projects,
render schedule reports and update task progress from the field.

The db subcommands connect to PostgreSQL directly and do not need the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "version", "help", "completion", "check":
			return nil
		}

		api = client.NewClient(strings.TrimRight(serverAddress, "/"), client.WithTimeout(timeout))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sitetrackctl %s (commit %s, built %s)\n", version, commit, date)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sitetrack/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverAddress, "server", "", "server base URL (default is http://localhost:8080)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (default is 30s)")

	viper.BindPFlag("server.address", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".sitetrack"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// SITETRACK_SERVER_ADDRESS, SITETRACK_DATABASE_DSN, ...
	viper.SetEnvPrefix("SITETRACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
			os.Exit(1)
		}
	}

	if serverAddress == "" {
		serverAddress = viper.GetString("server.address")
	}
	if serverAddress == "" {
		serverAddress = "http://localhost:8080"
	}

	if timeout <= 0 {
		timeout = viper.GetDuration("timeout")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
}
