package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/relaydrop/cli/pkg/config"
	"github.com/relaydrop/cli/pkg/history"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const AppVersion = "0.3.1"

var rootCmd = &cobra.Command{
	Use:   "relaydrop",
	Short: "Watch folders and relay new files to a loopback peer",
	Long: `relaydrop watches configured folders for new or changed files and
transfers each qualifying file to a process listening on a local loopback
port, optionally running a share command for newly detected files.

Configure folders with 'relaydrop folders', then run 'relaydrop watch'.
Run 'relaydrop recv' on the other side to receive files.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().String("config-dir", "", "Directory holding settings and the transfer history db (default: user config dir)")
	viper.BindPFlag("config-dir", rootCmd.PersistentFlags().Lookup("config-dir"))
}

func initConfig() {
	viper.SetEnvPrefix("RELAYDROP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	dir := configDir()
	viper.AddConfigPath(dir)
	viper.SetConfigName("relaydrop")
	viper.SetConfigType("yaml")
	// Optional overrides file; absence is fine.
	_ = viper.ReadInConfig()
}

// configDir resolves the app's configuration directory.
func configDir() string {
	if dir := viper.GetString("config-dir"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "relaydrop")
}

// settingsStore returns the JSON settings store.
func settingsStore() *config.Store {
	return config.NewStore(configDir())
}

// openHistory opens the transfer history database.
func openHistory() (*history.Store, error) {
	dir := configDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}
	return history.Open(filepath.Join(dir, "relaydrop.db"))
}
