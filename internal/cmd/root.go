package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aura-protocol/auractl/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "auractl",
	Short: "Role-based agent session launcher",
	Long: `Auractl launches replicas of a protocol role as agent sessions on a
dedicated tmux socket. Each replica gets a unique session name, a slice of
the shared task list, and a rendered role prompt, then runs detached until
killed or finished.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/auractl/config.yaml)")
	rootCmd.PersistentFlags().String("socket", "", "tmux socket name (default \"aura\")")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("tmux.socket", rootCmd.PersistentFlags().Lookup("socket"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/auractl")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("AURACTL")
	// Replace dots with underscores for nested keys in env vars
	// e.g., AURACTL_LAUNCH_PARALLEL for launch.parallel
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
