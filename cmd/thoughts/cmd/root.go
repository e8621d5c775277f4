package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/mfenderov/thoughts/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "thoughts",
	Short: "thoughts: blog index builder and thumbnail generator",
	Long: `thoughts builds the index page of a directory of blog posts and
generates an illustration for each post with an image generation API.

Commands:
  index       Render the post index page
  thumbnails  Generate missing post thumbnails
  publish     Upload the index and thumbnails to object storage`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	// Start with defaults
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/thoughts")
		viper.AddConfigPath(".")
	}

	// Environment variable overrides
	// THOUGHTS_INDEX_SOURCE_DIR -> index.source_dir
	viper.SetEnvPrefix("THOUGHTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind nested env vars
	viper.BindEnv("index.source_dir", "THOUGHTS_INDEX_SOURCE_DIR")
	viper.BindEnv("index.output_path", "THOUGHTS_INDEX_OUTPUT_PATH")
	viper.BindEnv("index.base_url", "THOUGHTS_INDEX_BASE_URL")
	viper.BindEnv("index.thumbnail_mode", "THOUGHTS_INDEX_THUMBNAIL_MODE")
	viper.BindEnv("thumbnails.cache_dir", "THOUGHTS_THUMBNAILS_CACHE_DIR")
	viper.BindEnv("llm.model", "THOUGHTS_LLM_MODEL")
	viper.BindEnv("images.provider", "THOUGHTS_IMAGES_PROVIDER")
	viper.BindEnv("images.base_url", "THOUGHTS_IMAGES_BASE_URL")
	viper.BindEnv("images.model", "THOUGHTS_IMAGES_MODEL")
	viper.BindEnv("storage.endpoint", "THOUGHTS_STORAGE_ENDPOINT")
	viper.BindEnv("storage.bucket", "THOUGHTS_STORAGE_BUCKET")
	viper.BindEnv("storage.access_key_id", "THOUGHTS_STORAGE_ACCESS_KEY_ID")
	viper.BindEnv("storage.secret_access_key", "THOUGHTS_STORAGE_SECRET_ACCESS_KEY")

	// API keys: first variable that is set wins
	viper.BindEnv("llm.api_key", "THOUGHTS_LLM_API_KEY", "OTHER_OPENAI_API_KEY", "OPENAI_API_KEY")
	viper.BindEnv("images.api_key", "THOUGHTS_IMAGES_API_KEY", "OTHER_OPENAI_API_KEY", "OPENAI_API_KEY", "TOGETHER_API_KEY")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
		// No config file - use defaults + env vars
	}

	// Unmarshal into struct (merges config file with defaults)
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}
}

// stringFlag overrides dst with a command flag when it was set.
func stringFlag(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		*dst = v
	}
}
