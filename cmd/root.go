package cmd

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hireflow"
)

type Config struct {
	Server *ServerConfig `mapstructure:"server"`
	AI     *AIConfig     `mapstructure:"ai"`
	Vapi   *VapiConfig   `mapstructure:"vapi"`
	GitHub *GitHubConfig `mapstructure:"github"`
	Notify *NotifyConfig `mapstructure:"notify"`
	Mail   *MailConfig   `mapstructure:"mail"`
	Store  *StoreConfig  `mapstructure:"store"`
	Redis  *RedisConfig  `mapstructure:"redis"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	TempDir string `mapstructure:"temp-dir"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type VapiConfig struct {
	APIKeyFile    string        `mapstructure:"api-key-file"`
	AssistantID   string        `mapstructure:"assistant-id"`
	PhoneNumberID string        `mapstructure:"phone-number-id"`
	PollInterval  time.Duration `mapstructure:"poll-interval"`
	MaxWait       time.Duration `mapstructure:"max-wait"`
}

type GitHubConfig struct {
	TokenFile string `mapstructure:"token-file"`
}

type NotifyConfig struct {
	Provider string         `mapstructure:"provider"`
	Discord  *DiscordConfig `mapstructure:"discord"`
	Slack    *SlackConfig   `mapstructure:"slack"`
}

type DiscordConfig struct {
	TokenFile string `mapstructure:"token-file"`
	ChannelID string `mapstructure:"channel-id"`
}

type SlackConfig struct {
	WebhookURLFile string `mapstructure:"webhook-url-file"`
}

type MailConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	PasswordFile   string `mapstructure:"password-file"`
	From           string `mapstructure:"from"`
	SchedulingLink string `mapstructure:"scheduling-link"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hireflow runs an automated hiring pipeline: resume screening, background checks and voice interviews",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("vapi.api-key-file", "VAPI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding VAPI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hireflow.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run and serve. Version works without it.
	if runCmd.CalledAs() == "" && serveCmd.CalledAs() == "" {
		return
	}

	// A local .env keeps secrets out of the config file. Missing is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
