package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/careercrafted/careercrafted/internal/career"
	"github.com/careercrafted/careercrafted/internal/careerapi"
)

const (
	app = "careercrafted"
)

type Config struct {
	Assessment  *career.Assessment      `mapstructure:"assessment"`
	API         *APIConfig              `mapstructure:"api"`
	Search      *careerapi.SearchParams `mapstructure:"search"`
	ExcludeFile string                  `mapstructure:"exclude-file"`
	ExportDir   string                  `mapstructure:"export-dir"`
	UserAgent   string                  `mapstructure:"user-agent"`
	Filter      *FilterConfig           `mapstructure:"filter"`
	AI          *AIConfig               `mapstructure:"ai"`
}

type APIConfig struct {
	URL       string `mapstructure:"url"`
	TokenFile string `mapstructure:"token-file"`
}

type FilterConfig struct {
	Source            string `mapstructure:"source"`
	MinimumMatchScore int    `mapstructure:"minimum-match-score"`
	Exclude           *struct {
		Employers []string `mapstructure:"employers"`
	} `mapstructure:"exclude"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "careercrafted matches a short career assessment to careers, employers and job postings",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"api.token-file":         "CAREERCRAFTED_API_TOKEN_FILE",
		"api.url":                "CAREERCRAFTED_API_URL",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is careercrafted.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A missing .env is normal; the variables may come from the real environment.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// An explicitly requested config must be readable.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	// Without a config file every command still works with defaults and flags.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.API == nil {
		config.API = &APIConfig{}
	}
	if config.Filter == nil {
		config.Filter = &FilterConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}

	return config, nil
}

func (f *FilterConfig) excludedEmployers() []string {
	if f == nil || f.Exclude == nil {
		return nil
	}
	return f.Exclude.Employers
}
