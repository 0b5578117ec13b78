package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"campuslink/internal/config"
	"campuslink/internal/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "campuslink",
	Short: "CampusLink - Campus Social & Events Platform API",
	Long: `CampusLink is the backend API for a campus social/events platform.
Students register with a college email, browse the campus feed, join events,
and apply to become the contributor for their college.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.campuslink")
	}

	// 环境变量设置
	viper.SetEnvPrefix("CAMPUSLINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	// 反序列化到结构体
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

func setDefaults() {
	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.time_format", "RFC3339")

	// MongoDB
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "campuslink")
	viper.SetDefault("mongo.max_pool_size", 100)
	viper.SetDefault("mongo.min_pool_size", 10)

	// Redis
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	// Auth
	viper.SetDefault("auth.access_token_expiry", "24h")
	viper.SetDefault("auth.refresh_token_expiry", "168h")
	viper.SetDefault("auth.otp_expiry", "10m")

	// Storage
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local.base_path", "./uploads")
	viper.SetDefault("storage.local.base_url", "http://localhost:8080/uploads")
	viper.SetDefault("storage.local.presign_expiry", 3600)

	// Mail
	viper.SetDefault("mail.host", "localhost")
	viper.SetDefault("mail.port", 1025)
	viper.SetDefault("mail.from", "noreply@campuslink.local")
	viper.SetDefault("mail.site_name", "CampusLink")
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
