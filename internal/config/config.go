package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for kbconsole
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	AWS      AWSConfig      `mapstructure:"aws"`
	S3       S3Config       `mapstructure:"s3"`
	Bedrock  BedrockConfig  `mapstructure:"bedrock"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	FrontendOrigin string `mapstructure:"frontend_origin"`
}

// DatabaseConfig holds metadata store configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AWSConfig holds region and credential configuration
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// S3Config holds object store configuration
type S3Config struct {
	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`
}

// BedrockConfig identifies the managed knowledge base, its data source and
// the generation model
type BedrockConfig struct {
	KnowledgeBaseID string `mapstructure:"knowledge_base_id"`
	DataSourceID    string `mapstructure:"data_source_id"`
	ModelARN        string `mapstructure:"model_arn"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("KBCONSOLE")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 9000)
	v.SetDefault("server.frontend_origin", "http://localhost:3000")

	v.SetDefault("database.path", "./data/kbconsole.db")

	v.SetDefault("aws.region", "eu-north-1")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")

	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "eu-north-1")

	v.SetDefault("bedrock.knowledge_base_id", "")
	v.SetDefault("bedrock.data_source_id", "")
	v.SetDefault("bedrock.model_arn", "")
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
