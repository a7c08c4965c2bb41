package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
)

type storage struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=memory file sql redis"`
	FileRoot        string        `mapstructure:"file_root" validate:"required_if=Driver file"`
	SQLDriver       string        `mapstructure:"sql_driver" validate:"oneof=pgx sqlite"`
	SQLDSN          string        `mapstructure:"sql_dsn" validate:"required_if=Driver sql"`
	RedisAddr       string        `mapstructure:"redis_addr" validate:"required_if=Driver redis"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db" validate:"gte=0"`
	RedisTTL        time.Duration `mapstructure:"redis_ttl" validate:"gte=0"`
	ConnectAttempts int           `mapstructure:"connect_attempts" validate:"gte=1"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert" validate:"required_with=CA"`
	Key  string `mapstructure:"key" validate:"required_with=Cert"`
}

func (t tlsFiles) Enabled() bool {
	return t.CA != ""
}

type catalog struct {
	Source             string        `mapstructure:"source" validate:"oneof=file http kafka"`
	Path               string        `mapstructure:"path" validate:"required_if=Source file"`
	URL                string        `mapstructure:"url" validate:"required_if=Source http"`
	HTTPTimeout        time.Duration `mapstructure:"http_timeout" validate:"gte=0"`
	SeedBrokers        []string      `mapstructure:"seed_brokers" validate:"required_if=Source kafka"`
	SchemaRegistryURLs []string      `mapstructure:"schema_registry_urls" validate:"required_if=Source kafka"`
	Topic              string        `mapstructure:"topic" validate:"required_if=Source kafka"`
	TLS                tlsFiles      `mapstructure:"tls"`
}

type Config struct {
	LogLevel           string        `mapstructure:"log_level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	HTTPServerAddr     string        `mapstructure:"http_server_addr" validate:"required"`
	HTTPHandlerTimeout time.Duration `mapstructure:"http_handler_timeout" validate:"gte=0"`
	Storage            storage       `mapstructure:"storage"`
	Catalog            catalog       `mapstructure:"catalog"`
}

// Level is the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Load reads the config file named by STOREFRONT_CONFIG_FILE or --config,
// then applies STOREFRONT_* overrides. It exits on any error.
func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads path, or only defaults and the environment when path is
// empty.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("http_handler_timeout", 5*time.Second)

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.file_root", "data")
	v.SetDefault("storage.sql_driver", "sqlite")
	v.SetDefault("storage.sql_dsn", "")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.redis_ttl", time.Duration(0))
	v.SetDefault("storage.connect_attempts", 5)

	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.path", "db.json")
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.http_timeout", time.Duration(0))
	v.SetDefault("catalog.seed_brokers", []string{"localhost:9094"})
	v.SetDefault("catalog.schema_registry_urls", []string{"http://localhost:8081"})
	v.SetDefault("catalog.topic", "storefront-catalog")
	v.SetDefault("catalog.tls.ca", "")
	v.SetDefault("catalog.tls.cert", "")
	v.SetDefault("catalog.tls.key", "")
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HTTPHandlerTimeout=%s

	Storage:
	Driver=%q
	FileRoot=%q
	SQLDriver=%q
	RedisAddr=%q
	RedisDB=%d
	RedisTTL=%s
	ConnectAttempts=%d

	Catalog:
	Source=%q
	Path=%q
	URL=%q
	HTTPTimeout=%s
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topic=%q
	TLS=%t

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HTTPHandlerTimeout,
		c.Storage.Driver,
		c.Storage.FileRoot,
		c.Storage.SQLDriver,
		c.Storage.RedisAddr,
		c.Storage.RedisDB,
		c.Storage.RedisTTL,
		c.Storage.ConnectAttempts,
		c.Catalog.Source,
		c.Catalog.Path,
		c.Catalog.URL,
		c.Catalog.HTTPTimeout,
		c.Catalog.SeedBrokers,
		c.Catalog.SchemaRegistryURLs,
		c.Catalog.Topic,
		c.Catalog.TLS.Enabled(),
	)
}
