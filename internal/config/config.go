package config

import (
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Portal Portal `yaml:"portal"`
	Server Server `yaml:"server"`
}

type Portal struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"baseUrl"`
}

type Server struct {
	ListenAddr    string   `yaml:"listenAddr"`
	PostgresDsn   string   `yaml:"postgresDsn"`
	RedisAddr     string   `yaml:"redisAddr"`
	RedisDB       int      `yaml:"redisDB"`
	MemcachedAddr string   `yaml:"memcachedAddr"`
	KafkaBrokers  []string `yaml:"kafkaBrokers"`
	KafkaTopic    string   `yaml:"kafkaTopic"`
	EnableTrace   bool     `yaml:"enableTrace"`
	TraceEndpoint string   `yaml:"traceEndpoint"`
	UploadDir     string   `yaml:"uploadDir"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = ":8000"
	}
	if config.Server.UploadDir == "" {
		config.Server.UploadDir = "uploads"
	}
	if config.Server.KafkaTopic == "" {
		config.Server.KafkaTopic = "ouvidoria.manifestacoes"
	}
	if config.Portal.Name == "" {
		config.Portal.Name = "Ouvidoria"
	}

	return config, nil
}
