package environment

import (
	"fmt"
	"os"
	"time"

	envParser "github.com/caarlos0/env/v6"
)

// Environment is a struct containing available env variables
type Environment struct {
	ApiOriginNA      string `env:"API_ORIGIN_NA" envDefault:"https://api.ruckus.cloud"`
	ApiOriginEU      string `env:"API_ORIGIN_EU" envDefault:"https://api.eu.ruckus.cloud"`
	ApiOriginAsia    string `env:"API_ORIGIN_ASIA" envDefault:"https://api.asia.ruckus.cloud"`
	RequestTimeoutS  int    `env:"REQUEST_TIMEOUT" envDefault:"120"`
	TokenSweepSpec   string `env:"TOKEN_SWEEP_SPEC" envDefault:"@every 1m"`
	DatabaseUrl      string `env:"DATABASE_URL"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"INFO"`
}

var osExit = os.Exit

// New parses the env variables
func New() Environment {
	result := Environment{}
	err := envParser.Parse(&result, envParser.Options{
		Prefix: "SZ2R1_",
	})
	if err != nil {
		fmt.Println("Error parsing env variables:", err)
		osExit(1)
		return Environment{}
	}
	if result.RequestTimeoutS < 1 {
		result.RequestTimeoutS = 120
	}
	return result
}

// RequestTimeout returns the configured HTTP request timeout
func (e Environment) RequestTimeout() time.Duration {
	return time.Duration(e.RequestTimeoutS) * time.Second
}
