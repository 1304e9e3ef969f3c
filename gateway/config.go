package gateway

import (
	"time"

	"code.swapex.io/swapex/config/encoding"
	libhttp "code.swapex.io/swapex/libs/http"
	"code.swapex.io/swapex/logging"
)

const namedLogger = "gateway"

type ServerConfig struct {
	Port int    `description:"Listen for connection on port <port>" long:"port"`
	IP   string `description:"Bind to address <ip>"                 long:"ip"`
}

type Config struct {
	ServerConfig
	Level        encoding.LogLevel       `choice:"debug"                                            choice:"info" choice:"warning" long:"log-level"`
	Timeout      encoding.Duration       `description:"read and write timeout of the REST API"      long:"timeout"`
	StreamBuffer int                     `description:"events buffered per websocket client"        long:"stream-buffer"`
	CORS         libhttp.CORSConfig      `group:"CORS"                                              namespace:"cors"`
	RateLimit    libhttp.RateLimitConfig `group:"RateLimits"                                        namespace:"rate-limits"`
}

func NewDefaultConfig() Config {
	return Config{
		ServerConfig: ServerConfig{
			IP:   "0.0.0.0",
			Port: 3008,
		},
		Level:        encoding.LogLevel{Level: logging.InfoLevel},
		Timeout:      encoding.Duration{Duration: 5 * time.Second},
		StreamBuffer: 100,
		CORS:         libhttp.DefaultCORSConfig(),
		RateLimit:    libhttp.DefaultRateLimitConfig(),
	}
}
