package config

import (
	"os"
	"strconv"
)

// Config carries everything the client reads from the environment.
type Config struct {
	APIURL       string
	WSURL        string
	StorePath    string
	DebugAddr    string
	Env          string
	OTLPEndpoint string
	TypingRate   float64
	TypingBurst  int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Load reads the configuration from the environment, falling back to
// development defaults.
func Load() Config {
	rateStr := getenv("TYPING_RATE", "2")
	burstStr := getenv("TYPING_BURST", "1")
	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil || rate <= 0 {
		rate = 2
	}
	burst, err := strconv.Atoi(burstStr)
	if err != nil || burst <= 0 {
		burst = 1
	}

	return Config{
		APIURL:       getenv("API_URL", "http://localhost:4001"),
		WSURL:        getenv("WS_URL", "ws://localhost:4001"),
		StorePath:    getenv("STORE_PATH", "webchat.db"),
		DebugAddr:    getenv("DEBUG_ADDR", ""),
		Env:          getenv("APP_ENV", "dev"),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", ""),
		TypingRate:   rate,
		TypingBurst:  burst,
	}
}
