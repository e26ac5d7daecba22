package internal

import (
	"fmt"
	"time"
)

// Config of the teamchat server, read from the environment.
type Config struct {
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=8080"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath        string        `env:"BLUGE_FILEPATH,required=true"`
	StorageRoot          string        `env:"STORAGE_ROOT,required=true"`
	StorageBaseURL       string        `env:"STORAGE_BASE_URL,required=true"`
	BufferSize           int           `env:"BUFFER_SIZE,default=256"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=16"`
	NumberOfWorkers      int           `env:"NUMBER_OF_WORKERS,default=4"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=1s"`
	LimitMessages        *int          `env:"LIMIT_MESSAGES"`
	TypingTTL            time.Duration `env:"TYPING_TTL,default=5s"`
	SweepInterval        time.Duration `env:"SWEEP_INTERVAL,default=1s"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=30s"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,default=16"`
	AuthSecret           string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	ModerationWordsPath  string        `env:"MODERATION_WORDS_PATH"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,default=*"`
	DebugPort            int           `env:"DEBUG_PORT,default=8081"`
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
