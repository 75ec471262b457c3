package redis

const (
	DefaultJobStream    = "prompt-jobs"
	DefaultResultStream = "prompt-results"
	DefaultGroup        = "prompt-group"

	// PayloadField holds the JSON-encoded job or result of a stream entry.
	PayloadField = "payload"
)

type RedisStreamConfig struct {
	RedisAddr     string
	RedisPassword string
	Stream        string
	ResultStream  string
	Group         string
	ConsumerName  string
}

func NewRedisStreamConfig(redisAddr string, redisPassword string, stream string, resultStream string, group string, consumerName string) *RedisStreamConfig {
	cfg := &RedisStreamConfig{
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		Stream:        stream,
		ResultStream:  resultStream,
		Group:         group,
		ConsumerName:  consumerName,
	}
	if cfg.Stream == "" {
		cfg.Stream = DefaultJobStream
	}
	if cfg.ResultStream == "" {
		cfg.ResultStream = DefaultResultStream
	}
	if cfg.Group == "" {
		cfg.Group = DefaultGroup
	}
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = "prompt-worker"
	}
	return cfg
}
