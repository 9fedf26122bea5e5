package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                     = false
	LOG_LEVEL_PROD              = slog.LevelInfo
	FALLBACK_REDIS_TO_MEMORY    = true //if redis init fails, jobs are kept in an in-memory store
	TRACE_ID_KEY                = "traceId"
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5
	RateLimiterIdleTTL          = 10 * time.Minute

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 30 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//uploads
	MaxUploadSize   = 32 << 20 //32mb
	UploadDirectory = "temporary_data"

	//job execution
	JobTimeout           = 5 * time.Minute
	QueryTimeout         = 60 * time.Second
	PageExtractTimeout   = 10 * time.Second
	EmbeddingBatchSize   = 100
	EmbeddingParallelism = 4

	//built folder indexes live in memory only
	IndexStoreTTL           = 2 * time.Hour
	IndexStoreSweepInterval = 10 * time.Minute

	//vectorDB
	QdrantHost             = "localhost"
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false //set for https
	QdrantPoolSize         = 1     //2-5 is preferred for prod according to documentation
	QdrantCollectionPrefix = "docqa-"

	//llm
	ModelTemperature float32 = 0
	OpenAIChatModel          = "gpt-4o-mini"
	GeminiModelName          = "gemini-2.5-flash-lite-preview-09-2025"
	AnthropicChatModel       = "claude-haiku-4-5"
	AnthropicMaxTokens       = 1024

	//embeddings
	OpenAIEmbeddingModel                = "text-embedding-3-small"
	GoogleEmbeddingModel                = "gemini-embedding-001"
	EmbeddingOutputDimensionality int32 = 1536
	DebugEmbeddingDimensionality        = 64

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second
	HttpClientTimeout   = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore = 0

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
	RedisIOTimeout   = 30 * time.Second
	RedisPingTimeout = 3 * time.Second
)
