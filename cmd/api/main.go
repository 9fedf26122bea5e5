// @title           DocQA API
// @version         1.0
// @description     Asynchronous document question answering with page and chunk citations
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/data/store"
	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/internal/handlers"
	"github.com/akolanti/docqa/internal/job"
	"github.com/akolanti/docqa/internal/mcpserver"
	"github.com/akolanti/docqa/internal/rag"
	"github.com/akolanti/docqa/internal/rag/strategies"
	"github.com/akolanti/docqa/internal/server"
	"github.com/akolanti/docqa/internal/worker"
	"github.com/akolanti/docqa/pkg/logger_i"
)

var (
	listenAddr        string
	configPath        string
	runMCP            bool
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.StringVar(&configPath, "config", "docqa.yaml", "pipeline config file")
	flag.BoolVar(&runMCP, "mcp", false, "serve MCP on stdio instead of HTTP")
	flag.Parse()

	if runMCP {
		logger_i.InitStderr()
	} else {
		logger_i.Init()
	}
	var logger = logger_i.NewLogger("main")

	cfg, err := config.LoadPipeline(configPath)
	if err != nil {
		logger.Error("Invalid pipeline config", "path", configPath, "error", err)
		os.Exit(1)
	}
	logger.Info("Pipeline", "embedding", cfg.Embedding, "vectorStore", cfg.VectorStore, "llm", cfg.LLM, "chunkSize", cfg.ChunkSize)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	indexStore := store.InitInMemoryIndexStore(config.IndexStoreTTL)
	indexStore.StartSweeper(serviceContext, config.IndexStoreSweepInterval)
	ragService := rag.NewService(cfg, strategies.NewProduction(serviceContext, cfg), indexStore)

	if runMCP {
		serveMCP(serviceContext, ragService, logger)
		return
	}

	//init buffered job channel
	jobChannel := make(chan jobModel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	if jobStore := store.GetRedisJobStore(serviceContext); jobStore != nil {
		serviceConfig.JobStore = jobStore
	} else if config.FALLBACK_REDIS_TO_MEMORY {
		logger.Error("Redis job store is offline, keeping jobs in memory")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	} else {
		logger.Error("Redis job store is offline. Shutting down.")
		return
	}
	service := job.InitJobService(serviceConfig)

	handlers.InitJobHandler(service)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func serveMCP(ctx context.Context, ragService rag.Service, logger *logger_i.Logger) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mcpServer, err := mcpserver.NewServer(ragService)
	if err != nil {
		logger.Error("Could not create MCP server", "error", err)
		return
	}
	logger.Info("Serving MCP on stdio")
	if err := mcpServer.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("MCP server stopped", "error", err)
	}
}
