// Command webqa starts the engine's HTTP submission surface: config
// loading, a browser manager, the submission queue, and its draining
// worker driving the parallel executor.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/webqa-agent/webqa-engine/pkg/api"
	"github.com/webqa-agent/webqa-engine/pkg/browser"
	"github.com/webqa-agent/webqa-engine/pkg/config"
	"github.com/webqa-agent/webqa-engine/pkg/executor"
	"github.com/webqa-agent/webqa-engine/pkg/model"
	"github.com/webqa-agent/webqa-engine/pkg/queue"
)

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config", getEnv("WEBQA_CONFIG", "./config.yaml"), "Path to the engine YAML config")
	addr := flag.String("addr", getEnv("HTTP_ADDR", ":8080"), "HTTP listen address")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	if getEnv("GIN_MODE", "release") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	runCtx := config.NewRunContext("")

	manager, err := browser.NewManager()
	if err != nil {
		log.Fatalf("starting browser manager: %v", err)
	}

	q := queue.New()
	exec := executor.NewParallelExecutor(manager, cfg.LLM, runCtx.ReportDir)
	exec.TemplatePath = getEnv("WEBQA_REPORT_TEMPLATE", "")
	exec.CSSPath = getEnv("WEBQA_REPORT_CSS", "")
	exec.JSPath = getEnv("WEBQA_REPORT_JS", "")

	worker := queue.NewWorker(q, makeRunFunc(exec, cfg), cfg.Queue.PollInterval)
	server := api.NewServer(q, worker)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting webqa engine", "addr", *addr, "report_dir", runCtx.ReportDir)
	if err := api.Run(ctx, server, worker, *addr); err != nil {
		slog.Error("server exited with error", "error", err)
	}

	if err := manager.Stop(); err != nil {
		slog.Warn("stopping browser manager", "error", err)
	}
}

func makeRunFunc(exec *executor.ParallelExecutor, cfg *config.Config) queue.RunFunc {
	return func(ctx context.Context, taskID string, req queue.Submission) (*model.TestSession, error) {
		session := model.NewTestSession(taskID, req.TargetURL)
		for _, tc := range req.Configurations {
			session.AddTestConfiguration(tc)
		}

		maxConcurrent := cfg.Queue.MaxConcurrentTests
		if err := exec.ExecuteParallel(ctx, session, maxConcurrent); err != nil {
			return session, err
		}
		return session, nil
	}
}
