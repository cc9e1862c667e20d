package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/lukebdev/termlink/internal/config"
	"github.com/lukebdev/termlink/internal/core"
	"github.com/lukebdev/termlink/internal/providers/llm"
	"github.com/lukebdev/termlink/internal/service/chat"
	"github.com/lukebdev/termlink/internal/service/completion"
	"github.com/lukebdev/termlink/internal/service/ratelimit"
	"github.com/lukebdev/termlink/internal/service/retrieval"
	"github.com/lukebdev/termlink/internal/service/terminal"
	"github.com/lukebdev/termlink/internal/storage/chromem"
	"github.com/lukebdev/termlink/internal/storage/sqlite"
	"github.com/lukebdev/termlink/internal/transport/httpapi"
	"github.com/lukebdev/termlink/internal/transport/telegram"
	"github.com/lukebdev/termlink/pkg/log"
	"github.com/lukebdev/termlink/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	openaiCfg := config.NewOpenAIConfig(ctx)
	ragCfg := config.NewRAGConfig(ctx)
	rateCfg := config.NewRateLimitConfig(ctx)
	tgCfg := config.NewTelegramConfig(ctx)

	// 2. Conversation state and fan-out
	bus := chat.NewBus()
	recorder := chat.NewRecorder(chat.NewStore(), bus, func(sink string, err error) {
		logger.Warn().Err(err).Str("sink", sink).Msg("best-effort sink failed")
	})

	// 3. Transcript persistence. Optional: the terminal answers without
	// it, the operator just loses /history.
	var transcripts *sqlite.TranscriptRepo
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Warn().Err(err).Msg("transcript storage unavailable, continuing without it")
	} else {
		transcripts = sqlite.NewTranscriptRepo(db)
		recorder.AddSink(transcripts)
		services = append(services, srv.NewCleanup(db.Close))
	}

	// 4. Vector store
	vectors, err := chromem.New(appCfg.GetVectorPath(), ragCfg.Table, ragCfg.LegacyTable)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open vector store")
	}

	// 5. AI provider. Optional: without a key the terminal still serves
	// static commands and contact.
	var provider *llm.OpenAI
	if openaiCfg.Enabled() {
		provider = llm.NewOpenAI(openaiCfg.BaseURL, openaiCfg.APIKey, openaiCfg.ChatModel, openaiCfg.EmbeddingModel)
	} else {
		logger.Warn().Msg("no OpenAI key configured, AI answers disabled")
	}

	// 6. Retrieval and completion
	var (
		assembler    *retrieval.Assembler
		ingestor     *retrieval.Ingestor
		orchestrator *completion.Orchestrator
		chatProvider core.ChatProvider
		embedder     core.Embedder
	)
	if provider != nil {
		chatProvider = provider
		embedder = provider
		assembler = retrieval.NewAssembler(embedder, vectors, appCfg.SubjectName)
		ingestor = retrieval.NewIngestor(embedder, vectors, chatProvider)
		orchestrator = completion.NewOrchestrator(chatProvider, appCfg.SubjectName)
	}

	// 7. Operator bridge. Optional: contact and mirroring are off
	// without it.
	var bridge *telegram.Bridge
	var notifier core.Notifier
	if tgCfg.Enabled() {
		// Keep a nil pointer out of the interface value.
		var reader telegram.TranscriptReader
		if transcripts != nil {
			reader = transcripts
		}
		bridge, err = telegram.NewBridge(ctx, tgCfg, func(ctx context.Context, cid, author, text string) string {
			return recorder.Record(ctx, cid, author, text)
		}, reader)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bridge")
		}
		notifier = bridge
		recorder.AddSink(bridge)
		services = append(services, bridge)
	} else {
		logger.Warn().Msg("telegram bridge not configured, operator features disabled")
	}

	// 8. Terminal pipeline
	term := terminal.NewService(recorder, assembler, orchestrator, notifier)

	// 9. Rate limiting
	limiter := ratelimit.New(map[string]ratelimit.ScopeConfig{
		ratelimit.ScopeGlobal: {Window: rateCfg.Window, Max: rateCfg.Max},
		ratelimit.ScopeAI:     {Window: rateCfg.AIWindow, Max: rateCfg.AIMax},
	})
	services = append(services, ratelimit.NewSweeper(limiter, rateCfg.SweepInterval))

	// 10. HTTP API
	deps := httpapi.Deps{
		Terminal:    term,
		Assembler:   assembler,
		Ingestor:    ingestor,
		Recorder:    recorder,
		Bus:         bus,
		Limiter:     limiter,
		AdminToken:  ragCfg.AdminToken,
		AIEnabled:   openaiCfg.Enabled(),
		Environment: appCfg.Environment,
	}
	if bridge != nil {
		deps.BridgeOnline = bridge.Online
	}
	services = append(services, httpapi.NewServer(appCfg.Host, appCfg.Port, deps))

	return services
}

func initEnv(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(".", ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
