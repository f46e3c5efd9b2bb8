package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/tobyvann/lectern/internal/common"
	"github.com/tobyvann/lectern/internal/handlers"
	"github.com/tobyvann/lectern/internal/interfaces"
	"github.com/tobyvann/lectern/internal/services/answer"
	"github.com/tobyvann/lectern/internal/services/chunker"
	"github.com/tobyvann/lectern/internal/services/conversation"
	"github.com/tobyvann/lectern/internal/services/documents"
	"github.com/tobyvann/lectern/internal/services/llm"
	"github.com/tobyvann/lectern/internal/services/pdf"
	"github.com/tobyvann/lectern/internal/services/vectorindex"
	"github.com/tobyvann/lectern/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Core services
	Chunker           *chunker.Service
	VectorIndex       *vectorindex.Service
	ConversationStore *conversation.Store
	AnswerEngine      *answer.Engine
	DocumentService   *documents.Service
	PDFExtractor      interfaces.PDFExtractor
	Providers         *llm.Providers

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	ChatHandler     *handlers.ChatHandler
	QueryHandler    *handlers.QueryHandler
	DocumentHandler *handlers.DocumentHandler
}

// New wires up all services in dependency order
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	providers, err := llm.NewProviders(config, logger)
	if err != nil {
		storageManager.Close()
		return nil, err
	}

	chunkerSvc := chunker.NewService(&config.Chunking, logger)
	index := vectorindex.NewService(providers.Embedding, storageManager.VectorStorage(), logger)
	conversations := conversation.NewStore(logger)
	engine := answer.NewEngine(index, conversations, providers.Chat, &config.Retrieval, logger)
	extractor := pdf.NewExtractor(logger)
	docService := documents.NewService(chunkerSvc, index, conversations, extractor, providers.Chat, config, logger)

	app := &App{
		Config:            config,
		Logger:            logger,
		StorageManager:    storageManager,
		Chunker:           chunkerSvc,
		VectorIndex:       index,
		ConversationStore: conversations,
		AnswerEngine:      engine,
		DocumentService:   docService,
		PDFExtractor:      extractor,
		Providers:         providers,
		APIHandler:        handlers.NewAPIHandler(),
		ChatHandler:       handlers.NewChatHandler(engine, conversations, logger),
		QueryHandler:      handlers.NewQueryHandler(engine, index, logger),
		DocumentHandler:   handlers.NewDocumentHandler(docService, logger),
	}

	logger.Info().
		Str("chat_model", providers.Chat.ModelName()).
		Str("embedding_model", providers.Embedding.ModelName()).
		Msg("Application initialized")

	return app, nil
}

// Close releases all resources in reverse dependency order
func (a *App) Close() {
	if a.Providers != nil {
		if err := a.Providers.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM providers")
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
	}
}
