// Package main is the Mundap CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/mundap/internal/answer"
	"github.com/hyperjump/mundap/internal/chat"
	"github.com/hyperjump/mundap/internal/cli"
	"github.com/hyperjump/mundap/internal/config"
	"github.com/hyperjump/mundap/internal/embedding"
	"github.com/hyperjump/mundap/internal/extract"
	"github.com/hyperjump/mundap/internal/index"
	"github.com/hyperjump/mundap/internal/llm"
	"github.com/hyperjump/mundap/internal/models"
	"github.com/hyperjump/mundap/internal/retriever"
	"github.com/hyperjump/mundap/internal/server"
	"github.com/hyperjump/mundap/internal/storage"
	"github.com/hyperjump/mundap/internal/watcher"
	"github.com/hyperjump/mundap/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/mundap/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "ask":
		runAsk()
	case "list":
		runList()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("mundap version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	svc := components.Service
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.Enabled {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.New(
			cfg.Storage.DocumentsPath,
			cfg.Watch.Extensions,
			func(path string) {
				// The file already sits in the documents directory, so only
				// the index is rebuilt. Rewriting it would retrigger the
				// watcher.
				if _, ierr := svc.Reindex(context.Background(), filepath.Base(path)); ierr != nil {
					logger.Warn("watch reindex failed", zap.String("path", path), zap.Error(ierr))
				}
			},
			func(path string) {
				if derr := svc.Remove(context.Background(), filepath.Base(path)); derr != nil {
					logger.Warn("watch remove failed", zap.String("path", path), zap.Error(derr))
				}
			},
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(svc, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	docID := fs.String("id", "", "document id (default: the file name)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: mundap ingest [flags] <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file: %v\n", err)
		os.Exit(1)
	}
	id := *docID
	if id == "" {
		id = filepath.Base(path)
	}

	components := mustInitialize(*configPath)
	defer components.Close()

	result, err := components.Service.Ingest(context.Background(), id, content, filepath.Ext(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteIngestResult(os.Stdout, result, parseFormat(*outputFormat)); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runAsk() {
	args := os.Args[2:]
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = run the pipeline in-process)")
	docID := fs.String("doc", "", "document id to ask against")
	style := fs.String("style", "", "answer style: professional, friendly, concise, default")
	temperature := fs.Float64("temperature", -1, "sampling temperature (negative = config default)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: mundap ask [flags] --doc <document-id> <question>\n\n")
		fmt.Fprintf(fs.Output(), "Question is all remaining arguments joined by spaces.\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if *docID == "" || question == "" {
		fs.Usage()
		os.Exit(1)
	}

	req := models.ChatRequest{
		DocumentID: *docID,
		Question:   question,
		Style:      *style,
	}
	if *temperature >= 0 {
		req.Temperature = temperature
	}

	var ans *models.ChatAnswer
	var err error
	if *serverURL != "" {
		ans, err = askViaHTTP(*serverURL, req)
	} else {
		components := mustInitialize(*configPath)
		defer components.Close()
		ans, err = components.Service.Ask(context.Background(), req)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnswer(os.Stdout, ans, parseFormat(*outputFormat)); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func askViaHTTP(serverURL string, req models.ChatRequest) (*models.ChatAnswer, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var ans models.ChatAnswer
	if err := json.NewDecoder(resp.Body).Decode(&ans); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &ans, nil
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	components := mustInitialize(*configPath)
	defer components.Close()

	docs, err := components.Service.List(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteDocuments(os.Stdout, docs, parseFormat(*outputFormat)); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: mundap delete [flags] <document-id>")
		os.Exit(1)
	}
	docID := fs.Arg(0)

	components := mustInitialize(*configPath)
	defer components.Close()

	if err := components.Service.Remove(context.Background(), docID); err != nil {
		fmt.Fprintf(os.Stderr, "Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Document deleted: %s\n", docID)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	components := mustInitialize(*configPath)
	defer components.Close()

	st, err := components.Service.Status(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("documents:         %d\n", st.Documents)
		fmt.Printf("cached_chunks:     %d\n", st.CachedChunks)
		fmt.Printf("resident_indexes:  %d\n", st.ResidentIndexes)
		if diskBytes, derr := storage.DiskUsageBytes(cfg.Storage.DocumentsPath, cfg.Storage.ChunkCachePath); derr == nil {
			fmt.Printf("disk_usage_bytes:  %d\n", diskBytes)
		}
		fmt.Println()
		fmt.Println("# configuration")
		fmt.Printf("chunk_size:        %d\n", cfg.Chat.ChunkSize)
		fmt.Printf("chunk_overlap:     %d\n", cfg.Chat.ChunkOverlap)
		fmt.Printf("embedding_model:   %s\n", cfg.Provider.Embedding.Model)
		fmt.Printf("llm_model:         %s\n", cfg.Provider.LLM.Model)
		fmt.Printf("documents_path:    %s\n", cfg.Storage.DocumentsPath)
		fmt.Printf("chunk_cache_path:  %s\n", cfg.Storage.ChunkCachePath)
	}
}

func parseFormat(s string) cli.OutputFormat {
	switch s {
	case "json":
		return cli.OutputJSON
	case "text", "":
		return cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", s)
		os.Exit(1)
		return cli.OutputText
	}
}

// Components holds initialized services.
type Components struct {
	Cache    storage.ChunkCache
	Embedder embedding.Embedder
	LLM      llm.Generator
	Service  *chat.Service
}

func (c *Components) Close() {
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.LLM != nil {
		_ = c.LLM.Close()
	}
}

func mustInitialize(configPath string) *Components {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewDiskDocumentStore(cfg.Storage.DocumentsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document store: %w", err)
	}
	cache, err := storage.NewSQLiteChunkCache(cfg.Storage.ChunkCachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chunk cache: %w", err)
	}

	// Without provider credentials the deterministic mock embedder and a
	// canned generator keep the pipeline usable for local development.
	var embedder embedding.Embedder
	var generator llm.Generator
	apiKey := os.Getenv(cfg.Provider.Embedding.APIKeyEnv)
	if apiKey != "" {
		openaiEmbedder, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:    cfg.Provider.Embedding.BaseURL,
			APIKey:     apiKey,
			Model:      cfg.Provider.Embedding.Model,
			Dimensions: cfg.Provider.Embedding.Dimensions,
			Timeout:    time.Duration(cfg.Provider.Embedding.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
		embedder = embedding.NewCachedEmbedder(openaiEmbedder, cfg.Provider.Embedding.CacheSize)
	} else {
		logger.Warn("embedding API key not set, using mock embedder",
			zap.String("env", cfg.Provider.Embedding.APIKeyEnv))
		embedder = embedding.NewMockEmbedder(cfg.Provider.Embedding.Dimensions)
	}
	llmKey := os.Getenv(cfg.Provider.LLM.APIKeyEnv)
	if llmKey != "" {
		generator, err = llm.NewOpenAIGenerator(llm.OpenAIConfig{
			BaseURL:   cfg.Provider.LLM.BaseURL,
			APIKey:    llmKey,
			Model:     cfg.Provider.LLM.Model,
			MaxTokens: cfg.Provider.LLM.MaxTokens,
			Timeout:   time.Duration(cfg.Provider.LLM.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize generator: %w", err)
		}
	} else {
		logger.Warn("LLM API key not set, using mock generator",
			zap.String("env", cfg.Provider.LLM.APIKeyEnv))
		generator = &llm.MockGenerator{Response: answer.RefusalSentence}
	}

	extractor := extract.NewExtractor()
	chunker := index.NewChunker(cfg.Chat.ChunkSize, cfg.Chat.ChunkOverlap)
	manager := index.NewManager(store, cache, extractor, chunker, embedder, logger)

	service := chat.NewService(chat.Config{
		Store:   store,
		Cache:   cache,
		Manager: manager,
		Retriever: retriever.New(embedder,
			retriever.WithLimits(cfg.Chat.VectorTopK, cfg.Chat.KeywordTopK, cfg.Chat.MaxResults),
			retriever.WithLogger(logger)),
		Synthesizer: answer.NewSynthesizer(generator,
			answer.WithMaxSourceChars(cfg.Chat.MaxSourceChars),
			answer.WithEmphasisTerms(cfg.Chat.EmphasisTerms),
			answer.WithLogger(logger)),
		Extractor:    extractor,
		Logger:       logger,
		DefaultStyle: models.ParseAnswerStyle(cfg.Chat.DefaultStyle),
		DefaultTemp:  cfg.Chat.DefaultTemperature,
	})

	return &Components{
		Cache:    cache,
		Embedder: embedder,
		LLM:      generator,
		Service:  service,
	}, nil
}

func printUsage() {
	fmt.Println(`mundap - document chat over your own files

Usage:
  mundap server [flags]                Start the HTTP server
  mundap ingest [flags] <file>         Ingest a document
  mundap ask [flags] --doc <id> <q>    Ask a question about a document
  mundap list [flags]                  List ingested documents
  mundap delete [flags] <id>           Delete a document
  mundap status [flags]                Show storage/index status
  mundap version                       Show version
  mundap help                          Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/mundap/config.yaml)
  --debug            Enable debug logging

Ingest Flags:
  --config string    Config file path
  --id string        Document id (default: the file name)
  --output string    Output format: text or json (default: text)

Ask Flags:
  --config string       Config file path
  --server string       Server URL (empty = run the pipeline in-process)
  --doc string          Document id to ask against (required)
  --style string        Answer style: professional, friendly, concise, default
  --temperature float   Sampling temperature (negative = config default)
  --output string       Output format: text or json (default: text)

Examples:
  mundap server
  mundap ingest audit-plan.pdf
  mundap ask --doc audit-plan.pdf "What does the audit plan cover?"
  mundap ask --server http://localhost:8080 --doc audit-plan.pdf --style concise "Summarize the risks"
  mundap list
  mundap delete audit-plan.pdf
  mundap status --output json`)
}
