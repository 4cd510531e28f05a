package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"prodesk-chatbot/internal/chunker"
	"prodesk-chatbot/internal/config"
	"prodesk-chatbot/internal/convstore"
	"prodesk-chatbot/internal/embedding"
	"prodesk-chatbot/internal/helper"
	"prodesk-chatbot/internal/ingest"
	"prodesk-chatbot/internal/lexical"
	"prodesk-chatbot/internal/llmservice"
	"prodesk-chatbot/internal/models"
	"prodesk-chatbot/internal/rag"
	"prodesk-chatbot/internal/session"
	"prodesk-chatbot/internal/vectorindex"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	configPath := flag.String("config", configFilePath, "Path to the YAML config file")
	knowledgeFile := flag.String("knowledge", "", "Path to a pre-fetched knowledge JSON file")
	corpusDir := flag.String("corpus", "", "Path to a directory of corpus files (pdf/docx/xlsx/ods/txt/md)")
	query := flag.String("query", "", "Single query to answer")
	sessionID := flag.String("session", "", "Session identifier (generated when empty)")
	chat := flag.Bool("chat", false, "Interactive chat loop on stdin")
	dryRun := flag.Bool("dry-run", false, "Parse and print the corpus without indexing")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	docs := loadCorpus(*knowledgeFile, *corpusDir)
	if *dryRun {
		helper.PrettyPrint(docs)
		return
	}

	if *query == "" && !*chat {
		log.Fatal().Msg("Please provide a -query or -chat")
	}

	orchestrator, cleanup := assemble(cfg, docs)
	defer cleanup()

	sid := *sessionID
	if sid == "" {
		sid = helper.NewSessionID()
		log.Info().Str("session_id", sid).Msg("generated session")
	}

	if *query != "" {
		fmt.Printf("%s\n", orchestrator.Answer(context.Background(), *query, sid))
		return
	}

	runChat(orchestrator, sid)
}

// loadCorpus merges the knowledge JSON file and the corpus directory.
// Ingestion failures are fatal here: without a corpus there is nothing to
// index, and re-running after fixing the source is the recovery path.
func loadCorpus(knowledgeFile, corpusDir string) []models.KnowledgeDocument {
	var docs []models.KnowledgeDocument
	if knowledgeFile != "" {
		loaded, err := ingest.LoadKnowledgeFile(knowledgeFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Error loading knowledge file")
		}
		docs = append(docs, loaded...)
	}
	if corpusDir != "" {
		loaded, err := ingest.LoadCorpusDir(corpusDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Error loading corpus directory")
		}
		docs = append(docs, loaded...)
	}
	if len(docs) == 0 {
		log.Warn().Msg("No corpus provided, retrieval will rely on the fallback responder")
	}
	return docs
}

func assemble(cfg *config.Config, docs []models.KnowledgeDocument) (*rag.Orchestrator, func()) {
	lex := lexical.New(cfg.RAG.TopK, cfg.RAG.MaxContextChars)
	lex.Build(docs)

	opts := rag.Options{TopK: cfg.RAG.TopK, MaxContextChars: cfg.RAG.MaxContextChars}

	embedder, err := embedding.FromConfig(&cfg.EmbedLLM)
	if err != nil {
		log.Warn().Err(err).Msg("Embedder unavailable, vector retrieval disabled")
	} else {
		vec := vectorindex.Open(cfg.RAG.VectorDBPath, cfg.RAG.Collection, cfg.RAG.InMemory, embedder)
		if !vec.Ready() && len(docs) > 0 {
			ck := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
			var chunks []models.Chunk
			for _, d := range docs {
				chunks = append(chunks, ck.Chunk(d)...)
			}
			if err := vec.Build(context.Background(), chunks); err != nil {
				log.Warn().Err(err).Msg("Vector index build failed, degrading to lexical retrieval")
			}
		}
		opts.Vector = vec
	}

	cleanup := func() {}
	if cfg.Database.DSN != "" {
		store, err := convstore.Connect(&cfg.Database)
		if err != nil {
			log.Warn().Err(err).Msg("Conversation store unavailable, turns will not be persisted")
		} else if err := store.Init(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Conversation store init failed, turns will not be persisted")
			_ = store.Close()
		} else {
			opts.Sink = store
			cleanup = func() { _ = store.Close() }
		}
	}

	var generator llmservice.Generator
	client, err := llmservice.NewClient(&cfg.GenLLM)
	if err != nil {
		log.Warn().Err(err).Msg("Generation client unavailable, answering from fallback only")
		generator = llmservice.Unavailable{}
	} else {
		generator = client
	}

	memory := session.NewMemory(cfg.Sessions.Capacity)
	return rag.New(lex, generator, memory, opts), cleanup
}

func runChat(orchestrator *rag.Orchestrator, sid string) {
	fmt.Println("Type your question (Ctrl-D to quit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		fmt.Printf("%s\n\n", orchestrator.Answer(context.Background(), query, sid))
	}
}
