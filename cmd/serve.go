package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Serhii-Leonenko/ragserver/internal/config"
	"github.com/Serhii-Leonenko/ragserver/internal/db"
	"github.com/Serhii-Leonenko/ragserver/internal/embeddings"
	"github.com/Serhii-Leonenko/ragserver/internal/llm"
	"github.com/Serhii-Leonenko/ragserver/internal/pdf"
	"github.com/Serhii-Leonenko/ragserver/internal/rag"
	"github.com/Serhii-Leonenko/ragserver/internal/server"
	"github.com/Serhii-Leonenko/ragserver/internal/vectordb"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the RAG HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort != 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		log.Printf("starting %s v%s (model %s)", cfg.AppName, cfg.AppVersion, cfg.Model)

		storage, err := pdf.NewStorage(cfg.UploadDir)
		if err != nil {
			return err
		}

		embedder := embeddings.NewOpenAIEmbedder(cfg.APIKey, cfg.BaseURL, cfg.EmbeddingModel)

		store, err := vectordb.NewChromemStore(cfg.PersistDir, cfg.CollectionName, embedder, cfg.RetrievalTopK)
		if err != nil {
			return fmt.Errorf("creating vector store: %w", err)
		}

		registry, err := db.Open(filepath.Join(cfg.PersistDir, "registry.db"))
		if err != nil {
			return fmt.Errorf("opening upload registry: %w", err)
		}
		defer registry.Close()

		// chromem reloads persisted chunks but cannot enumerate them, so the
		// filename set of an existing index is restored from the registry.
		filenames, err := registry.Filenames(cmd.Context())
		if err != nil {
			return fmt.Errorf("restoring filenames: %w", err)
		}
		store.SeedFilenames(filenames)

		provider := llm.NewConcurrencyLimitedProvider(
			llm.NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model),
			cfg.MaxConcurrency,
		)
		generator := rag.NewGenerator(provider, cfg.Model)
		ragService := rag.NewService(store, generator, cfg.RetrievalTopK)

		srv := server.New(server.Config{
			Port:          cfg.Port,
			AppName:       cfg.AppName,
			AppVersion:    cfg.AppVersion,
			MaxUploadSize: cfg.MaxUploadSize,
			AllowAll:      serveAllowAll || cfg.AllowAllOrigins,
		}, registry, store, storage, pdf.NewProcessor(), ragService)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Println("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured port")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}
