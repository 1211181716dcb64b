package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/services"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Index interview guideline documents in Qdrant",
	Long: `Extract text from PDF or DOCX guideline documents, chunk and embed it,
and store it in the Qdrant collection the interviewer prompt draws from.
Re-ingesting a file replaces its previous chunks.`,
	Args: cobra.ArbitraryArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringP("dir", "d", "", "Directory of guideline documents to ingest")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	log := getLoggerFromContext(ctx)

	files := append([]string(nil), args...)
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		found, err := guidelineFiles(dir)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no documents given; pass files or --dir")
	}

	embedder, err := services.NewGeminiService(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, cfg.LLM.GeminiEmbedModel)
	if err != nil {
		return fmt.Errorf("failed to initialize embedding client: %w", err)
	}

	index, err := newGuidelineIndex(ctx, cfg, embedder, log)
	if err != nil {
		return fmt.Errorf("failed to initialize guideline index: %w", err)
	}

	extractor := services.NewDocumentExtractor()
	failed := 0
	for _, path := range files {
		name := filepath.Base(path)
		log.Info("📄 Processing document", zap.String("document", name))

		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("❌ Failed to read document", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}

		content, err := extractor.Extract(name, data)
		if err != nil {
			log.Error("❌ Failed to extract text", zap.String("document", name), zap.Error(err))
			failed++
			continue
		}

		stored, err := index.IngestDocument(ctx, name, content.Text)
		if err != nil {
			log.Error("❌ Failed to index document", zap.String("document", name), zap.Error(err))
			failed++
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s: %d chunks stored\n", name, stored)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(files))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "🎉 Document ingestion completed")
	return nil
}

// guidelineFiles lists the PDF and DOCX files directly inside dir.
func guidelineFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := services.DetectFileType(entry.Name()); err != nil {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}
