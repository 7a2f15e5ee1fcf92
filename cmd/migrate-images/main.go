package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devmart/media-pipeline-go/internal/config"
	"github.com/devmart/media-pipeline-go/internal/db"
	"github.com/devmart/media-pipeline-go/internal/fetcher"
	"github.com/devmart/media-pipeline-go/internal/logger"
	"github.com/devmart/media-pipeline-go/internal/port"
	"github.com/devmart/media-pipeline-go/internal/repository/postgres"
	"github.com/devmart/media-pipeline-go/internal/storage"
	"github.com/devmart/media-pipeline-go/internal/transcoder"
	imageSvc "github.com/devmart/media-pipeline-go/internal/usecase/image"
)

var allKinds = []string{"projects", "blog", "sections"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "migrate-images: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var kinds []string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate-images",
		Short: "Rewrite stored content to responsive WebP variants",
		Long: `migrate-images walks the content database, derives responsive WebP variants
for every legacy image reference it finds, publishes them to durable storage
and rewrites the stored references in place. Already-migrated references are
skipped, so re-running is always safe.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd.Context(), kinds, dryRun)
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kinds", allKinds, "Entity kinds to migrate (projects, blog, sections)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify references without uploading or persisting anything")
	return cmd
}

func runMigration(ctx context.Context, kinds []string, dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger.Init()

	selected, err := parseKinds(kinds)
	if err != nil {
		return err
	}

	database, err := db.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer database.Close()

	strg, err := storage.NewStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.PublicBaseURL,
		cfg.MinioUseSSL,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize MinIO client: %w", err)
	}
	if err := strg.InitBucket(cfg.MediaBucket); err != nil {
		return fmt.Errorf("failed to initialize bucket %q: %w", cfg.MediaBucket, err)
	}

	contentRepo := postgres.NewContentRepository(database)
	deriver := imageSvc.NewImageDeriver(
		fetcher.NewHTTPFetcher(cfg.FetchTimeout),
		transcoder.NewWebPTranscoder(),
		strg,
		cfg.MediaBucket,
	)
	rewriter := imageSvc.NewContentRewriter(contentRepo, contentRepo, contentRepo, deriver, cfg.PublicBaseURL, dryRun)

	if dryRun {
		logger.Warn(ctx, "⚠️  Dry run: nothing will be uploaded or persisted")
	}

	var total port.RewriteReport
	for _, kind := range selected {
		rep, err := runKind(ctx, rewriter, kind)
		if err != nil {
			// one failing entity type must not stop the others
			logger.Errorf(ctx, "❌  Migration of %s failed: %v", kind, err)
			continue
		}
		printReport(kind, rep)
		total.Add(rep)
	}

	printReport("total", total)
	if total.Failed > 0 {
		logger.Warnf(ctx, "⚠️  %d reference(s) failed to migrate; re-run to retry them", total.Failed)
	}
	return nil
}

func parseKinds(kinds []string) ([]string, error) {
	valid := make(map[string]bool, len(allKinds))
	for _, k := range allKinds {
		valid[k] = true
	}

	var selected []string
	seen := make(map[string]bool)
	for _, k := range kinds {
		k = strings.ToLower(strings.TrimSpace(k))
		if !valid[k] {
			return nil, fmt.Errorf("unknown kind %q (valid kinds: %s)", k, strings.Join(allKinds, ", "))
		}
		if !seen[k] {
			seen[k] = true
			selected = append(selected, k)
		}
	}
	return selected, nil
}

func runKind(ctx context.Context, rewriter port.ContentRewriter, kind string) (port.RewriteReport, error) {
	switch kind {
	case "projects":
		return rewriter.RewriteProjectImages(ctx)
	case "blog":
		return rewriter.RewriteBlogPosts(ctx)
	case "sections":
		return rewriter.RewritePageSections(ctx)
	default:
		return port.RewriteReport{}, fmt.Errorf("unknown kind %q", kind)
	}
}

func printReport(name string, rep port.RewriteReport) {
	fmt.Printf("%-10s entities=%d scanned=%d migrated=%d skipped=%d failed=%d persisted=%d\n",
		name, rep.Entities, rep.Scanned, rep.Migrated, rep.Skipped, rep.Failed, rep.Persisted)
}
