package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/complicopilot/ccp-cli/internal/config"
	"github.com/complicopilot/ccp-cli/internal/export"
	"github.com/complicopilot/ccp-cli/internal/preview"
	"github.com/complicopilot/ccp-cli/internal/receipt"
	"github.com/complicopilot/ccp-cli/internal/session"
	"github.com/complicopilot/ccp-cli/internal/storage"
	"github.com/complicopilot/ccp-cli/internal/store"
	"github.com/complicopilot/ccp-cli/internal/uploader"
	"github.com/complicopilot/ccp-cli/internal/watch"
	"github.com/complicopilot/ccp-cli/internal/wizard"
	"github.com/complicopilot/ccp-cli/pkg/utils"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
)

const usage = `Usage: ccp [-config path] <command> [args]

Commands:
  login <token>        store the session bearer token
  logout               forget the stored token
  upload <files...>    upload receipts and walk the review flow
  watch                watch the drop directory and upload new files
  list [-gstin q]      list cached receipts
  export [-format csv|report|xlsx] [-gstin q]
                       export cached receipts
`

func main() {
	_ = gotenv.Load()

	configPath := flag.String("config", "", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sess, err := session.New(cfg.Session.TokenPath, logger)
	if err != nil {
		logger.Fatal("Failed to initialize session", zap.Error(err))
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "login":
		runLogin(sess, args, logger)
	case "logout":
		runLogout(sess, logger)
	case "upload":
		runUpload(cfg, sess, args, logger)
	case "watch":
		runWatch(cfg, sess, logger)
	case "list":
		runList(cfg, args, logger)
	case "export":
		runExport(cfg, args, logger)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runLogin(sess *session.Session, args []string, logger *zap.Logger) {
	if len(args) != 1 {
		logger.Fatal("login requires exactly one token argument")
	}
	if err := sess.SetToken(args[0]); err != nil {
		logger.Fatal("Failed to store token", zap.Error(err))
	}
	if sess.Expired() {
		fmt.Println("Warning: the stored token is already expired.")
	}
	fmt.Println("Token stored.")
}

func runLogout(sess *session.Session, logger *zap.Logger) {
	if err := sess.ClearToken(); err != nil {
		logger.Fatal("Failed to clear token", zap.Error(err))
	}
	fmt.Println("Token cleared.")
}

// newController assembles the wizard with all its collaborators. The
// store may be nil when the cache cannot be opened; uploads still work.
func newController(cfg *config.Config, sess *session.Session, cache *store.Store, logger *zap.Logger) *wizard.Controller {
	client := uploader.NewClient(cfg.API.BaseURL, cfg.API.Timeout, sess, logger)
	exports := storage.NewLocalExportStorage(cfg.Export.OutputDir, logger)
	previews := preview.NewRenderer(cfg.Preview.OutputDir, logger)

	opts := []wizard.Option{
		wizard.WithPreviewer(previews),
		wizard.WithExportSink(exports),
	}
	if cache != nil {
		opts = append(opts, wizard.WithStore(cache))
	}
	return wizard.NewController(client, sess, consolePresenter{}, logger, opts...)
}

func runUpload(cfg *config.Config, sess *session.Session, args []string, logger *zap.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	approve := fs.Bool("approve", true, "submit the review with the extracted values")
	fs.Parse(args)
	if fs.NArg() == 0 {
		logger.Fatal("upload requires at least one file")
	}

	cache := openCache(cfg, logger)
	if cache != nil {
		defer cache.Close()
	}
	ctrl := newController(cfg, sess, cache, logger)

	cands := make([]receipt.Candidate, 0, fs.NArg())
	for _, path := range fs.Args() {
		cand, err := receipt.CandidateFromFile(path)
		if err != nil {
			logger.Fatal("Failed to read file", zap.String("path", path), zap.Error(err))
		}
		cands = append(cands, cand)
	}

	ctx := context.Background()
	if err := ctrl.OnFileSelected(ctx, cands...); err != nil {
		logger.Fatal("Upload failed", zap.Error(err))
	}

	if ctrl.State() != wizard.StateReview {
		os.Exit(1)
	}

	if len(ctrl.Batch()) > 0 {
		// Batch flow: stay on review, offer the export action.
		if path, err := ctrl.OnExport(); err == nil {
			fmt.Printf("Batch CSV written to %s\n", path)
		} else {
			logger.Error("Batch export failed", zap.Error(err))
		}
		return
	}

	if *approve {
		if err := ctrl.OnSubmitReview(ctx, editsFromCurrent(sess)); err != nil {
			logger.Fatal("Review update failed", zap.Error(err))
		}
	}
}

func runWatch(cfg *config.Config, sess *session.Session, logger *zap.Logger) {
	cache := openCache(cfg, logger)
	if cache != nil {
		defer cache.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := watch.New(watch.Config{Dir: cfg.Watch.Dir, Debounce: cfg.Watch.Debounce}, logger)
	err := watcher.Run(ctx, func(path string) {
		cand, err := receipt.CandidateFromFile(path)
		if err != nil {
			logger.Error("Failed to read dropped file", zap.String("path", path), zap.Error(err))
			return
		}
		// Each dropped file runs its own wizard session.
		ctrl := newController(cfg, sess, cache, logger)
		if err := ctrl.OnFileSelected(ctx, cand); err != nil {
			logger.Error("Failed to upload dropped file", zap.String("path", path), zap.Error(err))
			return
		}
		if ctrl.State() == wizard.StateReview {
			if err := ctrl.OnSubmitReview(ctx, editsFromCurrent(sess)); err != nil {
				logger.Error("Failed to approve dropped file", zap.String("path", path), zap.Error(err))
			}
		}
	})
	if err != nil && ctx.Err() == nil {
		logger.Fatal("Watcher stopped", zap.Error(err))
	}
}

func runList(cfg *config.Config, args []string, logger *zap.Logger) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	gstin := fs.String("gstin", "", "filter by GSTIN substring")
	fs.Parse(args)

	cache := openCache(cfg, logger)
	if cache == nil {
		logger.Fatal("Receipt cache unavailable")
	}
	defer cache.Close()

	records, err := cache.List(store.Filter{GSTIN: *gstin})
	if err != nil {
		logger.Fatal("Failed to list receipts", zap.Error(err))
	}

	for _, rec := range records {
		fmt.Printf("%-36s  %-10s  %-24s  %10s %s  %-13s  %s\n",
			rec.ID, rec.Date, rec.Vendor,
			strconv.FormatFloat(rec.Amount, 'f', 2, 64), rec.Currency,
			rec.Category, rec.Status)
	}
	if len(records) == 1 {
		fmt.Println("1 result")
	} else {
		fmt.Printf("%d results\n", len(records))
	}
}

func runExport(cfg *config.Config, args []string, logger *zap.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "csv", "csv, report or xlsx")
	gstin := fs.String("gstin", "", "filter by GSTIN substring")
	fs.Parse(args)

	cache := openCache(cfg, logger)
	if cache == nil {
		logger.Fatal("Receipt cache unavailable")
	}
	defer cache.Close()

	records, err := cache.List(store.Filter{GSTIN: *gstin})
	if err != nil {
		logger.Fatal("Failed to list receipts", zap.Error(err))
	}
	if len(records) == 0 {
		logger.Fatal("No receipts to export")
	}

	exports := storage.NewLocalExportStorage(cfg.Export.OutputDir, logger)
	now := time.Now()

	var path string
	switch *format {
	case "csv":
		path, err = exports.SaveExport(export.BatchCSVName(now), export.CSV(records, now))
	case "report":
		path, err = exports.SaveExport(export.ReportFilename, export.Report(records))
	case "xlsx":
		path, err = saveExcel(exports, records, now)
	default:
		logger.Fatal("Unknown export format", zap.String("format", *format))
	}
	if err != nil {
		logger.Fatal("Export failed", zap.Error(err))
	}
	fmt.Printf("Export written to %s\n", path)
}

func saveExcel(exports *storage.LocalExportStorage, records []receipt.Record, now time.Time) (string, error) {
	f, err := export.Excel(records, now)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", err
	}
	return exports.SaveExport(export.ExcelName(now), buf.Bytes())
}

// editsFromCurrent mirrors the review form's submit fallbacks: an empty
// vendor becomes "Unknown Vendor", an empty date becomes today.
func editsFromCurrent(sess *session.Session) uploader.ReviewEdits {
	rec := sess.Current()
	if rec == nil {
		return uploader.ReviewEdits{}
	}
	values := receipt.Populate(*rec)

	edits := uploader.ReviewEdits{
		Vendor:   values.Vendor,
		Date:     values.Date,
		Amount:   values.Amount,
		Category: values.Category,
		GSTIN:    values.GSTIN,
	}
	if edits.Vendor == "" {
		edits.Vendor = "Unknown Vendor"
	}
	if edits.Date == "" {
		edits.Date = time.Now().Format("2006-01-02")
	}
	if edits.Category == "" {
		edits.Category = receipt.CategoryUncategorized.String()
	}
	if values.HasTaxAmount {
		tax := values.TaxAmount
		edits.TaxAmount = &tax
	}
	return edits
}

func openCache(cfg *config.Config, logger *zap.Logger) *store.Store {
	cache, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		logger.Warn("Receipt cache unavailable", zap.Error(err))
		return nil
	}
	return cache
}
