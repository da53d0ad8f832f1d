// Command snapshot renders dashboard pages in headless Chrome and saves a
// full-page PNG of each, for reports and visual checks of a running server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/config"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/infrastructure"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/pages"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/services"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

type options struct {
	baseURL   string
	pageIDs   []string
	selection domain.Selection
	outDir    string
	headless  bool
	timeout   time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("Snapshot failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	opts, err := parseFlags(args, stdout, cfg)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("command", "snapshot"))

	targets, err := selectPages(pages.Default(), opts.pageIDs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.headless),
		chromedp.WindowSize(1440, 900),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	for _, page := range targets {
		target, err := pageURL(opts.baseURL, page, opts.selection)
		if err != nil {
			return err
		}

		var shot []byte
		pageCtx, cancelPage := context.WithTimeout(browserCtx, opts.timeout)
		err = chromedp.Run(pageCtx, capture(target, readySelector(page, opts.selection), &shot, logger))
		cancelPage()
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", page.ID, err)
		}

		path := filepath.Join(opts.outDir, fileName(page, opts.selection))
		if err := os.WriteFile(path, shot, 0644); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		logger.Info("Saved snapshot",
			slog.String("page", page.ID),
			slog.String("url", target),
			slog.String("path", path),
			slog.Int("size_bytes", len(shot)))
		fmt.Fprintf(stdout, "%s -> %s\n", page.ID, path)
	}
	return nil
}

func parseFlags(args []string, stdout io.Writer, cfg *config.Config) (options, error) {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	fs.SetOutput(stdout)
	baseURL := fs.String("url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port), "dashboard base URL")
	pageList := fs.String("pages", "all", "comma-separated page ids, or all")
	productType := fs.String("type", "", "product type filter")
	company := fs.String("company", "", "company filter")
	version := fs.String("version", "", "product version filter")
	out := fs.String("out", "snapshots", "output directory")
	headless := fs.Bool("headless", true, "run browser headless")
	timeout := fs.Duration("timeout", 30*time.Second, "per-page timeout")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	sel, err := services.ParseSelection(*productType, *company, *version)
	if err != nil {
		return options{}, err
	}

	var ids []string
	if *pageList != "all" {
		for _, id := range strings.Split(*pageList, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	return options{
		baseURL:   strings.TrimRight(*baseURL, "/"),
		pageIDs:   ids,
		selection: sel,
		outDir:    *out,
		headless:  *headless,
		timeout:   *timeout,
	}, nil
}

// selectPages returns the named pages in menu order; no ids means all pages
func selectPages(reg *pages.Registry, ids []string) ([]pages.Page, error) {
	if len(ids) == 0 {
		return reg.List(), nil
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := reg.Get(id); !ok {
			return nil, fmt.Errorf("unknown page %q", id)
		}
		wanted[id] = true
	}
	var out []pages.Page
	for _, p := range reg.List() {
		if wanted[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// pageURL builds the front-end URL of page with the selection in its query
func pageURL(base string, page pages.Page, sel domain.Selection) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base url %q", base)
	}
	u.Path = strings.TrimRight(u.Path, "/") + page.Path

	q := url.Values{}
	if page.Filters {
		if sel.Type != "" {
			q.Set("type", string(sel.Type))
		}
		if sel.Company != "" {
			q.Set("company", sel.Company)
		}
		if sel.Version != "" {
			q.Set("version", sel.Version)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// readySelector is the element whose visibility means the page finished
// rendering. Filtered pages only draw charts once a version is chosen.
func readySelector(page pages.Page, sel domain.Selection) string {
	switch {
	case page.Kind == pages.KindDataset:
		return "#content table"
	case len(page.Panels) > 0 && (!page.Filters || sel.Version != ""):
		return "#content .js-plotly-plot"
	default:
		return "#content > *"
	}
}

func fileName(page pages.Page, sel domain.Selection) string {
	name := page.ID
	if page.Filters && sel.Version != "" {
		name += "_" + slug(sel.Version)
	}
	return name + ".png"
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func capture(target, ready string, shot *[]byte, logger *slog.Logger) chromedp.Tasks {
	return chromedp.Tasks{
		timedAction("Navigate", chromedp.Navigate(target), logger),
		timedAction("WaitReady", chromedp.WaitVisible(ready, chromedp.ByQuery), logger),
		// quality 100 produces PNG
		chromedp.FullScreenshot(shot, 100),
	}
}

func timedAction(name string, act chromedp.Action, logger *slog.Logger) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		start := time.Now()
		err := act.Do(ctx)
		logger.Debug("Browser action",
			slog.String("action", name),
			slog.Duration("duration", time.Since(start)))
		return err
	})
}
