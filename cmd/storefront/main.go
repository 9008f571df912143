// Package main is the storefront CLI entry point.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/storefront/internal/catalog"
	"github.com/hyperjump/storefront/internal/cli"
	"github.com/hyperjump/storefront/internal/config"
	"github.com/hyperjump/storefront/internal/extract"
	"github.com/hyperjump/storefront/internal/filter"
	"github.com/hyperjump/storefront/internal/models"
	"github.com/hyperjump/storefront/internal/pipeline"
	"github.com/hyperjump/storefront/internal/ranking"
	"github.com/hyperjump/storefront/internal/server"
	"github.com/hyperjump/storefront/internal/session"
	"github.com/hyperjump/storefront/internal/storage"
	"github.com/hyperjump/storefront/internal/watcher"
	"github.com/hyperjump/storefront/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/storefront/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in
// the current directory takes precedence if it exists.
// Returns the config and the path that was actually loaded.
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
	case "query":
		runQuery()
	case "categories":
		runCategories()
	case "collections":
		runCollections()
	case "import":
		runImport()
	case "browse":
		runBrowse()
	case "version", "--version", "-v":
		fmt.Printf("storefront version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// stringsFlag collects a repeatable string flag.
type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

// Components holds initialized services.
type Components struct {
	Catalog  *catalog.Catalog
	Pipeline *pipeline.Pipeline
}

// initializeComponents builds the catalog and pipeline and loads every collection.
// Collections that fail to load are logged and stay empty.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) *Components {
	ext := extract.NewExtractor(extract.WithLogger(logger))
	cat := catalog.New(ext, cfg.Collections, catalog.WithLogger(logger))
	if err := cat.LoadAll(ctx); err != nil {
		logger.Warn("some collections failed to load", zap.Error(err))
	}
	return &Components{
		Catalog:  cat,
		Pipeline: newPipeline(cfg, logger),
	}
}

// newPipeline wires the configured weights and certification keywords.
func newPipeline(cfg *config.Config, logger *zap.Logger) *pipeline.Pipeline {
	certs := filter.DefaultCertifications()
	for key, keywords := range cfg.Certifications {
		certs[strings.ToLower(key)] = keywords
	}
	kinds := make(map[string]models.Kind, len(cfg.Collections))
	for _, col := range cfg.Collections {
		kinds[col.Name] = col.Kind
	}
	ranker := ranking.NewRanker(&cfg.Search.Weights)
	return pipeline.New(
		filter.NewFilter(ranker, certs),
		pipeline.WithLogger(logger),
		pipeline.WithPageSize(cfg.Search.PageSize),
		pipeline.WithCollectionKinds(kinds),
	)
}

// setup loads config and creates the logger for a command.
func setup(configPath string, debug bool) (*config.Config, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolved),
		zap.Bool("debug", debugMode),
	)
	return cfg, logger
}

func parseFormat(s string) cli.OutputFormat {
	switch s {
	case "json":
		return cli.OutputJSON
	case "text":
		return cli.OutputText
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", s)
		os.Exit(1)
		return cli.OutputText
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (pipeline runs, reloads, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	components := initializeComponents(ctx, cfg, logger)
	cat := components.Catalog

	if cfg.Watch.EnabledOrDefault() {
		w := watcher.NewWatcher(
			cat.Sources(),
			func(path string) {
				for _, name := range cat.CollectionsForPath(path) {
					if _, err := cat.Reload(ctx, name); err != nil {
						logger.Warn("watch reload failed", zap.String("collection", name), zap.Error(err))
					}
				}
			},
			watcher.WithLogger(logger),
			watcher.WithDebounce(cfg.Watch.Debounce()),
		)
		if err := w.Start(ctx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
	}

	srv := server.NewServer(cat, components.Pipeline, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// queryOptions are the listing flags shared by query and browse.
type queryOptions struct {
	category  string
	sort      string
	page      int
	size      int
	certs     stringsFlag
	attrs     stringsFlag
	minRating string
	maxPrice  string
}

func (o *queryOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.category, "category", "", "category key (default: all)")
	fs.StringVar(&o.sort, "sort", "", "sort order: relevance, newest, oldest, price-low, price-high, rating, popular, featured, badge:<name>, <attr>-asc, <attr>-desc")
	fs.IntVar(&o.page, "page", 0, "page number (0 = no pagination)")
	fs.IntVar(&o.size, "size", 0, "page size (default from config)")
	fs.Var(&o.certs, "cert", "certification key (repeatable or comma-separated)")
	fs.Var(&o.attrs, "attr", "attribute filter such as rating>=4 or price<=40 (repeatable)")
	fs.StringVar(&o.minRating, "min-rating", "", "minimum rating")
	fs.StringVar(&o.maxPrice, "max-price", "", "maximum price")
}

// values renders the options as the URL parameters the API accepts.
func (o *queryOptions) values(search string) url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("category", o.category)
	set("search", search)
	set("sort", o.sort)
	set("min_rating", o.minRating)
	set("max_price", o.maxPrice)
	if o.page != 0 {
		v.Set("page", strconv.Itoa(o.page))
	}
	if o.size != 0 {
		v.Set("size", strconv.Itoa(o.size))
	}
	for _, c := range o.certs {
		v.Add("cert", c)
	}
	for _, a := range o.attrs {
		v.Add("attr", a)
	}
	return v
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// flagsFirst moves flags (and their values) ahead of the positional arguments
// so flag.Parse sees them wherever they were typed. Everything after "--" stays
// positional.
func flagsFirst(fs *flag.FlagSet, args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(a) < 2 || a[0] != '-' {
			positional = append(positional, a)
			continue
		}
		flags = append(flags, a)
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") || isBoolFlag(fs, name) {
			continue
		}
		if i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return append(flags, positional...)
}

func isBoolFlag(fs *flag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	if f == nil {
		return false
	}
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func runQuery() {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = load collections directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	var opts queryOptions
	opts.register(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: storefront query [flags] <collection> [search terms]\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(flagsFirst(fs, os.Args[2:]))

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	collection := fs.Arg(0)
	values := opts.values(buildSearchQuery(fs.Args()[1:]))
	format := parseFormat(*outputFormat)

	var listing *models.Listing
	if *serverURL != "" {
		var err error
		listing, err = queryViaHTTP(*serverURL, collection, values)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, logger := setup(*configPath, false)
		defer logger.Sync()
		q, err := models.DecodeListingQuery(values)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid query: %v\n", err)
			os.Exit(1)
		}
		components := initializeComponents(context.Background(), cfg, logger)
		items, err := components.Catalog.Items(collection)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
			os.Exit(1)
		}
		listing = components.Pipeline.Run(collection, items, q)
	}
	if err := cli.WriteListing(os.Stdout, listing, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func queryViaHTTP(serverURL, collection string, values url.Values) (*models.Listing, error) {
	endpoint := fmt.Sprintf("%s/api/v1/collections/%s/items", strings.TrimRight(serverURL, "/"), url.PathEscape(collection))
	if len(values) > 0 {
		endpoint += "?" + values.Encode()
	}
	resp, err := http.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var listing models.Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &listing, nil
}

func runCategories() {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(flagsFirst(fs, os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: storefront categories [flags] <collection>")
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)
	cfg, logger := setup(*configPath, false)
	defer logger.Sync()

	components := initializeComponents(context.Background(), cfg, logger)
	cats, err := components.Catalog.Categories(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Categories failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteCategories(os.Stdout, cats, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runCollections() {
	fs := flag.NewFlagSet("collections", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format := parseFormat(*outputFormat)
	cfg, logger := setup(*configPath, false)
	defer logger.Sync()

	components := initializeComponents(context.Background(), cfg, logger)
	if err := cli.WriteCollections(os.Stdout, components.Catalog.Collections(), format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// runImport extracts a source file into the SQLite catalog under a collection
// name. The resulting database can itself be used as a collection source.
func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	name := fs.String("collection", "", "collection name (default: source file name)")
	kind := fs.String("kind", string(models.KindPost), "collection kind: post or product")
	_ = fs.Parse(flagsFirst(fs, os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: storefront import [flags] <source>")
		os.Exit(1)
	}
	source := fs.Arg(0)
	collection := *name
	if collection == "" {
		collection = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}

	cfg, logger := setup(*configPath, false)
	defer logger.Sync()

	ctx := context.Background()
	n, err := importCollection(ctx, cfg.Storage.DatabasePath, source, extract.Options{
		Collection: collection,
		Kind:       models.Kind(*kind),
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d item(s) into %s (%s)\n", n, collection, cfg.Storage.DatabasePath)
}

func importCollection(ctx context.Context, dbPath, source string, opts extract.Options, logger *zap.Logger) (int, error) {
	items, err := extract.NewExtractor(extract.WithLogger(logger)).Extract(ctx, source, opts)
	if err != nil {
		return 0, err
	}
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create database directory: %w", err)
		}
	}
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return 0, err
	}
	defer store.Close()
	if err := store.PutItems(ctx, opts.Collection, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

func runBrowse() {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	var opts queryOptions
	opts.register(fs)
	_ = fs.Parse(flagsFirst(fs, os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: storefront browse [flags] <collection> [search terms]")
		os.Exit(1)
	}
	collection := fs.Arg(0)

	cfg, logger := setup(*configPath, false)
	defer logger.Sync()

	seed, err := models.DecodeListingQuery(opts.values(buildSearchQuery(fs.Args()[1:])))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid query: %v\n", err)
		os.Exit(1)
	}
	components := initializeComponents(context.Background(), cfg, logger)
	if _, err := components.Catalog.Kind(collection); err != nil {
		fmt.Fprintf(os.Stderr, "Browse failed: %v\n", err)
		os.Exit(1)
	}

	s := session.New(collection, components.Catalog.Source(collection), components.Pipeline,
		func(l *models.Listing) { _ = cli.WriteListing(os.Stdout, l, cli.OutputText) },
		session.WithQuery(seed),
		session.WithDebounce(cfg.Search.Debounce()),
		session.WithMinQueryLength(cfg.Search.MinQueryLength),
		session.WithLogger(logger),
	)
	browse(os.Stdin, os.Stdout, s)
}

// browse reads commands from r until EOF or /quit. Plain lines are search text.
func browse(r io.Reader, w io.Writer, s *session.Session) {
	defer s.Close()
	s.Refresh()
	fmt.Fprintln(w, cli.DimStyle.Render("Type to search. Commands: /category <key>, /sort <name>, /page <n>, /next, /prev, /cert <keys>, /clear, /quit"))

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		cmd, arg := parseBrowseLine(scanner.Text())
		switch cmd {
		case "":
			if action := s.SetSearch(arg); action == session.Ignored {
				fmt.Fprintln(w, cli.DimStyle.Render("(query too short)"))
			}
		case "category":
			if arg == "" {
				arg = models.CategoryAll
			}
			s.SetCategory(arg)
		case "sort":
			s.SetSort(arg)
		case "page":
			n, err := strconv.Atoi(arg)
			if err != nil {
				cli.WriteError(w, fmt.Errorf("invalid page %q", arg))
				continue
			}
			s.SetPage(n)
		case "next":
			s.SetPage(s.Query().Page + 1)
		case "prev":
			s.SetPage(s.Query().Page - 1)
		case "cert":
			var keys stringsFlag
			_ = keys.Set(arg)
			s.SetCertifications(keys)
		case "clear":
			s.SetSearch("")
		case "quit", "q", "exit":
			return
		default:
			cli.WriteError(w, fmt.Errorf("unknown command /%s", cmd))
		}
	}
	// Input ended without /quit: run the last typed search rather than dropping it.
	s.Flush()
}

// parseBrowseLine splits "/cmd arg" into its parts. A line without a leading
// slash is returned as search text with an empty command.
func parseBrowseLine(line string) (cmd, arg string) {
	line = strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(line, "/")
	if !ok {
		return "", line
	}
	cmd, arg, _ = strings.Cut(rest, " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func printUsage() {
	fmt.Println(`storefront - Listing filter, sort and search for blog posts and product catalogs

Usage:
  storefront server [flags]                         Start the HTTP API
  storefront query [flags] <collection> [terms]     Filter, sort and search a collection
  storefront categories [flags] <collection>        List a collection's categories
  storefront collections [flags]                    List configured collections
  storefront import [flags] <source>                Extract a source into the SQLite catalog
  storefront browse [flags] <collection> [terms]    Interactive listing with debounced search
  storefront version                                Show version
  storefront help                                   Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/storefront/config.yaml)
  --debug            Enable debug logging

Query / Browse Flags:
  --category string    Category key (default: all)
  --sort string        Sort order (relevance, newest, oldest, price-low, price-high, rating, popular, featured)
  --page int           Page number (0 = no pagination)
  --size int           Page size (default from config)
  --cert key           Certification key, repeatable (organic, gots, fairtrade, cruelty-free, vegan)
  --attr expr          Attribute filter, repeatable (rating>=4, price<=40)
  --min-rating float   Minimum rating
  --max-price float    Maximum price
  --server string      (query only) Server URL; empty loads collections directly
  --output string      (query only) Output format: text or json

Import Flags:
  --collection string  Collection name (default: source file name)
  --kind string        post or product (default: post)

Examples:
  storefront server
  storefront query blog zero waste
  storefront query --sort price-low --max-price 40 shop
  storefront query --cert organic --cert vegan shop
  storefront query --server http://localhost:8080 --output json shop bamboo
  storefront import --kind product --collection shop products.xlsx
  storefront browse shop`)
}
