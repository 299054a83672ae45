package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/roach88/irreptables/internal/table"
)

// DefaultFileMode is the permission of table files written by Save.
const DefaultFileMode os.FileMode = 0o644

// LoadOptions selects the table to load.
type LoadOptions struct {
	// Path overrides the default location under the loader root.
	Path string
	// Legacy reads the machine-generated encoding instead of the user one.
	Legacy bool
}

// Loader resolves, fetches and stores table files under a root URL.
type Loader struct {
	fs     afs.Service
	root   string
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used by the loader and passed to the table
// readers.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithService replaces the afs service, e.g. with an in-memory one.
func WithService(fs afs.Service) Option {
	return func(l *Loader) {
		if fs != nil {
			l.fs = fs
		}
	}
}

// NewLoader creates a loader rooted at root. An empty root is the current
// directory.
func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{
		fs:     afs.New(),
		root:   normalize(root),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Root returns the normalized root URL.
func (l *Loader) Root() string {
	return l.root
}

// Resolve returns the default URL of a table under the root.
func (l *Loader) Resolve(number int, spinor, legacy bool) string {
	if legacy {
		return url.Join(l.root, table.LegacyFileName(number))
	}
	return url.Join(l.root, table.FileName(number, spinor))
}

// Fetch downloads the raw text at location, which is resolved against the
// root when it is neither absolute nor a URL.
func (l *Loader) Fetch(ctx context.Context, location string) ([]byte, error) {
	URL := l.locate(location)
	ok, err := l.fs.Exists(ctx, URL)
	if err != nil {
		return nil, &SourceError{Code: ErrCodeFetch, URL: URL, Err: err}
	}
	if !ok {
		return nil, &SourceError{Code: ErrCodeNotFound, URL: URL}
	}
	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, &SourceError{Code: ErrCodeFetch, URL: URL, Err: err}
	}
	l.logger.Debug("table fetched", "url", URL, "bytes", len(data))
	return data, nil
}

// Load fetches and parses the table of a space group. The whole text is
// downloaded before parsing starts, so no resource stays open while the
// table is being read.
func (l *Loader) Load(ctx context.Context, number int, spinor bool, opts LoadOptions) (*table.Table, error) {
	location := opts.Path
	if location == "" {
		location = l.Resolve(number, spinor, opts.Legacy)
	}
	data, err := l.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	if opts.Legacy {
		return table.ReadLegacy(bytes.NewReader(data), number, spinor, table.WithLogger(l.logger))
	}
	return table.ReadUser(bytes.NewReader(data), number, spinor, table.WithLogger(l.logger))
}

// Save writes t in the user encoding and returns the URL written. An empty
// location stores it under the root with its default file name.
func (l *Loader) Save(ctx context.Context, t *table.Table, location string) (string, error) {
	URL := l.Resolve(t.Number, t.Spinor, false)
	if location != "" {
		URL = l.locate(location)
	}
	var buf bytes.Buffer
	if _, err := t.WriteTo(&buf); err != nil {
		return "", err
	}
	if err := l.fs.Upload(ctx, URL, DefaultFileMode, &buf); err != nil {
		return "", &SourceError{Code: ErrCodeWrite, URL: URL, Err: err}
	}
	l.logger.Debug("table saved", "url", URL, "sg", t.Number, "spinor", t.Spinor)
	return URL, nil
}

// Entry is a table file found under the root.
type Entry struct {
	URL    string
	Number int
	Spinor bool
	Legacy bool
}

var (
	userNamePattern   = regexp.MustCompile(`^irreps-SG=(\d+)-(spin|scal)\.dat$`)
	legacyNamePattern = regexp.MustCompile(`^TabIrrepLittle_(\d+)\.txt$`)
)

// Discover walks the root and returns every file named like a table,
// ordered by space-group number, user tables before legacy ones.
func (l *Loader) Discover(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		entry, ok := parseFileName(info.Name())
		if !ok {
			return true, nil
		}
		dir := baseURL
		if parent != "" {
			dir = url.Join(baseURL, parent)
		}
		entry.URL = url.Join(dir, info.Name())
		entries = append(entries, entry)
		return true, nil
	}
	if err := l.fs.Walk(ctx, l.root, visitor); err != nil {
		return nil, &SourceError{Code: ErrCodeFetch, URL: l.root, Err: err}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		if a.Legacy != b.Legacy {
			return !a.Legacy
		}
		return !a.Spinor && b.Spinor
	})
	l.logger.Debug("tables discovered", "root", l.root, "count", len(entries))
	return entries, nil
}

func parseFileName(name string) (Entry, bool) {
	if m := userNamePattern.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Entry{}, false
		}
		return Entry{Number: n, Spinor: m[2] == "spin"}, true
	}
	if m := legacyNamePattern.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Entry{}, false
		}
		return Entry{Number: n, Legacy: true}, true
	}
	return Entry{}, false
}

// locate turns a location into a URL: URLs and absolute paths are kept,
// relative paths are joined to the root.
func (l *Loader) locate(location string) string {
	if isURL(location) {
		return location
	}
	if filepath.IsAbs(location) {
		return location
	}
	return url.Join(l.root, location)
}

func normalize(root string) string {
	if root == "" {
		root = "."
	}
	if isURL(root) {
		return strings.TrimRight(root, "/")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return root
	}
	return abs
}

func isURL(s string) bool {
	return strings.Contains(s, "://")
}

// String describes the loader for diagnostics.
func (l *Loader) String() string {
	return fmt.Sprintf("source.Loader(%s)", l.root)
}
