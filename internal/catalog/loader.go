package catalog

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"shoes-store/internal/model"

	"github.com/rs/zerolog"
)

// Loader reads a product list from a catalogue source.
type Loader interface {
	// Load reads the catalogue at path. The payload is a JSON array of
	// products, optionally gzip compressed.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// DefaultObjectName is the catalogue object read from S3 when no file is
// configured.
const DefaultObjectName = "products.json.gz"

//go:embed data/products.json
var defaultCatalog []byte

// Default returns the built-in catalogue.
func Default() ([]model.Product, error) {
	return Decode(bytes.NewReader(defaultCatalog))
}

// Decode reads a JSON product array from r, transparently un-gzipping it.
func Decode(r io.Reader) ([]model.Product, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		return decodeJSON(gz)
	}

	return decodeJSON(br)
}

func decodeJSON(r io.Reader) ([]model.Product, error) {
	var products []model.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue: %w", err)
	}
	return products, nil
}

// fileLoader implements Loader for catalogue files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context, path string) ([]model.Product, error) {
	l.logger.Info().Str("file", path).Msg("loading catalogue file")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open catalogue file")
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", path, err)
	}
	defer file.Close()

	products, err := Decode(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read catalogue file")
		return nil, fmt.Errorf("failed to read catalogue file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("products_loaded", len(products)).
		Msg("catalogue file loaded successfully")

	return products, nil
}

// Load builds a Catalog from loader when path is set, otherwise from the
// built-in catalogue.
func Load(ctx context.Context, loader Loader, path string) (*Catalog, error) {
	var (
		products []model.Product
		err      error
	)
	if path == "" || loader == nil {
		products, err = Default()
	} else {
		products, err = loader.Load(ctx, path)
	}
	if err != nil {
		return nil, err
	}
	return New(products)
}
