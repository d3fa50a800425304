// catalog-gen writes a gzipped catalogue file suitable for CATALOG_FILE or
// upload to the S3 catalogue bucket.
package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"shoes-store/internal/catalog"
	"shoes-store/internal/model"

	"github.com/rs/zerolog"
)

func main() {
	in := flag.String("in", "", "Source catalogue (JSON, optionally gzipped); empty uses the built-in catalogue")
	out := flag.String("out", filepath.Join("data", catalog.DefaultObjectName), "Output file")
	flag.Parse()

	var (
		products []model.Product
		err      error
	)
	if *in == "" {
		products, err = catalog.Default()
	} else {
		products, err = catalog.NewFileLoader(zerolog.Nop()).Load(context.Background(), *in)
	}
	if err != nil {
		log.Fatalf("Failed to read catalogue: %v", err)
	}

	// Reject duplicate ids before publishing
	if _, err := catalog.New(products); err != nil {
		log.Fatalf("Invalid catalogue: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	if err := writeCatalog(*out, products); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d products\n", *out, len(products))
}

func writeCatalog(filePath string, products []model.Product) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	if err := json.NewEncoder(gzipWriter).Encode(products); err != nil {
		return fmt.Errorf("failed to write catalogue: %w", err)
	}

	return gzipWriter.Close()
}
