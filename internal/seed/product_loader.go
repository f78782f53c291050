// Package seed bulk-loads products into the backend from a CSV export.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"stockdesk/m/domain"
)

// ProductCreator creates one product lot.
type ProductCreator interface {
	CreateProduct(ctx context.Context, p domain.NewProduct) (domain.Ack, error)
}

// Result counts what an import did.
type Result struct {
	Created int
	Skipped int
	Failed  int
}

// LoadProducts reads a CSV with the header name,price,quantity,batch,expiry_date
// from csvPath and creates each row through creator. Rows the backend rejects, for
// example an existing batch, are logged and counted, not fatal.
func LoadProducts(ctx context.Context, creator ProductCreator, csvPath string, log *slog.Logger) (Result, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return Result{}, fmt.Errorf("open product catalog %s: %w", csvPath, err)
	}
	defer file.Close()
	return Import(ctx, creator, file, log)
}

// Import is LoadProducts over an already open reader.
func Import(ctx context.Context, creator ProductCreator, r io.Reader, log *slog.Logger) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read product header: %w", err)
	}
	cols, err := columns(header)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("unable to read product row", "error", err)
			res.Skipped++
			continue
		}

		p := domain.NewProduct{
			Name:       field(record, cols["name"]),
			Price:      domain.ParseAmount(field(record, cols["price"])),
			Quantity:   domain.ParseQuantity(field(record, cols["quantity"])),
			Batch:      field(record, cols["batch"]),
			ExpiryDate: field(record, cols["expiry_date"]),
		}
		if p.Name == "" || p.Batch == "" {
			res.Skipped++
			continue
		}

		if _, err := creator.CreateProduct(ctx, p); err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			log.Warn("unable to import product", "batch", p.Batch, "error", err)
			res.Failed++
			continue
		}
		res.Created++
	}

	log.Info("imported product catalog", "created", res.Created, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

var required = []string{"name", "price", "quantity", "batch", "expiry_date"}

func columns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("product catalog is missing column %q", name)
		}
	}
	return cols, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
