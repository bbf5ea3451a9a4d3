package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/adsarees/storefront/internal/catalog"
	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/repository"
	"github.com/adsarees/storefront/pkg/metrics"
	"go.uber.org/zap"
)

// RowError describes why one row was dropped. Row is the 1-based line in the
// file, the header being line 1.
type RowError struct {
	Row     int    `json:"row"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

// Result summarises one import run
type Result struct {
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
	Products []string   `json:"products"`
}

// Importer validates rows and persists the passing ones one by one
type Importer struct {
	repo repository.ProductRepository
	// OnCreated is called for each persisted product
	OnCreated func(p *domain.Product)
}

func New(repo repository.ProductRepository) *Importer {
	return &Importer{repo: repo}
}

// ImportFile reads the file and runs the import
func (im *Importer) ImportFile(ctx context.Context, filename string, r io.Reader) (*Result, error) {
	rows, err := ReadRows(filename, r)
	if err != nil {
		return nil, err
	}
	return im.Run(ctx, rows), nil
}

// Run imports rows. A row either passes every rule and is saved, or is
// counted as failed. Blank rows are skipped.
func (im *Importer) Run(ctx context.Context, rows []map[string]string) *Result {
	result := &Result{Errors: make([]RowError, 0), Products: make([]string, 0)}
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		line := i + 2
		p, err := im.prepare(row)
		if err != nil {
			im.fail(result, line, row["product_id"], err.Error())
			continue
		}
		if err := im.repo.Save(ctx, p); err != nil {
			zap.L().Error("importer: save failed", zap.String("id", p.ID), zap.Error(err))
			im.fail(result, line, p.ID, "persist: "+err.Error())
			continue
		}
		result.Imported++
		result.Products = append(result.Products, p.ID)
		metrics.ImportRows.WithLabelValues("imported").Inc()
		if im.OnCreated != nil {
			im.OnCreated(p)
		}
	}
	zap.L().Info("importer: run finished",
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed))
	return result
}

func (im *Importer) prepare(row map[string]string) (*domain.Product, error) {
	record, err := Decode(row)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := catalog.Validate(record); err != nil {
		return nil, err
	}
	return record.ToProduct(), nil
}

func (im *Importer) fail(result *Result, line int, id, msg string) {
	result.Failed++
	result.Errors = append(result.Errors, RowError{Row: line, ID: id, Message: msg})
	metrics.ImportRows.WithLabelValues("failed").Inc()
}
