package output

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
	"github.com/opscart/k8s-waste-estimator/pkg/reporter"
)

// Handler delivers a finished report somewhere
type Handler interface {
	Display(ctx context.Context, report *models.Report) error
	Format() string
}

// WriterHandler renders reports to an io.Writer
type WriterHandler struct {
	format reporter.ReportFormat
	w      io.Writer
}

func NewWriterHandler(format reporter.ReportFormat, w io.Writer) *WriterHandler {
	return &WriterHandler{format: format, w: w}
}

func (h *WriterHandler) Display(ctx context.Context, report *models.Report) error {
	return reporter.Write(report, h.format, h.w)
}

func (h *WriterHandler) Format() string {
	return string(h.format)
}

// FileHandler writes each report to a file, replacing its previous contents
type FileHandler struct {
	format reporter.ReportFormat
	path   string
}

func NewFileHandler(format reporter.ReportFormat, path string) *FileHandler {
	return &FileHandler{format: format, path: path}
}

func (h *FileHandler) Display(ctx context.Context, report *models.Report) error {
	f, err := os.Create(h.path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := reporter.Write(report, h.format, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}

func (h *FileHandler) Format() string {
	return string(h.format)
}

// New picks the file handler when a path is given, otherwise stdout
func New(format reporter.ReportFormat, path string) Handler {
	if path == "" {
		return NewWriterHandler(format, os.Stdout)
	}
	return NewFileHandler(format, path)
}
