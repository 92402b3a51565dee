// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package postprocess applies the light PDF touch-ups that follow a
// successful Ghostscript conversion: stripping annotations, stamping the
// archival metadata properties, and validating the result. All object-model
// work is delegated to pdfcpu; nothing here rewrites PDF content streams.
package postprocess

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Property keys stamped onto every converted file.
const (
	PropConformance = "ConformanceLevel"
	PropConvertedAt = "ConversionDate"
	PropConverter   = "Converter"
	PropSource      = "SourceDocument"
)

// Metadata holds the four archival properties stamped onto a converted file.
type Metadata struct {
	// ConformanceLevel asserts the PDF/A level targeted by the conversion,
	// e.g. "PDF/A-2b".
	ConformanceLevel string

	// ConvertedAt is the conversion timestamp, stored as RFC 3339 UTC.
	ConvertedAt time.Time

	// Converter identifies the producing tool, e.g. "pdfa-engine/1.2.0".
	Converter string

	// SourceDocument is the original file's path relative to the input root.
	SourceDocument string
}

// Properties returns the metadata as the pdfcpu property map.
func (m Metadata) Properties() map[string]string {
	return map[string]string{
		PropConformance: m.ConformanceLevel,
		PropConvertedAt: m.ConvertedAt.UTC().Format(time.RFC3339),
		PropConverter:   m.Converter,
		PropSource:      m.SourceDocument,
	}
}

// ConformanceLabel maps a PDF/A part to its level-B conformance label.
// Ghostscript's pdfwrite targets level B (visual appearance) conformance.
func ConformanceLabel(pdfaPart int) string {
	return fmt.Sprintf("PDF/A-%db", pdfaPart)
}

// Processor wraps the pdfcpu operations the pipeline needs.
type Processor struct {
	conf *model.Configuration
}

// NewProcessor returns a Processor with relaxed validation. Ghostscript
// output is structurally sound but occasionally trips pdfcpu's strict mode
// on writer-specific quirks.
func NewProcessor() *Processor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Processor{conf: conf}
}

// PageCount returns the number of pages in the PDF at path.
func (p *Processor) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("counting pages in %s: %w", path, err)
	}
	return n, nil
}

// StripAnnotations removes all annotations from the PDF at path, in place.
// A file with no annotations is left untouched.
func (p *Processor) StripAnnotations(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("listing annotations in %s: %w", path, err)
	}
	annots, err := api.Annotations(f, nil, p.conf)
	f.Close()
	if err != nil {
		return fmt.Errorf("listing annotations in %s: %w", path, err)
	}
	// api.Annotations keys pages that carry annotations; an empty map means
	// there is nothing to remove.
	if len(annots) == 0 {
		return nil
	}

	if err := api.RemoveAnnotationsFile(path, "", nil, nil, nil, p.conf, false); err != nil {
		return fmt.Errorf("removing annotations from %s: %w", path, err)
	}
	return nil
}

// StampMetadata writes the four archival properties onto the PDF at path,
// in place.
func (p *Processor) StampMetadata(path string, meta Metadata) error {
	if err := api.AddPropertiesFile(path, "", meta.Properties(), p.conf); err != nil {
		return fmt.Errorf("stamping metadata on %s: %w", path, err)
	}
	return nil
}

// Properties lists the document properties of the PDF at path, one
// "key = value" line per property, sorted by key.
func (p *Processor) Properties(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("listing properties of %s: %w", path, err)
	}
	defer f.Close()

	props, err := api.Properties(f, p.conf)
	if err != nil {
		return nil, fmt.Errorf("listing properties of %s: %w", path, err)
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s = %s", k, props[k]))
	}
	return lines, nil
}

// Validate checks the structural integrity of the PDF at path.
func (p *Processor) Validate(path string) error {
	if err := api.ValidateFile(path, p.conf); err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}
	return nil
}
