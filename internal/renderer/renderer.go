// =============================================================================
// TSV to PDF Ticket Generator - PDF Form Renderer
// =============================================================================
//
// Fills the delivery ticket template with one order's data and flattens the
// result so the artifact is a plain filled document instead of an interactive
// form. Backed by pdfcpu:
//   1. api.FillFormFile       - fill fields from pdfcpu's form-data JSON
//   2. api.LockFormFieldsFile - bake appearances and mark every field
//                               read-only (flattening)
//   3. api.AddTextWatermarksFile - stamp an explicit glyph over the Delivery
//                               checkbox; template checkbox rendering is
//                               unreliable and must be reinforced
//
// Field names present in the form data but absent from the template are
// skipped by the fill step; a missing field never aborts the document.
//
// =============================================================================

package renderer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/types"
)

// Renderer produces one filled, flattened document per order.
type Renderer interface {
	Render(order types.Order, templatePath, outputPath string) error
}

// CheckboxStamp describes the reinforcement glyph drawn over the Delivery
// checkbox. Offsets are in points from the bottom-left page corner and are
// template-specific, so they live in configuration.
type CheckboxStamp struct {
	Enabled bool
	Glyph   string
	Page    int
	OffsetX float64
	OffsetY float64
	Points  int
}

// PDFRenderer is the pdfcpu-backed Renderer implementation.
type PDFRenderer struct {
	conf  *model.Configuration
	stamp CheckboxStamp
}

// NewPDFRenderer builds a renderer. Validation is relaxed because scanned
// and vendor-generated templates are rarely strictly conformant.
func NewPDFRenderer(stamp CheckboxStamp) *PDFRenderer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFRenderer{conf: conf, stamp: stamp}
}

// Render fills the template with the order's data and writes the flattened
// ticket to outputPath. A *ValidationError is returned (and the order should
// be skipped, not the batch) when the order cannot identify a ticket.
func (r *PDFRenderer) Render(order types.Order, templatePath, outputPath string) error {
	if verr := ValidateOrder(order); verr != nil {
		return verr
	}

	jsonPath, err := writeFormJSON(BuildFormData(order))
	if err != nil {
		return fmt.Errorf("failed to stage form data: %w", err)
	}
	defer os.Remove(jsonPath)

	if err := api.FillFormFile(templatePath, jsonPath, outputPath, r.conf); err != nil {
		return fmt.Errorf("failed to fill form: %w", err)
	}

	// Flatten: forcing every field read-only regenerates and bakes its
	// appearance stream. A nil field list selects all fields.
	if err := api.LockFormFieldsFile(outputPath, "", nil, r.conf); err != nil {
		return fmt.Errorf("failed to flatten form: %w", err)
	}

	if r.stamp.Enabled {
		if err := r.stampDeliveryMark(outputPath); err != nil {
			return fmt.Errorf("failed to stamp delivery mark: %w", err)
		}
	}

	return nil
}

// stampDeliveryMark draws the configured glyph at the Delivery checkbox
// position.
func (r *PDFRenderer) stampDeliveryMark(path string) error {
	page := r.stamp.Page
	if page < 1 {
		page = 1
	}
	desc := fmt.Sprintf("fontname:Helvetica, points:%d, scale:1 abs, rot:0, pos:bl, off:%.1f %.1f, opacity:1",
		r.stamp.Points, r.stamp.OffsetX, r.stamp.OffsetY)
	pages := []string{fmt.Sprintf("%d", page)}
	return api.AddTextWatermarksFile(path, "", pages, true, r.stamp.Glyph, desc, r.conf)
}

// =============================================================================
// PDFCPU FORM DATA JSON
// =============================================================================
//
// Wire format consumed by api.FillFormFile; matches the layout produced by
// `pdfcpu form export`.

type formJSON struct {
	Forms []formSpec `json:"forms"`
}

type formSpec struct {
	TextFields []textFieldSpec `json:"textfield,omitempty"`
	Checkboxes []checkboxSpec  `json:"checkbox,omitempty"`
}

type textFieldSpec struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type checkboxSpec struct {
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

// writeFormJSON stages the form data as a temporary JSON file for pdfcpu and
// returns its path. The caller removes the file.
func writeFormJSON(fd FormData) (string, error) {
	spec := formSpec{}
	for name, value := range fd.Text {
		if value == "" {
			// Leave absent values at the template default.
			continue
		}
		spec.TextFields = append(spec.TextFields, textFieldSpec{Name: name, Value: value})
	}
	for name, value := range fd.Checkboxes {
		spec.Checkboxes = append(spec.Checkboxes, checkboxSpec{Name: name, Value: value})
	}

	payload, err := json.Marshal(formJSON{Forms: []formSpec{spec}})
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "ticket_form_*.json")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
