package visual

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/nfnt/resize"
	qrcode "github.com/skip2/go-qrcode"
)

// ReviewChecklist is the list of questions a person answers against the
// review artifacts before printing.
var ReviewChecklist = []string{
	"Do the four view renders show the expected geometry?",
	"Do the cross sections show the supply tube bore, pockets and walls?",
	"Do the dimensional spot checks match the parameter set?",
	"Is the fill ratio reasonable for a hollow structure (about 15 to 25%)?",
}

// ReviewEntry is one page of the review sheet.
type ReviewEntry struct {
	Analysis Analysis
	// OrthoPNG is the view render, omitted from the page when empty.
	OrthoPNG string
	Passed   bool
	Failures []string
}

// reviewCode is encoded in the QR code of each page.
type reviewCode struct {
	Build     string  `json:"build"`
	Name      string  `json:"name"`
	Component string  `json:"component,omitempty"`
	Volume    float64 `json:"volume_mm3"`
	Passed    bool    `json:"passed"`
}

const (
	reviewMargin = 12.0
	reviewQRSize = 32.0
	reviewImageW = 120.0
	thumbPixels  = 800
)

// WriteReviewSheet writes a PDF with one page per entry and a closing
// checklist page.
func WriteReviewSheet(path, buildID string, entries []ReviewEntry) error {
	if len(entries) == 0 {
		return errors.New("no meshes to review")
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("goldentower review "+buildID, true)
	for i, e := range entries {
		if err := reviewPage(pdf, i, buildID, e); err != nil {
			return fmt.Errorf("review page %q: %w", e.Analysis.Name, err)
		}
	}
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(reviewMargin, reviewMargin)
	pdf.CellFormat(0, 8, "HUMAN REVIEW REQUIRED", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for i, q := range ReviewChecklist {
		pdf.SetX(reviewMargin)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d. %s", i+1, q), "", 1, "L", false, 0, "")
	}
	return pdf.OutputFileAndClose(path)
}

func reviewPage(pdf *fpdf.Fpdf, i int, buildID string, e ReviewEntry) error {
	a := e.Analysis
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(reviewMargin, reviewMargin)
	pdf.CellFormat(0, 8, a.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	status, r, g := "PASSED", 0, 128
	if !e.Passed {
		status, r, g = "FAILED", 200, 0
	}
	pdf.SetTextColor(r, g, 0)
	pdf.SetX(reviewMargin)
	pdf.CellFormat(0, 5, status, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	code, err := json.Marshal(reviewCode{
		Build:     buildID,
		Name:      a.Name,
		Component: string(a.Component),
		Volume:    a.Volume,
		Passed:    e.Passed,
	})
	if err != nil {
		return err
	}
	qrPNG, err := qrcode.Encode(string(code), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("qr code: %w", err)
	}
	qrName := fmt.Sprintf("qr_%d", i)
	pdf.RegisterImageOptionsReader(qrName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(qrName, pageW-reviewMargin-reviewQRSize, reviewMargin, reviewQRSize, reviewQRSize,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	y := reviewMargin + reviewQRSize + 4
	if e.OrthoPNG != "" {
		thumb, ratio, err := thumbnail(e.OrthoPNG)
		if err != nil {
			return err
		}
		imgName := fmt.Sprintf("ortho_%d", i)
		pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(thumb))
		h := reviewImageW * ratio
		pdf.ImageOptions(imgName, (pageW-reviewImageW)/2, y, reviewImageW, h,
			false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		y += h + 4
	}

	lines := a.Lines()
	for _, f := range e.Failures {
		lines = append(lines, "FAIL: "+f)
	}
	pdf.SetFont("Courier", "", 7)
	pdf.SetY(y)
	for _, l := range lines {
		pdf.SetX(reviewMargin)
		pdf.CellFormat(0, 3.2, pdf.UnicodeTranslatorFromDescriptor("")(l), "", 1, "L", false, 0, "")
	}
	return pdf.Error()
}

// thumbnail downsizes the render at path for embedding and returns the PNG
// bytes with the height to width ratio.
func thumbnail(path string) ([]byte, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	thumb := resize.Thumbnail(thumbPixels, thumbPixels, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return nil, 0, err
	}
	b := thumb.Bounds()
	return buf.Bytes(), float64(b.Dy()) / float64(b.Dx()), nil
}
