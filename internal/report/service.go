package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/signintech/gopdf"

	"eye-diagnosis-api/internal/diagnosis"
)

// DefaultFontPaths are the usual DejaVuSans locations on Debian and Alpine images.
var DefaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

const (
	fontFamily = "DejaVu"
	textWidth  = 495

	marginX    = 50
	marginTop  = 40
	bodyBottom = 770 // body text never goes below this; the footer sits under it
	footerY    = 800
)

type Service struct {
	fontPaths []string
	now       func() time.Time
}

func NewService(fontPaths []string) *Service {
	if len(fontPaths) == 0 {
		fontPaths = DefaultFontPaths
	}
	return &Service{
		fontPaths: fontPaths,
		now:       time.Now,
	}
}

// Render lays out a prediction result on as many A4 pages as its text needs.
func (s *Service) Render(scanID uuid.UUID, res diagnosis.Result) ([]byte, error) {
	pdf, err := s.layout(scanID, res)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) layout(scanID uuid.UUID, res diagnosis.Result) (*gopdf.GoPdf, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.SetMargins(marginX, marginTop, marginX, marginTop)
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont(fontFamily, path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load font for PDF from %v: %w", s.fontPaths, fontErr)
	}

	w := &writer{pdf: &pdf}

	w.heading(20, "Eye Scan Report")
	w.br(30)

	w.font(12)
	w.line(fmt.Sprintf("Date: %s", s.now().Format("02.01.2006 15:04")))
	w.line(fmt.Sprintf("Scan ID: %s", scanID))
	w.line(fmt.Sprintf("Result: %s (%s)", res.Disease, res.Status))
	w.line(fmt.Sprintf("Confidence: %.0f%%", res.Confidence*100))
	w.br(10)

	w.section("Overview")
	w.paragraph(res.Data.Overview)

	w.section("Common causes")
	w.bullets(res.Data.Causes)

	w.section("Symptoms")
	w.bullets(res.Data.Symptoms)

	w.section("Precautions")
	w.bullets(res.Data.Precautions)

	w.section("Doctor's advice")
	w.paragraph(res.Data.DoctorAdvice)

	w.section("Recommendation")
	w.paragraph(res.Data.Recommendation)

	// Footer goes on the last page, below the body.
	pdf.SetY(footerY)
	w.font(9)
	if w.err == nil {
		w.err = pdf.Cell(nil, "Simulated result for informational purposes only. Always consult a specialist.")
	}

	if w.err != nil {
		return nil, w.err
	}
	return &pdf, nil
}

// writer keeps the first layout error so Render can check once at the end.
type writer struct {
	pdf *gopdf.GoPdf
	err error
}

func (w *writer) font(size int) {
	if w.err != nil {
		return
	}
	w.err = w.pdf.SetFont(fontFamily, "", size)
}

// fit starts a new page when the next h points would run into the footer area.
func (w *writer) fit(h float64) {
	if w.pdf.GetY()+h > bodyBottom {
		w.pdf.AddPage()
	}
}

func (w *writer) br(h float64) {
	w.fit(h)
	w.pdf.Br(h)
}

func (w *writer) line(text string) {
	if w.err != nil {
		return
	}
	w.fit(15)
	w.err = w.pdf.Cell(nil, text)
	w.pdf.Br(15)
}

func (w *writer) heading(size int, text string) {
	w.font(size)
	if w.err != nil {
		return
	}
	w.err = w.pdf.Cell(nil, text)
}

func (w *writer) section(title string) {
	w.br(10)
	// keep a title together with the first line under it
	w.fit(27)
	w.font(14)
	w.line(title)
	w.font(11)
}

func (w *writer) paragraph(text string) {
	if w.err != nil {
		return
	}
	lines, err := w.pdf.SplitText(text, textWidth)
	if err != nil {
		w.err = err
		return
	}
	for _, l := range lines {
		w.fit(12)
		if w.err = w.pdf.Cell(nil, l); w.err != nil {
			return
		}
		w.pdf.Br(12)
	}
}

func (w *writer) bullets(items []string) {
	for _, item := range items {
		w.paragraph("- " + item)
	}
}
