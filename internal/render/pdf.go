package render

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"weighbridge-backend/config"
	"weighbridge-backend/internal/model"
)

// A4 in millimeters.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 15.0
)

var filenameChars = regexp.MustCompile(`[^\w]`)

// Renderer turns a finalized ticket into a printable A4 PDF: the company
// copy on the top half of the page, the driver copy on the bottom half,
// separated by a dashed cut line.
type Renderer struct {
	branding config.BrandingConfig
}

// NewRenderer creates a renderer with the configured branding fields.
func NewRenderer(branding config.BrandingConfig) *Renderer {
	return &Renderer{branding: branding}
}

// Render produces the PDF bytes for one ticket.
func (r *Renderer) Render(t model.Ticket) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	r.drawCopy(pdf, t, 0, "COMPANY COPY")

	pdf.SetDashPattern([]float64{2, 2}, 0)
	pdf.Line(10, pageHeight/2, pageWidth-10, pageHeight/2)
	pdf.SetDashPattern([]float64{}, 0)

	r.drawCopy(pdf, t, pageHeight/2, "DRIVER COPY")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket %d: %w", t.ID, err)
	}
	return buf.Bytes(), nil
}

// FileName builds the output filename from the sanitized driver name and the
// issue timestamp.
func (r *Renderer) FileName(t model.Ticket) string {
	driver := strings.ReplaceAll(strings.TrimSpace(t.Driver), " ", "_")
	driver = filenameChars.ReplaceAllString(driver, "")
	if driver == "" {
		driver = "unnamed"
	}
	return fmt.Sprintf("%s_%s.pdf", driver, t.IssuedAt.Format("20060102_150405"))
}

// drawCopy draws one half-page ticket copy starting at vertical offset top.
func (r *Renderer) drawCopy(pdf *gofpdf.Fpdf, t model.Ticket, top float64, title string) {
	y := top + margin

	if r.branding.LogoPath != "" {
		if _, err := os.Stat(r.branding.LogoPath); err == nil {
			pdf.ImageOptions(r.branding.LogoPath, margin, y-5, 40, 20,
				false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
	}

	pdf.SetFont("Helvetica", "B", 14)
	rightText(pdf, y, r.branding.CompanyName)
	pdf.SetFont("Helvetica", "", 9)
	y += 5
	rightText(pdf, y, "Tax ID: "+r.branding.TaxID)
	y += 5
	rightText(pdf, y, r.branding.Address)
	y += 5
	rightText(pdf, y, "Contact: "+r.branding.Contact)

	y += 10
	pdf.SetFont("Helvetica", "B", 18)
	centerText(pdf, y, "WEIGHING TICKET")
	pdf.SetFont("Helvetica", "I", 10)
	centerText(pdf, y+5, title)
	y += 12

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(margin, y, fmt.Sprintf("Ticket ID: %d", t.ID))
	rightText(pdf, y, "Date/Time: "+t.IssuedAt.Format("02/01/2006 15:04:05"))
	y += 3
	pdf.Line(margin, y, pageWidth-margin, y)
	y += 7

	col2 := margin + 90
	drawField(pdf, margin, y, "Plate:", t.Plate)
	drawField(pdf, col2, y, "Trailer Plate:", orNA(t.TrailerPlate))
	y += 6
	drawField(pdf, margin, y, "Driver:", t.Driver)
	drawField(pdf, col2, y, "Cargo Type:", t.CargoType)
	y += 6
	drawField(pdf, margin, y, "Origin:", t.Origin)
	drawField(pdf, col2, y, "Destination:", t.Destination)

	// Weights box.
	y += 8
	boxHeight := 32.0
	pdf.RoundedRect(margin, y, pageWidth-2*margin, boxHeight, 2, "1234", "D")

	textY := y + 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(margin+5, textY, "Gross Weight:")
	rightTextAt(pdf, pageWidth-margin-5, textY, t.GrossWeight.StringFixed(2)+" kg")
	textY += 8
	pdf.Text(margin+5, textY, "Tare Weight:")
	rightTextAt(pdf, pageWidth-margin-5, textY, t.TareWeight.StringFixed(2)+" kg")
	textY += 2
	pdf.Line(margin+5, textY, pageWidth-margin-5, textY)
	textY += 8

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(200, 0, 0)
	pdf.Text(margin+5, textY, "Net Weight:")
	rightTextAt(pdf, pageWidth-margin-5, textY, t.NetWeight.StringFixed(2)+" kg")
	pdf.SetTextColor(0, 0, 0)

	// Signature line near the bottom of this copy.
	sigY := top + pageHeight/2 - 20
	pdf.Line(pageWidth/2-50, sigY, pageWidth/2+50, sigY)
	pdf.SetFont("Helvetica", "", 9)
	centerText(pdf, sigY+4, "Driver Signature")

	if r.branding.ScaleModel != "" {
		pdf.SetFont("Helvetica", "", 8)
		centerText(pdf, top+pageHeight/2-10, "Weighing Equipment: "+r.branding.ScaleModel)
	}
}

func drawField(pdf *gofpdf.Fpdf, x, y float64, label, value string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(x, y, label)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(x+25, y, value)
}

func centerText(pdf *gofpdf.Fpdf, y float64, s string) {
	pdf.Text((pageWidth-pdf.GetStringWidth(s))/2, y, s)
}

func rightText(pdf *gofpdf.Fpdf, y float64, s string) {
	rightTextAt(pdf, pageWidth-margin, y, s)
}

func rightTextAt(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s), y, s)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
