package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Render paints the planned layout into PDF bytes. The planner already
// decided column widths, cell lines and page breaks; this pass only draws.
// The whole document is produced in memory and no row ever continues onto
// the next page. chartPNG may be nil when no chart was requested.
func Render(plan *Plan, chartPNG []byte) ([]byte, error) {
	geo := plan.Geometry

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	// Fixed creation date keeps identical inputs byte-identical.
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	total := len(plan.Pages)
	for i, page := range plan.Pages {
		pdf.AddPage()
		y := geo.Margin

		if i == 0 {
			pdf.SetFont("Helvetica", "B", 16)
			pdf.Text(geo.Margin, y+6, tr(plan.Title))
			pdf.SetFont("Helvetica", "", 10)
			pdf.Text(geo.Margin, y+12, tr(plan.Period))
			y += geo.TitleBlock

			if len(chartPNG) > 0 && plan.ChartReserved > 0 {
				opts := gofpdf.ImageOptions{ImageType: "PNG"}
				pdf.RegisterImageOptionsReader("bgl-trend", opts, bytes.NewReader(chartPNG))
				pdf.ImageOptions("bgl-trend", geo.Margin, y, geo.BodyWidth(), geo.ChartHeight, false, opts, 0, "")
				y += plan.ChartReserved
			}
		}

		y = drawHeader(pdf, plan, y, tr)
		for _, row := range page.Rows {
			y = drawRow(pdf, plan, row, y, tr)
		}

		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		footer := fmt.Sprintf("Page %d of %d", i+1, total)
		pdf.Text(geo.PageWidth/2-pdf.GetStringWidth(footer)/2, geo.PageHeight-geo.Margin+6, footer)
		pdf.SetTextColor(0, 0, 0)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("render pdf: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(pdf *gofpdf.Fpdf, plan *Plan, y float64, tr func(string) string) float64 {
	geo := plan.Geometry

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(225, 228, 235)
	pdf.SetDrawColor(120, 120, 120)

	x := geo.Margin
	for _, col := range plan.Columns {
		pdf.Rect(x, y, col.Width, geo.HeaderRow, "FD")
		pdf.Text(x+1.5, y+geo.HeaderRow/2+1.4, tr(col.Title))
		x += col.Width
	}
	return y + geo.HeaderRow
}

func drawRow(pdf *gofpdf.Fpdf, plan *Plan, row *Row, y float64, tr func(string) string) float64 {
	geo := plan.Geometry

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetDrawColor(170, 170, 170)

	x := geo.Margin
	for i, col := range plan.Columns {
		pdf.Rect(x, y, col.Width, row.Height, "D")
		for j, line := range row.Cells[i] {
			baseline := y + geo.CellPadding + float64(j+1)*geo.LineHeight - 1.0
			pdf.Text(x+1.5, baseline, tr(line))
		}
		x += col.Width
	}
	return y + row.Height
}
