package labels

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"slotboard/infrastructure/layout"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

var errNoLabels = errors.New("no labels to render")

// SlotLabelData is what is printed for one slot.
type SlotLabelData struct {
	Rack     string
	Code     string
	Key      layout.Key
	Shelf    int
	Bay      string
	SubBay   int
	Occupied bool
}

// LabelsForRack builds one label per slot in board order.
func LabelsForRack(group layout.RackGroup, idx *layout.Index) []SlotLabelData {
	out := make([]SlotLabelData, 0, len(group.Items))
	for _, item := range group.Items {
		key, _ := layout.ResolveKey(item.Ident)
		out = append(out, SlotLabelData{
			Rack:     group.Rack,
			Code:     item.Code(),
			Key:      key,
			Shelf:    item.Shelf,
			Bay:      item.Bay,
			SubBay:   item.SubBay,
			Occupied: idx.Has(item.Ident),
		})
	}
	return out
}

func renderSlotLabelsPDF(labels []SlotLabelData, printedAt time.Time) ([]byte, error) {
	if len(labels) == 0 {
		return nil, errNoLabels
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Slot Labels", false)
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if err := addSlotLabelPage(pdf, label, i, printedAt); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}

func addSlotLabelPage(pdf *gofpdf.Fpdf, label SlotLabelData, pageIndex int, printedAt time.Time) error {
	code := strings.TrimSpace(label.Code)
	if code == "" {
		code = "-"
	}
	bay := strings.TrimSpace(label.Bay)
	if bay == "" {
		bay = "-"
	}

	// Codes outside the Code128 character set get no barcode.
	barcodePNG, err := renderCode128PNG(code, 1200, 240)
	if err != nil {
		barcodePNG = nil
	}
	var qrPNG []byte
	if label.Key != "" {
		qrPNG, err = qrcode.Encode(string(label.Key), qrcode.Medium, 512)
		if err != nil {
			return fmt.Errorf("encode qr for %s: %w", label.Key, err)
		}
	}

	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	margin := 12.0
	x0, y0 := margin, margin
	w0, h0 := pageW-2*margin, pageH-2*margin

	pdf.SetLineWidth(0.35)
	pdf.Rect(x0, y0, w0, h0, "")

	qrSize := 70.0
	textW := w0 - qrSize - 12

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(x0+4, y0+4)
	pdf.CellFormat(textW, 8, "RACK "+label.Rack, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	codeFont := fitFontSizeForWidth(pdf, "Helvetica", "B", 96, 28, code, textW)
	pdf.SetFont("Helvetica", "B", codeFont)
	pdf.SetXY(x0+4, y0+16)
	pdf.CellFormat(textW, 40, code, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetXY(x0+4, y0+60)
	pdf.CellFormat(textW, 9, fmt.Sprintf("Shelf %d   Bay %s   Sub-bay %d", label.Shelf, bay, label.SubBay), "", 0, "L", false, 0, "")

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	if qrPNG != nil {
		qrName := fmt.Sprintf("slot-qr-%d", pageIndex)
		pdf.RegisterImageOptionsReader(qrName, opt, bytes.NewReader(qrPNG))
		pdf.ImageOptions(qrName, x0+w0-qrSize-4, y0+4, qrSize, qrSize, false, opt, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(x0+w0-qrSize-4, y0+4+qrSize)
		pdf.CellFormat(qrSize, 5, string(label.Key), "", 0, "C", false, 0, "")
	}

	if barcodePNG != nil {
		barcodeName := fmt.Sprintf("slot-barcode-%d", pageIndex)
		pdf.RegisterImageOptionsReader(barcodeName, opt, bytes.NewReader(barcodePNG))
		imgW := w0 - 40
		imgH := 56.0
		pdf.ImageOptions(barcodeName, x0+20, y0+h0-imgH-24, imgW, imgH, false, opt, 0, "")
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(x0+4, y0+h0-9)
	status := "EMPTY"
	if label.Occupied {
		status = "OCCUPIED"
	}
	pdf.CellFormat(w0-8, 5, fmt.Sprintf("%s   Printed %s", status, printedAt.Format("02/01/2006")), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 1
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := png.Encode(&out, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
