// Package receipt renders a printable PDF for a tracked order.
package receipt

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"storefront/models"
)

// Renderer carries the shop details printed on every receipt.
type Renderer struct {
	Brand        string
	BaseURL      string
	SupportEmail string
	WhatsApp     string
}

// Contact is the footer line naming the shop's support channels, or "" when
// none is configured.
func (r Renderer) Contact() string {
	var ways []string
	if r.SupportEmail != "" {
		ways = append(ways, r.SupportEmail)
	}
	if r.WhatsApp != "" {
		ways = append(ways, "WhatsApp "+r.WhatsApp)
	}
	if len(ways) == 0 {
		return ""
	}
	return "Questions? " + strings.Join(ways, " or ")
}

// TrackURL is the public tracking page for orderID, encoded in the QR code.
func (r Renderer) TrackURL(orderID string) string {
	return r.BaseURL + "/track?id=" + url.QueryEscape(orderID)
}

// core fonts are cp1252, so the taka sign is spelled out
func money(d decimal.Decimal) string {
	return "Tk " + d.StringFixed(2)
}

// Render writes the receipt of o as an A4 PDF.
func (r Renderer) Render(w io.Writer, o models.Order, statusLabel string) error {
	qrPNG, err := qrcode.Encode(r.TrackURL(o.OrderID), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s order %s", r.Brand, o.OrderID), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, r.Brand)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, "Order receipt")
	pdf.Ln(10)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, "")

	field := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(40, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}
	field("Order ID:", o.OrderID)
	field("Status:", statusLabel)
	if !o.CreatedAt.IsZero() {
		field("Placed:", o.CreatedAt.Format("02 Jan 2006 15:04"))
	}
	field("Customer:", o.CustomerName)
	field("Phone:", o.CustomerPhone)
	field("Address:", o.CustomerAddress)
	field("Payment:", o.PaymentMethod)
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(100, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, it := range o.Items {
		name := it.Name
		if !it.Variants.IsZero() {
			name = fmt.Sprintf("%s (%s)", name, variantText(*it.Variants))
		}
		sub := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		pdf.CellFormat(100, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprint(it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, money(it.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, money(sub), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	total := func(label string, d decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 11)
		pdf.CellFormat(155, 7, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, money(d), "", 1, "R", false, 0, "")
	}
	total("Subtotal", o.Subtotal, false)
	total("Delivery", o.DeliveryFee, false)
	if o.Discount.IsPositive() {
		total("Discount", o.Discount.Neg(), false)
	}
	total("Total", o.Total, true)

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, "Track this order at "+r.TrackURL(o.OrderID), "", "L", false)
	if contact := r.Contact(); contact != "" {
		pdf.MultiCell(0, 5, contact, "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func variantText(v models.Variants) string {
	switch {
	case v.Size != "" && v.Color != "":
		return v.Size + ", " + v.Color
	case v.Size != "":
		return v.Size
	default:
		return v.Color
	}
}
