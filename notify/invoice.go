package notify

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/Athah222/Label-Athah/models"
)

// GenerateInvoicePDF renders a one-page invoice for a persisted order.
func GenerateInvoicePDF(order models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "ATHAH", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Timeless Elegance, Redefined", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Invoice #%s", shortRef(order.OrderRef)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Billed to: %s", order.ShippingAddress.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%s, %s, %s %s", order.ShippingAddress.Street,
		order.ShippingAddress.City, order.ShippingAddress.State, order.ShippingAddress.Zip), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Items table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Size", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 8, "Amount (INR)", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(90, 8, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, item.Size, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 8, fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)), "1", 1, "R", false, 0, "")
	}

	row := func(label string, amount float64) {
		pdf.CellFormat(135, 8, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(55, 8, fmt.Sprintf("%.2f", amount), "1", 1, "R", false, 0, "")
	}
	row("Subtotal", order.Subtotal)
	row("Shipping", order.ShippingCost)
	if order.Discount > 0 {
		row(fmt.Sprintf("Discount (%s)", order.CouponCode), -order.Discount)
	}
	pdf.SetFont("Helvetica", "B", 10)
	row("Total", order.TotalAmount)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
