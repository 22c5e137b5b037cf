package invoice

import (
	"Supermarket-Vision-Backend/domain"
	"bytes"
	"fmt"
	"github.com/go-pdf/fpdf"
	"strings"
	"time"
)

const walkInCustomer = "Walk-in Customer"

// Render lays out the invoice of order on one A4 page: header, invoice
// details, bill-to block, item table, totals and footer.
func Render(order domain.OrderResponse, storeName string, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice #"+order.InvoiceNumber, true)
	pdf.SetCreationDate(order.CreatedAt)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, tr(storeName), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Invoice Details:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	line(pdf, "Invoice Number: #"+order.InvoiceNumber)
	line(pdf, "Date: "+order.CreatedAt.In(loc).Format("January 2, 2006 15:04"))
	line(pdf, "Status: "+strings.ToUpper(order.Status))
	pdf.Ln(4)

	customer := order.CustomerName
	if customer == "" {
		customer = walkInCustomer
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Bill To:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	line(pdf, tr("Name: "+customer))
	if order.CustomerEmail != "" {
		line(pdf, "Email: "+order.CustomerEmail)
	}
	if order.CustomerPhone != "" {
		line(pdf, "Phone: "+order.CustomerPhone)
	}
	pdf.Ln(6)

	widths := []float64{85, 20, 35, 35}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range []string{"Item", "Qty", "Unit Price", "Total"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, header, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(widths[0], 7, tr(item.ProductName), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, money(item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, money(item.TotalPrice), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	left, _, right, _ := pdf.GetMargins()
	labelX := pageWidth - right - 70
	pdf.Line(labelX, pdf.GetY(), pageWidth-right, pdf.GetY())
	pdf.Ln(2)
	total(pdf, labelX, "Subtotal:", order.Subtotal, false)
	total(pdf, labelX, "Tax:", order.Tax, false)
	total(pdf, labelX, "Total:", order.Total, true)

	pdf.Ln(12)
	pdf.SetX(left)
	pdf.SetFont("Helvetica", "I", 11)
	pdf.CellFormat(0, 8, "Thank you for your business!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func line(pdf *fpdf.Fpdf, text string) {
	pdf.Cell(0, 6, text)
	pdf.Ln(6)
}

func total(pdf *fpdf.Fpdf, x float64, label string, amount float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 11)
	pdf.SetX(x)
	pdf.CellFormat(35, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, money(amount), "", 1, "R", false, 0, "")
}

func money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
