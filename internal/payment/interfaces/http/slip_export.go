package http

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	payment "bluemoon-portal/internal/payment/domain"
)

var dStroke = strings.NewReplacer("đ", "d", "Đ", "D")

// asciiFold strips Vietnamese diacritics; the PDF core fonts only cover Latin-1.
func asciiFold(value string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), value)
	if err != nil {
		folded = value
	}
	return dStroke.Replace(folded)
}

// BuildSlipPDF renders a one-page payment slip.
func BuildSlipPDF(details payment.PaymentDetails) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, asciiFold("Phiếu thanh toán"))
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	rows := [][2]string{
		{"Mã hóa đơn", details.InvoiceID},
		{"Tên giao dịch", details.FeeType},
		{"Số tiền", details.Amount},
		{"Tên chủ TK", details.AccountName},
		{"Số tài khoản", details.AccountNumber},
	}
	if details.TransactionRef != "" {
		rows = append(rows, [2]string{"Mã giao dịch", details.TransactionRef})
	}
	for _, row := range rows {
		pdf.CellFormat(45, 7, asciiFold(row[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 7, asciiFold(row[1]), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSlipXLSX renders the payment slip as a single-sheet workbook.
func BuildSlipXLSX(details payment.PaymentDetails) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "slip"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Phiếu thanh toán")
	rows := [][2]any{
		{"Mã hóa đơn", details.InvoiceID},
		{"Tên giao dịch", details.FeeType},
		{"Số tiền", details.AmountValue},
		{"Đơn vị", payment.CurrencySuffix},
		{"Tên chủ TK", details.AccountName},
		{"Số tài khoản", details.AccountNumber},
		{"Mã giao dịch", details.TransactionRef},
	}
	for i, row := range rows {
		line := i + 3
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", line), row[0])
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", line), row[1])
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
