package http

import (
	"html/template"

	payment "bluemoon-portal/internal/payment/domain"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="vi">
<head>
<meta charset="utf-8">
<title>MÃ QR thanh toán</title>
</head>
<body>
{{- if eq .Phase "loading"}}
<div class="payment-loading">Đang tải thông tin thanh toán...</div>
{{- else if eq .Phase "error"}}
<div class="payment-error">Lỗi: {{.Message}}</div>
{{- else}}
<div class="payment">
  <div class="payment-title"><h1>MÃ QR thanh toán</h1></div>
  <div class="payment-qr">
    <p>Mở Ứng Dụng Ngân Hàng Quét QRCode</p>
    <img src="{{.QRImageURL}}" alt="QR Code Thanh toán">
  </div>
  <div class="payment-card" data-invoice="{{.Details.InvoiceID}}">
    <div class="row"><span>Tên giao dịch:</span><span class="fee">{{.Details.FeeType}}</span></div>
    <div class="row"><span>Số tiền:</span><span class="amount">{{.Details.Amount}}</span></div>
    <div class="row"><span>Tên chủ TK:</span><span class="account-name">{{.Details.AccountName}}</span></div>
    <div class="row"><span>Số tài khoản:</span><span class="account-number">{{.Details.AccountNumber}}</span></div>
    <div class="actions">
      <a class="back" href="{{.BackURL}}" onclick="history.back(); return false;">Quay lại</a>
      <a class="slip" href="{{.SlipBase}}/slip.pdf">PDF</a>
      <a class="slip" href="{{.SlipBase}}/slip.xlsx">XLSX</a>
    </div>
  </div>
</div>
{{- end}}
</body>
</html>
`

type pageData struct {
	Phase      payment.Phase
	Message    string
	Details    payment.PaymentDetails
	QRImageURL string
	BackURL    string
	SlipBase   string
}

func parsePage() (*template.Template, error) {
	return template.New("payment-qr").Parse(pageTemplate)
}
