// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/lootportal/lootportal-api/internal/config"
	"github.com/lootportal/lootportal-api/internal/domain/order"
)

// Service handles receipt PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string       `json:"receipt_number"`
	IssuedDate    string       `json:"issued_date"`
	SiteName      string       `json:"site_name"`
	SiteURL       string       `json:"site_url"`
	Order         *order.Order `json:"order"`
}

// GenerateReceipt renders a PDF receipt for an order
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCPT-%s", o.OrderNumber),
		IssuedDate:    time.Now().Format("January 2, 2006"),
		SiteName:      s.config.App.Name,
		SiteURL:       s.config.App.BaseURL,
		Order:         o,
	}

	htmlContent, err := s.renderHTML(data)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) renderHTML(data ReceiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #222; }
  .header { border-bottom: 2px solid #5b21b6; padding-bottom: 12px; margin-bottom: 24px; }
  .header h1 { margin: 0; color: #5b21b6; }
  .meta { margin-bottom: 24px; }
  .meta td { padding: 2px 16px 2px 0; }
  table.items { width: 100%; border-collapse: collapse; }
  table.items th { text-align: left; border-bottom: 1px solid #999; padding: 6px 8px; }
  table.items td { border-bottom: 1px solid #eee; padding: 6px 8px; }
  .total { text-align: right; margin-top: 16px; font-size: 1.2em; }
  .status { text-transform: uppercase; letter-spacing: 1px; }
</style>
</head>
<body>
  <div class="header">
    <h1>{{.SiteName}}</h1>
    <div>{{.SiteURL}}</div>
  </div>

  <table class="meta">
    <tr><td>Receipt</td><td><strong>{{.ReceiptNumber}}</strong></td></tr>
    <tr><td>Order</td><td>{{.Order.OrderNumber}}</td></tr>
    <tr><td>Date</td><td>{{.IssuedDate}}</td></tr>
    <tr><td>Status</td><td class="status">{{.Order.Status}}</td></tr>
    <tr><td>Payment</td><td>{{.Order.PaymentMethod}} / {{.Order.TransactionRef}}</td></tr>
  </table>

  <table class="items">
    <tr><th>Item</th><th>Package</th><th>Qty</th><th>Unit Price</th><th>Total</th></tr>
    {{range .Order.Items}}
    <tr>
      <td>{{.Name}}</td>
      <td>{{.PackageLabel}}</td>
      <td>{{.Quantity}}</td>
      <td>Rs. {{.UnitPrice}}</td>
      <td>Rs. {{.TotalPrice}}</td>
    </tr>
    {{end}}
  </table>

  <div class="total">Total: <strong>Rs. {{.Order.TotalAmount}}</strong></div>
</body>
</html>
`
