package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/pahanabooks/console-api/internal/domain/billing"
	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/document"
	"github.com/pahanabooks/console-api/pkg/email"
	"github.com/pahanabooks/console-api/pkg/printer"
)

// Preview badges
const (
	BadgeGenerated = "Bill Generated Successfully!"
	BadgeExisting  = "Viewing Existing Bill"
)

// BillMailer sends bill emails
type BillMailer interface {
	SendBill(msg *email.BillMessage) error
}

// Rendered is a document rendered in one format
type Rendered struct {
	Data        []byte
	ContentType string
	Filename    string
}

// DocumentService renders bills through the shared document builder
type DocumentService struct {
	billing   *BillingService
	customers repository.CustomerRepository
	renderers document.Renderers
	brand     document.Brand
	printer   printer.Printer
	mailer    BillMailer
	notifier  *Notifier
	apiPrefix string
}

// NewDocumentService creates a new document service
func NewDocumentService(
	billingSvc *BillingService,
	customers repository.CustomerRepository,
	renderers document.Renderers,
	brand document.Brand,
	p printer.Printer,
	mailer BillMailer,
	notifier *Notifier,
) *DocumentService {
	if p == nil {
		p = printer.NewNullPrinter()
	}
	return &DocumentService{
		billing:   billingSvc,
		customers: customers,
		renderers: renderers,
		brand:     brand,
		printer:   p,
		mailer:    mailer,
		notifier:  notifier,
		apiPrefix: "/api/v1/billing/bills/",
	}
}

// BillDocument builds the one layout every bill format is rendered from
func (s *DocumentService) BillDocument(bill *entity.Bill, generated bool) *document.Document {
	money := func(v string) string { return s.brand.Money(v) }

	badge := BadgeExisting
	if generated {
		badge = BadgeGenerated
	}

	status := bill.Status.String()
	if status == "" {
		status = enum.BillStatusPending.String()
	}

	meta := []document.Field{
		{Label: "Bill Number", Value: bill.BillNumber, Strong: true},
		{Label: "Date", Value: billDate(bill)},
		{Label: "Status", Value: status, Class: "status-badge " + strings.ToLower(status)},
		{Label: "Payment Method", Value: orNA(bill.PaymentMethod.Label())},
	}
	if bill.TransactionID != "" {
		meta = append(meta, document.Field{Label: "Transaction ID", Value: bill.TransactionID})
	}

	customer := []document.Field{
		{Label: "Name", Value: orNA(bill.CustomerName)},
		{Label: "Account Number", Value: orNA(bill.AccountNumber)},
	}

	rows := make([][]string, 0, len(bill.Items))
	for i, item := range bill.Items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.Title,
			strconv.Itoa(item.Quantity),
			money(billing.Money(item.Price)),
			money(billing.Money(item.LineAmount())),
		})
	}
	items := &document.Table{
		Columns: []document.Column{
			{Title: "#", Align: document.AlignCenter, Width: 10, Role: document.ReceiptSkip},
			{Title: "Item", Role: document.ReceiptLabel},
			{Title: "Qty", Align: document.AlignCenter, Width: 18, Role: document.ReceiptQuantity},
			{Title: "Price", Align: document.AlignRight, Width: 32, Role: document.ReceiptSkip},
			{Title: "Amount", Align: document.AlignRight, Width: 34, Role: document.ReceiptAmount},
		},
		Rows:  rows,
		Empty: "No items on this bill",
	}

	summary := []document.Field{
		{Label: "Subtotal", Value: money(billing.Money(bill.Subtotal))},
	}
	if bill.Discount.IsPositive() {
		summary = append(summary, document.Field{Label: "Discount", Value: "-" + money(billing.Money(bill.Discount)), Class: "discount"})
	}
	if bill.Tax.IsPositive() {
		summary = append(summary, document.Field{Label: "Tax", Value: money(billing.Money(bill.Tax))})
	}
	summary = append(summary, document.Field{Label: "Total", Value: money(billing.Money(bill.Amount())), Strong: true, Class: "total"})

	sections := []document.Section{
		{Heading: "Bill Details", Fields: meta},
		{Heading: "Customer Information", Fields: customer},
		{Heading: "Items", Table: items},
		{Heading: "Summary", Fields: summary},
	}
	if bill.AdminNotes != "" {
		sections = append(sections, document.Section{Heading: "Notes", Fields: []document.Field{{Label: "Admin Notes", Value: bill.AdminNotes}}})
	}

	href := s.apiPrefix + bill.BillNumber
	actions := []document.Action{
		{Name: "print", Label: "Print Bill", Method: "POST", Href: href + "/print"},
		{Name: "download", Label: "Download PDF", Method: "GET", Href: href + "/document?format=pdf"},
		{Name: "email", Label: "Email Bill", Method: "POST", Href: href + "/email"},
	}
	if bill.Status != enum.BillStatusSaved {
		actions = append([]document.Action{{Name: "save", Label: "Save Bill", Method: "POST", Href: href + "/save"}}, actions...)
	}

	return &document.Document{
		Brand:       s.brand,
		Title:       "INVOICE",
		Subtitle:    "Bill #" + bill.BillNumber,
		Badge:       badge,
		Sections:    sections,
		Actions:     actions,
		Footer:      "Thank you for your purchase!",
		Filename:    "bill-" + bill.BillNumber,
		GeneratedAt: time.Now(),
	}
}

// Render renders a bill in the requested format
func (s *DocumentService) Render(ctx context.Context, p *Principal, billNumber string, format document.Format) (*Rendered, error) {
	current, err := s.billing.GetBill(ctx, p, billNumber)
	if err != nil {
		return nil, err
	}
	return s.render(s.BillDocument(current.Bill, current.Generated), format)
}

// Preview renders the bill card shown after generation or when a bill is
// opened from history
func (s *DocumentService) Preview(ctx context.Context, p *Principal, billNumber string) (string, error) {
	out, err := s.Render(ctx, p, billNumber, document.FormatHTML)
	if err != nil {
		return "", err
	}
	return string(out.Data), nil
}

// Print sends a bill to the receipt printer. The receipt is returned even
// when printing fails so the caller can show it.
func (s *DocumentService) Print(ctx context.Context, p *Principal, billNumber string) (*entity.Receipt, error) {
	current, err := s.billing.GetBill(ctx, p, billNumber)
	if err != nil {
		return nil, err
	}

	receipt := s.receipt(current.Bill)
	out, err := s.render(s.BillDocument(current.Bill, current.Generated), document.FormatESCPOS)
	if err != nil {
		return receipt, err
	}

	if err := s.printer.Print(ctx, out.Data); err != nil {
		log.Printf("[documents] printing bill %s: %v", billNumber, err)
		if s.notifier != nil {
			s.notifier.Notify(LevelError, "Failed to print bill "+billNumber, true)
		}
		return receipt, apperror.NewAppError(503, fmt.Sprintf("failed to print receipt: %v", err))
	}
	return receipt, nil
}

// PrinterStatus returns the current printer status information
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// PrinterStatus reports whether a receipt printer is reachable
func (s *DocumentService) PrinterStatus(ctx context.Context) *PrinterStatus {
	kind := s.printer.Kind()
	return &PrinterStatus{
		Configured: kind != "none",
		Connected:  s.printer.IsConnected(ctx),
		Type:       kind,
	}
}

// Email sends the bill PDF to the customer. An empty address falls back to
// the address on the customer record.
func (s *DocumentService) Email(ctx context.Context, p *Principal, billNumber, to string) (string, error) {
	if s.mailer == nil {
		return "", apperror.NewAppError(503, "Email is not configured")
	}

	current, err := s.billing.GetBill(ctx, p, billNumber)
	if err != nil {
		return "", err
	}
	bill := current.Bill

	to = strings.TrimSpace(to)
	if to == "" && bill.AccountNumber != "" {
		customer, err := s.customers.GetByAccountNumber(ctx, bill.AccountNumber)
		if err != nil {
			return "", err
		}
		if customer != nil {
			to = customer.Email
		}
	}
	if to == "" {
		return "", apperror.NewFieldError("email", "Customer has no email address")
	}

	pdf, err := s.render(s.BillDocument(bill, current.Generated), document.FormatPDF)
	if err != nil {
		return "", err
	}

	err = s.mailer.SendBill(&email.BillMessage{
		To:           to,
		CustomerName: bill.CustomerName,
		BillNumber:   bill.BillNumber,
		Total:        s.brand.Money(billing.Money(bill.Amount())),
		Attachment:   &email.Attachment{Filename: pdf.Filename, ContentType: pdf.ContentType, Data: pdf.Data},
	})
	if errors.Is(err, email.ErrNotConfigured) {
		return "", apperror.NewAppError(503, "Email is not configured")
	}
	if err != nil {
		log.Printf("[documents] emailing bill %s: %v", bill.BillNumber, err)
		if s.notifier != nil {
			s.notifier.Notify(LevelError, "Failed to email bill "+bill.BillNumber, true)
		}
		return "", apperror.NewAppError(502, "Failed to send email")
	}
	return to, nil
}

func (s *DocumentService) render(doc *document.Document, format document.Format) (*Rendered, error) {
	return renderDocument(s.renderers, doc, format)
}

// renderDocument runs doc through the renderer registered for format
func renderDocument(renderers document.Renderers, doc *document.Document, format document.Format) (*Rendered, error) {
	r, err := renderers.For(format)
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", format, err)
	}
	return &Rendered{Data: buf.Bytes(), ContentType: r.ContentType(), Filename: doc.FileName(format)}, nil
}

func (s *DocumentService) receipt(bill *entity.Bill) *entity.Receipt {
	r := &entity.Receipt{
		Header:        entity.ReceiptHeader{StoreName: s.brand.Name, Tagline: s.brand.Tagline},
		BillNumber:    bill.BillNumber,
		Date:          billDate(bill),
		Customer:      bill.CustomerName,
		AccountNumber: bill.AccountNumber,
		PaymentMethod: bill.PaymentMethod.Label(),
		TransactionID: bill.TransactionID,
		Subtotal:      bill.Subtotal,
		Discount:      bill.Discount,
		Tax:           bill.Tax,
		Total:         bill.Amount(),
		Status:        bill.Status.String(),
	}
	for _, item := range bill.Items {
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Total:     item.LineAmount(),
		})
	}
	return r
}

func billDate(bill *entity.Bill) string {
	if bill.BillDate.IsZero() {
		return "N/A"
	}
	return bill.BillDate.Format("2006-01-02 15:04")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
