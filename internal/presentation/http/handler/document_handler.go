package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pahanabooks/console-api/internal/application/service"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/request"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/response"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/document"
)

// DocumentHandler serves bill previews, downloads, printing and email
type DocumentHandler struct {
	documentService *service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Preview returns the bill card as HTML
func (h *DocumentHandler) Preview(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	html, err := h.documentService.Preview(c.Request.Context(), p, c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Download renders the bill as pdf, xlsx or txt
func (h *DocumentHandler) Download(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	format, err := document.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, apperror.NewBadRequestError(err.Error()))
		return
	}

	out, err := h.documentService.Render(c.Request.Context(), p, c.Param("number"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendRendered(c, out)
}

// Print sends the bill to the receipt printer
func (h *DocumentHandler) Print(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.documentService.Print(c.Request.Context(), p, c.Param("number"))
	if err != nil {
		// The receipt is still useful to the caller when only printing failed
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill sent to printer", gin.H{"receipt": receipt})
}

// Email sends the bill PDF
func (h *DocumentHandler) Email(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req request.EmailBillRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	to, err := h.documentService.Email(c.Request.Context(), p, c.Param("number"), req.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill emailed to "+to, gin.H{"to": to})
}

// PrinterStatus reports the receipt printer state
func (h *DocumentHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.documentService.PrinterStatus(c.Request.Context()))
}

func sendRendered(c *gin.Context, out *service.Rendered) {
	c.Header("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	c.Data(http.StatusOK, out.ContentType, out.Data)
}
