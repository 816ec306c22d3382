package report

import (
	"fmt"
	"net/http"

	"go-empms/internal/shared/apperror"
	"go-empms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// ExportEmployee serves CSV for one employee by emp_id, or for all
// employees when emp_id is omitted.
func (h *Handler) ExportEmployee(c *gin.Context) {
	empID := c.Query("emp_id")

	var (
		data     []byte
		filename string
		err      error
	)
	if empID == "" {
		data, filename, err = h.service.ExportAllCSV(c.Request.Context())
	} else {
		data, filename, err = h.service.ExportEmployeeCSV(c.Request.Context(), empID)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}

	serveDownload(c, data, filename, "text/csv")
}

func (h *Handler) ExportEmployeePDF(c *gin.Context) {
	empID := c.Query("emp_id")
	if empID == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "emp_id is required", nil)
		return
	}

	data, filename, err := h.service.ExportEmployeePDF(c.Request.Context(), empID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	serveDownload(c, data, filename, "application/pdf")
}

func (h *Handler) ExportSelf(c *gin.Context) {
	data, filename, err := h.service.ExportSelfCSV(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	serveDownload(c, data, filename, "text/csv")
}

func (h *Handler) ExportSelfPDF(c *gin.Context) {
	data, filename, err := h.service.ExportSelfPDF(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	serveDownload(c, data, filename, "application/pdf")
}

func serveDownload(c *gin.Context, data []byte, filename, contentType string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
