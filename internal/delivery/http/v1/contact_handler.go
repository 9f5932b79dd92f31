package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// maxRequestBody leaves room for an oversized file to be parsed and rejected
// with the file size message instead of a transport error.
const maxRequestBody = 2 * security.MaxUploadSize

var fileTooLargeMessage = fmt.Sprintf("File size too large. Maximum allowed: %.1fMB", float64(security.MaxUploadSize)/(1<<20))

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the public submit route and the admin message routes
func NewContactHandler(public, admin *gin.RouterGroup, contactUC domain.ContactUsecase) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.POST("/contact", handler.SubmitContact)

	admin.GET("/contact", handler.ListMessages)
	admin.GET("/contact/:id", handler.GetMessage)
	admin.PATCH("/contact/:id/status", handler.UpdateStatus)
	admin.DELETE("/contact/:id", handler.DeleteMessage)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Stores a contact form submission with an optional attachment and emails the site owner.
// @Tags         contact
// @Accept       multipart/form-data
// @Produce      json
// @Param        name     formData  string  true   "Sender name (2-100 chars)"
// @Param        email    formData  string  true   "Sender email"
// @Param        subject  formData  string  true   "Subject (5-200 chars)"
// @Param        message  formData  string  true   "Message (10-2000 chars)"
// @Param        phone    formData  string  false  "Phone (max 20 chars)"
// @Param        company  formData  string  false  "Company (max 100 chars)"
// @Param        file     formData  file    false  "Attachment (pdf, doc, docx, txt, png, jpg, jpeg; max 5MB)"
// @Success      200      {object}  response.Response{data=domain.ContactResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)

	var req domain.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	var upload *domain.Upload
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		fh, err := c.FormFile("file")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			c.Error(bindError(err))
			return
		case fh.Filename != "":
			f, err := fh.Open()
			if err != nil {
				c.Error(apperror.Internal(err))
				return
			}
			defer f.Close()
			upload = &domain.Upload{
				Filename:    fh.Filename,
				Size:        fh.Size,
				ContentType: fh.Header.Get("Content-Type"),
				Content:     f,
			}
		}
	}

	meta := domain.SubmissionMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	resp, err := h.contactUC.Submit(c.Request.Context(), &req, upload, meta)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Thank you for your message! I'll get back to you soon.", resp)
}

func bindError(err error) *apperror.AppError {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return apperror.FilePolicy(fileTooLargeMessage)
	}
	return apperror.BadRequest("Invalid form data")
}

// ListMessages godoc
// @Summary      List contact messages
// @Description  Returns messages newest first with optional status filter and pagination.
// @Tags         contact-admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int     false  "Page size (default 50, max 100)"
// @Param        skip    query     int     false  "Items to skip (default 0)"
// @Param        status  query     string  false  "pending, read, replied or archived"
// @Success      200     {object}  response.Response{data=[]domain.ContactResponse}
// @Failure      400     {object}  response.Response
// @Router       /contact [get]
func (h *ContactHandler) ListMessages(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = domain.DefaultListLimit
	}
	skip, err := strconv.Atoi(c.Query("skip"))
	if err != nil {
		skip = 0
	}

	views, err := h.contactUC.List(c.Request.Context(), domain.ContactListFilter{
		Status: domain.ContactStatus(c.Query("status")),
		Skip:   skip,
		Limit:  limit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Contact messages", views)
}

// GetMessage godoc
// @Summary      Get a contact message
// @Tags         contact-admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  response.Response{data=domain.ContactResponse}
// @Failure      404  {object}  response.Response
// @Router       /contact/{id} [get]
func (h *ContactHandler) GetMessage(c *gin.Context) {
	view, err := h.contactUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Contact message", view)
}

// UpdateStatus godoc
// @Summary      Update message status
// @Tags         contact-admin
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Message ID"
// @Param        status  query     string  true  "pending, read, replied or archived"
// @Success      200     {object}  response.Response{data=domain.StatusUpdate}
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /contact/{id}/status [patch]
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	result, err := h.contactUC.UpdateStatus(c.Request.Context(), c.Param("id"), c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}
	logger.Log.Infow("Contact status changed", "id", c.Param("id"), "status", result.Status, "admin", adminSubject(c))
	response.Success(c, http.StatusOK, result.Message, result)
}

// DeleteMessage godoc
// @Summary      Delete a contact message
// @Description  Removes the message and its attachment.
// @Tags         contact-admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /contact/{id} [delete]
func (h *ContactHandler) DeleteMessage(c *gin.Context) {
	if err := h.contactUC.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	logger.Log.Infow("Contact message removed", "id", c.Param("id"), "admin", adminSubject(c))
	response.Success(c, http.StatusOK, "Message deleted successfully", nil)
}

// adminSubject is the token subject set by AdminAuth, empty when admin routes are open.
func adminSubject(c *gin.Context) string {
	return c.GetString(string(domain.KeyAdminSub))
}
