package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/eltrackr/internal/report"
	submissiondomain "github.com/smallbiznis/eltrackr/internal/submission/domain"
	"go.uber.org/zap"
)

const (
	noticeCreated     = "created"
	noticeUpdated     = "updated"
	noticeDeleted     = "deleted"
	noticeNotFound    = "not_found"
	noticeUnavailable = "unavailable"
)

var noticeMessages = map[string]string{
	noticeCreated:     "Submission saved.",
	noticeUpdated:     "Submission updated.",
	noticeDeleted:     "Submission deleted.",
	noticeNotFound:    "That submission does not exist.",
	noticeUnavailable: storeUnavailableMessage,
}

const storeUnavailableMessage = "The record store is unavailable right now. Please try again shortly."

type pageMeta struct {
	Title   string
	Notice  string
	Warning string
}

type indexPage struct {
	pageMeta
	Submissions []submissiondomain.Submission
	Summary     submissiondomain.Summary
}

type formPage struct {
	pageMeta
	Action string
	Submit string
	Form   submissionForm
	Errors map[string]string
}

type viewPage struct {
	pageMeta
	Submission submissiondomain.Submission
}

// IndexPage lists every submission with aggregates computed on this request.
func (s *Server) IndexPage(c *gin.Context) {
	page := indexPage{pageMeta: pageMeta{
		Title:  "Submissions",
		Notice: noticeMessages[c.Query("notice")],
	}}

	items, err := s.submissionSvc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		status := http.StatusInternalServerError
		page.Warning = "Submissions could not be loaded."
		if errors.Is(err, submissiondomain.ErrStoreUnavailable) {
			status = http.StatusServiceUnavailable
			page.Warning = storeUnavailableMessage
		}
		// The store notice would only repeat the warning.
		if page.Notice == noticeMessages[noticeUnavailable] {
			page.Notice = ""
		}
		c.HTML(status, "index.html", page)
		return
	}

	page.Submissions = items
	page.Summary = submissiondomain.Summarize(items)
	c.HTML(http.StatusOK, "index.html", page)
}

func (s *Server) CreatePage(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", newCreateForm(submissionForm{}))
}

func (s *Server) CreateSubmit(c *gin.Context) {
	form := readSubmissionForm(c)
	input, err := form.input()
	if err != nil {
		s.renderFormError(c, newCreateForm(form), err)
		return
	}

	if _, err := s.submissionSvc.Create(c.Request.Context(), input); err != nil {
		s.renderFormError(c, newCreateForm(form), err)
		return
	}

	redirectWithNotice(c, "/", noticeCreated)
}

func (s *Server) EditPage(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	item, err := s.submissionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if isMissing(err) {
			redirectWithNotice(c, "/", noticeNotFound)
			return
		}
		s.renderFormError(c, newEditForm(id, submissionForm{}), err)
		return
	}

	c.HTML(http.StatusOK, "form.html", newEditForm(id, formFromSubmission(item)))
}

func (s *Server) EditSubmit(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	form := readSubmissionForm(c)
	input, err := form.input()
	if err != nil {
		s.renderFormError(c, newEditForm(id, form), err)
		return
	}

	if _, err := s.submissionSvc.Update(c.Request.Context(), id, input); err != nil {
		if isMissing(err) {
			redirectWithNotice(c, "/", noticeNotFound)
			return
		}
		s.renderFormError(c, newEditForm(id, form), err)
		return
	}

	redirectWithNotice(c, "/", noticeUpdated)
}

// DeleteSubmission always answers with a redirect to the list; a missing
// record is reported through the notice rather than an error status.
func (s *Server) DeleteSubmission(c *gin.Context) {
	err := s.submissionSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	switch {
	case err == nil:
		redirectWithNotice(c, "/", noticeDeleted)
	case isMissing(err):
		redirectWithNotice(c, "/", noticeNotFound)
	case errors.Is(err, submissiondomain.ErrStoreUnavailable):
		_ = c.Error(err)
		redirectWithNotice(c, "/", noticeUnavailable)
	default:
		s.renderError(c, http.StatusInternalServerError, "Something went wrong", err)
	}
}

func (s *Server) ViewPage(c *gin.Context) {
	item, err := s.submissionSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		if isMissing(err) {
			redirectWithNotice(c, "/", noticeNotFound)
			return
		}
		s.renderStoreError(c, err)
		return
	}

	c.HTML(http.StatusOK, "view.html", viewPage{
		pageMeta:   pageMeta{Title: item.Name, Notice: noticeMessages[c.Query("notice")]},
		Submission: item,
	})
}

// DownloadReport serves the PDF rendering of one submission.
func (s *Server) DownloadReport(c *gin.Context) {
	item, err := s.submissionSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.reports.Render(c.Request.Context(), item)
	if err != nil {
		s.log.Error("render report failed", zap.String("submission_id", item.ID.String()), zap.Error(err))
		AbortWithError(c, ErrInternal)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.Filename(item)+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func newCreateForm(form submissionForm) formPage {
	return formPage{
		pageMeta: pageMeta{Title: "New submission"},
		Action:   "/create",
		Submit:   "Calculate and save",
		Form:     form,
	}
}

func newEditForm(id string, form submissionForm) formPage {
	return formPage{
		pageMeta: pageMeta{Title: "Edit submission"},
		Action:   "/edit/" + url.PathEscape(id),
		Submit:   "Recalculate and save",
		Form:     form,
	}
}

// renderFormError re-renders a form without writing: 400 with field
// messages for invalid input, 503 with a warning when the store is down.
func (s *Server) renderFormError(c *gin.Context, page formPage, err error) {
	_ = c.Error(err)

	if msgs := fieldMessages(err); len(msgs) > 0 {
		page.Errors = msgs
		page.Warning = "Please correct the highlighted fields."
		c.HTML(http.StatusBadRequest, "form.html", page)
		return
	}

	status := http.StatusInternalServerError
	page.Warning = "The submission could not be saved."
	if errors.Is(err, submissiondomain.ErrStoreUnavailable) {
		status = http.StatusServiceUnavailable
		page.Warning = storeUnavailableMessage
	} else {
		s.log.Error("submission form failed", zap.Error(err))
	}
	c.HTML(status, "form.html", page)
}

func (s *Server) renderStoreError(c *gin.Context, err error) {
	if errors.Is(err, submissiondomain.ErrStoreUnavailable) {
		s.renderError(c, http.StatusServiceUnavailable, "Record store unavailable", err)
		return
	}
	s.renderError(c, http.StatusInternalServerError, "Something went wrong", err)
}

func (s *Server) renderError(c *gin.Context, status int, title string, err error) {
	_ = c.Error(err)
	page := pageMeta{Title: title}
	if status == http.StatusServiceUnavailable {
		page.Warning = storeUnavailableMessage
	} else {
		s.log.Error("request failed", zap.Error(err))
	}
	c.HTML(status, "error.html", page)
}

func redirectWithNotice(c *gin.Context, path, notice string) {
	c.Redirect(http.StatusSeeOther, path+"?notice="+url.QueryEscape(notice))
}

func isMissing(err error) bool {
	return errors.Is(err, submissiondomain.ErrNotFound) || errors.Is(err, submissiondomain.ErrInvalidID)
}
