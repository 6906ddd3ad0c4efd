package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/tool"
	"go.uber.org/zap"
)

// FormCookie names the cookie that ties a browser to its Tool form
const FormCookie = "legitim_form"

func (s *Server) page(title, active string) pageData {
	return pageData{
		Site:   s.content,
		Title:  title,
		Active: active,
		Year:   s.now().Year(),
	}
}

func (s *Server) home(c echo.Context) error {
	return c.Render(http.StatusOK, pageHome, s.page("Email Security", "/"))
}

func (s *Server) pricing(c echo.Context) error {
	return c.Render(http.StatusOK, pagePricing, s.page("Pricing", "/pricing"))
}

func (s *Server) toolPage(c echo.Context) error {
	data := s.page("Verification Tool", "/tool")

	snapshot := tool.Snapshot{State: tool.Idle}
	if form, ok := s.formFor(c); ok {
		snapshot = form.Snapshot()
	}
	data.Tool = NewToolView(snapshot, s.refresh)

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Render(http.StatusOK, pageTool, data)
}

// submitTool starts an analysis and sends the browser back to the Tool page
func (s *Server) submitTool(c echo.Context) error {
	content := c.FormValue("content")

	form, ok := s.formFor(c)
	if !ok {
		if err := s.analyzer.Validate(content); err != nil {
			return s.rejectSubmission(c, tool.Snapshot{State: tool.Idle}, err)
		}
		form = s.forms.Create()
		c.SetCookie(&http.Cookie{
			Name:     FormCookie,
			Value:    form.ID(),
			Path:     "/tool",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	if err := form.Submit(content); err != nil {
		switch {
		case errors.Is(err, tool.ErrAlreadyPending):
			s.logger.Debug("Ignored tool submission",
				zap.String("form_id", form.ID()),
				zap.Error(err))
		case core.KindOf(err) == core.KindInvalidInput:
			return s.rejectSubmission(c, form.Snapshot(), err)
		default:
			return err
		}
	}

	return c.Redirect(http.StatusSeeOther, "/tool")
}

// rejectSubmission answers input the form refused. Blank input is a silent
// no-op; anything else is shown next to the unchanged form state.
func (s *Server) rejectSubmission(c echo.Context, snapshot tool.Snapshot, err error) error {
	if errors.Is(err, core.ErrEmptyInput) {
		return c.Redirect(http.StatusSeeOther, "/tool")
	}
	s.logger.Debug("Rejected tool submission", zap.Error(err))

	data := s.page("Verification Tool", "/tool")
	data.Tool = NewToolView(snapshot, s.refresh)
	data.Tool.Error = userMessage(err)

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Render(http.StatusBadRequest, pageTool, data)
}

func (s *Server) formFor(c echo.Context) (*tool.Form, bool) {
	cookie, err := c.Cookie(FormCookie)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	return s.forms.Get(cookie.Value)
}
