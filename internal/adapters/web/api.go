package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mikey/legitim/internal/core"
	"go.uber.org/zap"
)

// AnalyzeRequest is the body of POST /api/v1/analyze
type AnalyzeRequest struct {
	Content string `json:"content" validate:"required"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (s *Server) analyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_request", "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, http.StatusBadRequest, core.KindInvalidInput.String(), core.ErrEmptyInput.Message)
	}

	result, err := s.analyzer.Analyze(c.Request().Context(), req.Content)
	if err != nil {
		status := statusFor(err)
		s.logger.Warn("API analysis failed",
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Int("status", status),
			zap.Error(err))
		return writeError(c, status, core.KindOf(err).String(), userMessage(err))
	}

	return c.JSON(http.StatusOK, result)
}

// statusFor maps an analysis failure kind to an HTTP status
func statusFor(err error) int {
	switch core.KindOf(err) {
	case core.KindInvalidInput:
		return http.StatusBadRequest
	case core.KindTimeout:
		return http.StatusGatewayTimeout
	case core.KindServiceFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, ErrorResponse{
		Error:      code,
		StatusCode: status,
		Message:    message,
	})
}

// handleError renders the not-found page for unknown pages and JSON for the API
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		if werr := writeError(c, status, strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_")), message); werr != nil {
			s.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if status == http.StatusNotFound {
		if rerr := c.Render(http.StatusNotFound, pageNotFound, s.page("Page Not Found", "")); rerr != nil {
			s.logger.Error("Failed to render not found page", zap.Error(rerr))
		}
		return
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	}
	if werr := c.String(status, message); werr != nil {
		s.logger.Error("Failed to write error response", zap.Error(werr))
	}
}
