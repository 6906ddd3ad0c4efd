package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/legitim/internal/config"
	"github.com/mikey/legitim/internal/core"
	"go.uber.org/zap"
)

// ErrorHeader is stamped instead of a verdict when analysis fails
const ErrorHeader = "X-Legitim-Analysis-Error"

// MessageAnalyzer analyzes whole delivered messages, attachments included
type MessageAnalyzer interface {
	AnalyzeMessage(ctx context.Context, raw string) (*core.AnalysisResult, error)
}

// SMTPFilter is an SMTP content filter: it accepts mail, stamps the verdict
// into the header and relays the message onward.
type SMTPFilter struct {
	analyzer MessageAnalyzer
	logger   *zap.Logger
	cfg      config.SMTPConfig
	timeout  time.Duration
	server   *smtp.Server
}

// NewSMTPFilter creates a new SMTP content filter
func NewSMTPFilter(analyzer MessageAnalyzer, logger *zap.Logger, cfg config.SMTPConfig, timeout time.Duration) *SMTPFilter {
	if cfg.VerdictHeader == "" {
		cfg.VerdictHeader = "X-Legitim-Verdict"
	}
	if cfg.ScoreHeader == "" {
		cfg.ScoreHeader = "X-Legitim-Score"
	}
	if cfg.ReasonHeader == "" {
		cfg.ReasonHeader = "X-Legitim-Reason"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &SMTPFilter{
		analyzer: analyzer,
		logger:   logger,
		cfg:      cfg,
		timeout:  timeout,
	}
}

// Name identifies the intake in logs
func (f *SMTPFilter) Name() string {
	return "smtp"
}

// Start starts the SMTP listener in the background
func (f *SMTPFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})
	f.server.Addr = f.cfg.ListenAddress
	f.server.Domain = f.cfg.Domain
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 << 20
	f.server.MaxRecipients = 50

	f.logger.Info("SMTP filter starting", zap.String("address", f.cfg.ListenAddress))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop closes the SMTP listener
func (f *SMTPFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// Process analyzes a raw message and returns it with verdict headers
// prepended. It returns an *smtp.SMTPError when the message is rejected.
// Analysis failures never reject: the message passes with an error header.
func (f *SMTPFilter) Process(ctx context.Context, raw []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	// Verdict fields already on the message did not come from us
	raw = stripFields(raw, []string{f.cfg.VerdictHeader, f.cfg.ScoreHeader, f.cfg.ReasonHeader, ErrorHeader})

	result, err := f.analyzer.AnalyzeMessage(ctx, string(raw))
	if err != nil {
		f.logger.Error("Failed to analyze relayed message", zap.Error(err))
		return stamp(raw, [][2]string{{ErrorHeader, core.KindOf(err).String()}}), nil
	}

	if !result.Safe && f.cfg.BlockSuspicious {
		f.logger.Info("Rejecting suspicious message",
			zap.Int("score", result.Score),
			zap.String("model", result.ModelUsed))
		return nil, &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Rejected as suspicious (score: %d)", result.Score),
		}
	}

	return stamp(raw, [][2]string{
		{f.cfg.VerdictHeader, result.Verdict()},
		{f.cfg.ScoreHeader, strconv.Itoa(result.Score)},
		{f.cfg.ReasonHeader, foldValue(result.Explanation)},
	}), nil
}

// stamp prepends header fields to a raw message, leaving the rest untouched
func stamp(raw []byte, fields [][2]string) []byte {
	var buf bytes.Buffer
	for _, field := range fields {
		fmt.Fprintf(&buf, "%s: %s\r\n", field[0], field[1])
	}
	buf.Write(raw)
	return buf.Bytes()
}

// stripFields drops header fields named in names, folded lines included.
// Every other byte of the message is kept as received.
func stripFields(raw []byte, names []string) []byte {
	var out bytes.Buffer
	out.Grow(len(raw))

	rest := raw
	dropping := false
	for len(rest) > 0 {
		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line = rest[:i+1]
		}
		rest = rest[len(line):]

		trimmed := bytes.TrimRight(line, "\r\n")
		if len(trimmed) == 0 {
			// End of the header block
			out.Write(line)
			out.Write(rest)
			break
		}
		if trimmed[0] == ' ' || trimmed[0] == '\t' {
			if !dropping {
				out.Write(line)
			}
			continue
		}

		name, _, _ := bytes.Cut(trimmed, []byte(":"))
		dropping = false
		for _, n := range names {
			if strings.EqualFold(strings.TrimSpace(string(name)), n) {
				dropping = true
				break
			}
		}
		if !dropping {
			out.Write(line)
		}
	}
	return out.Bytes()
}

// foldValue makes a value safe for a single header line
func foldValue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// relay hands a processed message to the next hop
func (f *SMTPFilter) relay(sender string, recipients []string, data []byte) error {
	addr := net.JoinHostPort(f.cfg.RelayAddress, strconv.Itoa(f.cfg.RelayPort))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	accepted := false
	for _, rcpt := range recipients {
		if err := c.Rcpt(rcpt, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient", zap.String("recipient", rcpt), zap.Error(err))
			continue
		}
		accepted = true
	}
	if !accepted {
		return errors.New("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// Already delivered
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

type smtpBackend struct {
	filter *SMTPFilter
}

func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

type smtpSession struct {
	filter     *SMTPFilter
	sender     string
	recipients []string
}

func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	stamped, err := s.filter.Process(context.Background(), raw)
	if err != nil {
		return err
	}

	if !s.filter.cfg.RelayEnabled {
		s.filter.logger.Warn("Relay disabled, dropping processed message", zap.String("sender", s.sender))
		return nil
	}

	if err := s.filter.relay(s.sender, s.recipients, stamped); err != nil {
		s.filter.logger.Error("Failed to relay message", zap.String("sender", s.sender), zap.Error(err))
		return err
	}

	s.filter.logger.Info("Relayed message",
		zap.String("sender", s.sender),
		zap.Int("recipients", len(s.recipients)))
	return nil
}

func (s *smtpSession) Logout() error {
	return nil
}
