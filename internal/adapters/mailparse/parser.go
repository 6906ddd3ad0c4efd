package mailparse

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/utils"
	"go.uber.org/zap"
)

// ErrNoHeader is returned when the content does not start with a header block
var ErrNoHeader = errors.New("content has no message header")

// Parser turns pasted email content, headers included, into a core.Email
type Parser struct {
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewParser creates a new Parser
func NewParser(logger *zap.Logger, textProcessor *utils.TextProcessor) *Parser {
	return &Parser{
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Parse reads the header and the readable body parts of a message
func (p *Parser) Parse(content string) (*core.Email, error) {
	content = strings.TrimLeft(content, "\r\n\t ")
	if !hasHeaderBlock(content) {
		return nil, ErrNoHeader
	}

	mr, err := mail.CreateReader(strings.NewReader(content))
	if err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err) {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	if mr == nil {
		return nil, ErrNoHeader
	}
	defer mr.Close()

	email := &core.Email{Headers: make(map[string][]string)}

	fields := mr.Header.Fields()
	for fields.Next() {
		key := fields.Key()
		email.Headers[key] = append(email.Headers[key], fields.Value())
	}

	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		email.From = from[0].Address
	} else {
		email.From = strings.TrimSpace(mr.Header.Get("From"))
	}
	if to, err := mr.Header.AddressList("To"); err == nil {
		for _, addr := range to {
			email.To = append(email.To, addr.Address)
		}
	}
	if subject, err := mr.Header.Subject(); err == nil {
		email.Subject = subject
	} else {
		email.Subject = mr.Header.Get("Subject")
	}

	var plain, rich strings.Builder
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if message.IsUnknownCharset(err) || message.IsUnknownEncoding(err) {
				p.logger.Debug("Skipping undecodable part", zap.Error(err))
				continue
			}
			// Keep whatever was readable before the broken part
			p.logger.Debug("Stopped reading message parts", zap.Error(err))
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := h.ContentType()
		if err != nil || contentType == "" {
			contentType = "text/plain"
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch contentType {
		case "text/plain":
			plain.Write(body)
			plain.WriteString("\n")
		case "text/html":
			rich.WriteString(HTMLToText(string(body)))
			rich.WriteString("\n")
		}
	}

	email.Body = plain.String()
	if strings.TrimSpace(email.Body) == "" {
		email.Body = rich.String()
	}
	email.Body = p.textProcessor.SanitizeUTF8(email.Body)

	return email, nil
}

// messageFields are header names that only appear in real messages. A
// leading "Urgent: ..." line is prose, not a header block.
var messageFields = map[string]bool{
	"from":                   true,
	"to":                     true,
	"cc":                     true,
	"bcc":                    true,
	"subject":                true,
	"date":                   true,
	"sender":                 true,
	"reply-to":               true,
	"return-path":            true,
	"received":               true,
	"received-spf":           true,
	"message-id":             true,
	"mime-version":           true,
	"content-type":           true,
	"delivered-to":           true,
	"dkim-signature":         true,
	"authentication-results": true,
}

// hasHeaderBlock reports whether content starts with a header block: every
// line up to the first blank one is a field or a folded continuation, and at
// least one field is a known message field
func hasHeaderBlock(content string) bool {
	known := false
	for first := true; content != ""; first = false {
		var line string
		line, content, _ = strings.Cut(content, "\n")
		line = strings.TrimRight(line, "\r")
		if line == "" {
			break
		}
		if line[0] == ' ' || line[0] == '\t' {
			if first {
				return false
			}
			continue
		}
		name, ok := fieldName(line)
		if !ok {
			return false
		}
		if messageFields[strings.ToLower(name)] {
			known = true
		}
	}
	return known
}

// fieldName returns the name of a "Name: value" line
func fieldName(line string) (string, bool) {
	name, _, found := strings.Cut(line, ":")
	if !found || name == "" {
		return "", false
	}
	for _, r := range name {
		// RFC 5322 field names are printable ASCII without spaces or colons
		if r <= ' ' || r > '~' {
			return "", false
		}
	}
	return name, true
}
