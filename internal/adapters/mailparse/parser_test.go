package mailparse

import (
	"testing"

	"github.com/mikey/legitim/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newParser() *Parser {
	logger := zap.NewNop()
	return NewParser(logger, utils.NewTextProcessor(logger))
}

func TestParsePlainMessage(t *testing.T) {
	raw := "From: \"PayPal Security\" <security@paypa1.example>\r\n" +
		"To: alice@example.com, bob@example.com\r\n" +
		"Subject: Urgent: verify your account\r\n" +
		"Authentication-Results: mx.example.com; spf=fail\r\n" +
		"\r\n" +
		"Click here to verify: http://paypa1.example/login\r\n"

	email, err := newParser().Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "security@paypa1.example", email.From)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, email.To)
	assert.Equal(t, "Urgent: verify your account", email.Subject)
	assert.Equal(t, []string{"mx.example.com; spf=fail"}, email.Headers["Authentication-Results"])
	assert.Contains(t, email.Body, "http://paypa1.example/login")
}

func TestParseMultipartPrefersPlainText(t *testing.T) {
	raw := "From: alice@example.com\r\n" +
		"Subject: Hello\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"plain body\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<p>html body</p>\r\n" +
		"--b1--\r\n"

	email, err := newParser().Parse(raw)
	require.NoError(t, err)
	assert.Contains(t, email.Body, "plain body")
	assert.NotContains(t, email.Body, "html body")
}

func TestParseHTMLOnly(t *testing.T) {
	raw := "From: alice@example.com\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><head><style>p{}</style></head><body><p>Reset your password</p>" +
		"<a href=\"http://evil.example/reset\">here</a></body></html>\r\n"

	email, err := newParser().Parse(raw)
	require.NoError(t, err)
	assert.Contains(t, email.Body, "Reset your password")
	assert.Contains(t, email.Body, "<http://evil.example/reset>")
	assert.NotContains(t, email.Body, "p{}")
}

func TestParseRejectsContentWithoutHeader(t *testing.T) {
	for _, content := range []string{
		"Hi there, please send me the invoice.",
		"no colon on this line\nFrom: later@example.com",
		"Dear customer: your account is locked",
		"Urgent: verify your account now at http://evil.example",
		"Reminder: invoice overdue\n\nPay now at http://evil.example/pay",
		"From: bank@example.com\nplease read this carefully",
	} {
		_, err := newParser().Parse(content)
		assert.ErrorIs(t, err, ErrNoHeader, content)
	}
}

func TestParseAcceptsFoldedHeaders(t *testing.T) {
	raw := "Received: from mx.example.com\r\n" +
		"\tby relay.example.com\r\n" +
		"X-Campaign: spring\r\n" +
		"Subject: Invoice\r\n" +
		"\r\n" +
		"See attached\r\n"

	email, err := newParser().Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Invoice", email.Subject)
	assert.Contains(t, email.Body, "See attached")
}

func TestHTMLToText(t *testing.T) {
	got := HTMLToText("<div>one</div><script>alert(1)</script><ul><li>two</li><li><a href=\"https://x.example\">three</a></li></ul>")
	assert.Equal(t, "one\ntwo\nthree <https://x.example>", got)
}
