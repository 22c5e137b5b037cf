package mailing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureDialer struct {
	sent []*gomail.Message
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return nil
}

func TestSendMailWithAttachment(t *testing.T) {
	dialer := &captureDialer{}
	m := NewMailerWithDialer(MailConfig{SMTPEmail: "shop@example.com", SMTPSender: "Shop"}, dialer)

	err := m.SendMail("jane@example.com", "Invoice #AB12", "<p>Thanks</p>", Attachment{Name: "invoice.pdf", Data: []byte("%PDF-1.3")})
	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)

	msg := dialer.sent[0]
	assert.Equal(t, []string{"jane@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Invoice #AB12"}, msg.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err = msg.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "invoice.pdf")
}

func TestSendMailDisabled(t *testing.T) {
	m := NewMailer(MailConfig{})
	assert.ErrorIs(t, m.SendMail("jane@example.com", "s", "b"), ErrMailerDisabled)
}
