package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/coachflow/pkg/logging"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{FromEmail: "coach@example.com"}, nil)
	assert.Nil(t, sender)
}

func TestNewSendGridSender_FromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "coach@example.com"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, "CoachFlow", sender.from.Name)

	custom := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "coach@example.com", FromName: "Asha Fitness"}, nil)
	require.NotNil(t, custom)
	assert.Equal(t, "Asha Fitness", custom.from.Name)
	assert.Equal(t, "coach@example.com", custom.from.Address)
}

func TestBuildMailTagsCategoryAndEscapesHTML(t *testing.T) {
	m := buildMail(mail.NewEmail("CoachFlow", "coach@example.com"), EmailMessage{
		To:       "rahul@example.com",
		ToName:   "Rahul",
		Subject:  "Your coaching session",
		Text:     "Hi Rahul,\nbring <water> & a towel",
		Category: CategoryReminder,
	})

	assert.Equal(t, []string{CategoryReminder}, m.Categories)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "<p>Hi Rahul,<br>bring &lt;water&gt; &amp; a towel</p>", m.Content[1].Value)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "rahul@example.com", m.Personalizations[0].To[0].Address)
}

func TestBuildMailWithoutCategory(t *testing.T) {
	m := buildMail(mail.NewEmail("", "coach@example.com"), EmailMessage{To: "a@example.com", Text: "hi"})
	assert.Empty(t, m.Categories)
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	var sender *SendGridSender
	err := sender.Send(context.Background(), EmailMessage{To: "rahul@example.com", Subject: "Reminder", Text: "See you"})
	assert.Error(t, err)
}

func TestStubEmailSender_LogsInsteadOfSending(t *testing.T) {
	var buf bytes.Buffer
	sender := NewStubEmailSender(logging.NewWithWriter("info", &buf))

	err := sender.Send(context.Background(), EmailMessage{To: "rahul@example.com", Subject: "Session reminder"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "rahul@example.com")
	assert.Contains(t, buf.String(), "Session reminder")
}
