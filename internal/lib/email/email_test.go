package email

import (
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	got *resend.SendEmailRequest
	err error
}

func (f *fakeSender) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "em_1"}, nil
}

func TestRender_EscapesData(t *testing.T) {
	body, err := Render(TemplateWelcome, map[string]string{
		"UserFirstName": "<b>Ana</b>",
		"Username":      "ana",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Hi &lt;b&gt;Ana&lt;/b&gt;,")
	assert.Contains(t, body, "<strong>ana</strong>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render(Template("missing"), nil)
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	body, err := Preview(TemplateWelcome)
	require.NoError(t, err)
	assert.Contains(t, body, "Amira")
}

func TestSendWelcomeEmail(t *testing.T) {
	log := zerolog.Nop()
	fake := &fakeSender{}
	c := &Client{emails: fake, from: "Talent Catalog <no-reply@example.org>", logger: &log}

	require.NoError(t, c.SendWelcomeEmail("ana@example.org", "Ana", "ana"))
	assert.Equal(t, []string{"ana@example.org"}, fake.got.To)
	assert.Equal(t, "Talent Catalog <no-reply@example.org>", fake.got.From)
	assert.Contains(t, fake.got.Html, "Hi Ana,")

	fake.err = errors.New("rate limited")
	assert.ErrorIs(t, c.SendWelcomeEmail("ana@example.org", "Ana", "ana"), fake.err)
}
