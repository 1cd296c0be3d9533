package mime

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func TestParsePlainMessage(t *testing.T) {
	raw := crlf(`From: Alice Example <alice@company.com>
To: bob@example.com, Carol <carol@example.com>
Subject: Project meeting
Message-ID: <abc123@company.com>
Content-Type: text/plain; charset=utf-8

Let's schedule a meeting tomorrow.
`)

	email, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "abc123@company.com", email.ID)
	assert.Equal(t, "Alice Example <alice@company.com>", email.From)
	assert.Equal(t, []string{"bob@example.com", "carol@example.com"}, email.To)
	assert.Equal(t, "Project meeting", email.Subject)
	assert.Equal(t, "Let's schedule a meeting tomorrow.", strings.TrimSpace(email.Body))
}

func TestParseJoinsTextParts(t *testing.T) {
	raw := crlf(`From: alice@company.com
Subject: Report
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary=outer

--outer
Content-Type: multipart/alternative; boundary=inner

--inner
Content-Type: text/plain; charset=utf-8

first part
--inner
Content-Type: text/html; charset=utf-8

<p>first part</p>
--inner--
--outer
Content-Type: text/plain; charset=utf-8

second part
--outer
Content-Type: application/pdf
Content-Disposition: attachment; filename=report.pdf
Content-Transfer-Encoding: base64

JVBERi0xLjQK
--outer--
`)

	email, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "first part\n\nsecond part", email.Body)
}

func TestParseWithoutTextParts(t *testing.T) {
	raw := crlf(`From: alice@company.com
Subject: Picture
Content-Type: multipart/mixed; boundary=b

--b
Content-Type: image/png
Content-Transfer-Encoding: base64

iVBORw0KGgo=
--b--
`)

	email, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Empty(t, email.Body)
	assert.Equal(t, "Picture", email.Subject)
}

func TestParseDecodesCharsetsAndEncodedWords(t *testing.T) {
	raw := crlf(`From: =?utf-8?q?Jos=C3=A9?= <jose@example.com>
Subject: =?iso-8859-1?q?Caf=E9_tomorrow?=
Content-Type: text/plain; charset=iso-8859-1
Content-Transfer-Encoding: quoted-printable

Caf=E9 with the family?
`)

	email, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "José <jose@example.com>", email.From)
	assert.Equal(t, "Café tomorrow", email.Subject)
	assert.Contains(t, email.Body, "Café with the family?")
}

func TestParseBase64Body(t *testing.T) {
	raw := crlf(`From: alice@company.com
Subject: Encoded
Content-Type: text/plain; charset=utf-8
Content-Transfer-Encoding: base64

aGVsbG8gd29ybGQ=
`)

	email, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "hello world", email.Body)
}

func TestBuildRoundTrip(t *testing.T) {
	raw, err := Build("", "Bob <bob@example.com>", "Re: Café plans", "Sounds good.\n\nBest,\nMe")
	require.NoError(t, err)

	email, err := Parse(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"bob@example.com"}, email.To)
	assert.Equal(t, "Re: Café plans", email.Subject)
	assert.Contains(t, email.Body, "Sounds good.")
	assert.Contains(t, email.Body, "Best,")
	assert.True(t, strings.HasSuffix(email.ID, "@mail-triage"), email.ID)
}

func TestBuildRejectsBadRecipient(t *testing.T) {
	_, err := Build("", "not an address", "hi", "body")
	assert.Error(t, err)
}
