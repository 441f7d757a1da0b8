package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcturial/clickatell/pkg/apierror"
	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/transfer"
)

func TestSMTP_SendMessage(t *testing.T) {
	var sent []transfer.Mail
	tr := NewSMTP(Options{
		Identity: testIdentity(),
		Mailer: transfer.MailerFunc(func(_ context.Context, m transfer.Mail) error {
			sent = append(sent, m)
			return nil
		}),
	})

	env, err := tr.Invoke(context.Background(), OpSendMessage, []interface{}{[]string{"12345", "678"}, "Hi"})
	require.NoError(t, err)
	assert.Equal(t, envelope.Success(map[string]interface{}{"apiMsgId": "-1"}), env)

	require.Len(t, sent, 1)
	assert.Equal(t, MailEndpoint, sent[0].To)
	assert.Equal(t, DefaultMailFrom, sent[0].From)
	assert.Equal(t, "user:u\r\npassword:p\r\napi_id:5\r\nto:12345,678\r\ntext:Hi\r\nfrom:\r\ncallback:1\r\n", sent[0].Body)
}

func TestSMTP_OnlySendMessage(t *testing.T) {
	tr := NewSMTP(Options{Identity: testIdentity()})

	assert.Len(t, tr.Operations(), 1)
	_, err := tr.Invoke(context.Background(), OpGetBalance, nil)
	assert.True(t, errors.Is(err, apierror.ErrMethodNotFound))
}

func TestSMTP_NoMailer(t *testing.T) {
	tr := NewSMTP(Options{Identity: testIdentity()})

	_, err := tr.Invoke(context.Background(), OpSendMessage, []interface{}{"12345", "Hi"})
	assert.True(t, errors.Is(err, apierror.ErrTransferFailed))
}

func TestSMTP_MailerError(t *testing.T) {
	tr := NewSMTP(Options{
		Identity: testIdentity(),
		MailFrom: "me@example.com",
		Mailer: transfer.MailerFunc(func(_ context.Context, m transfer.Mail) error {
			return apierror.TransferFailed(errors.New("relay down"))
		}),
	})

	_, err := tr.Invoke(context.Background(), OpSendMessage, []interface{}{"12345", "Hi"})
	assert.True(t, errors.Is(err, apierror.ErrTransferFailed))
}
