package transport

import (
	"context"
	"fmt"
	"strings"

	"github.com/arcturial/clickatell/pkg/apierror"
	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/packet"
	"github.com/arcturial/clickatell/pkg/transfer"
)

const smtpLogPrefix = "transport:smtp"

// MailEndpoint is the vendor's mail-to-SMS address.
const MailEndpoint = "sms@messaging.clickatell.com"

// DefaultMailFrom is the sender used when Options.MailFrom is empty. The
// gateway authenticates from the body, so the address is not checked.
const DefaultMailFrom = "request@domain.com"

// SMTP sends messages as key:value mail bodies. The gateway does not reply,
// so there is no message id to report.
type SMTP struct {
	*base
	mailer transfer.Mailer
	from   string
}

// NewSMTP creates the SMTP transport. Only sendMessage is available.
func NewSMTP(opts Options) *SMTP {
	from := opts.MailFrom
	if from == "" {
		from = DefaultMailFrom
	}
	t := &SMTP{
		base:   newBase("smtp", opts.Transfer, packet.New(opts.Identity), packet.LegacyExtras),
		mailer: opts.Mailer,
		from:   from,
	}
	t.handle(SpecSendMessage, t.sendMessage)
	return t
}

// BuildMailBody renders every packet field as a key:value line.
func BuildMailBody(p *packet.Packet) string {
	var b strings.Builder
	for _, param := range p.Params(true) {
		b.WriteString(param.Key)
		b.WriteByte(':')
		b.WriteString(packet.Format(param.Value))
		b.WriteString("\r\n")
	}
	return b.String()
}

func (t *SMTP) sendMessage(ctx context.Context, args Args) (envelope.Envelope, error) {
	if t.mailer == nil {
		return envelope.Envelope{}, apierror.TransferFailed(fmt.Errorf("%s - no mailer configured", smtpLogPrefix))
	}
	p, err := t.assembler.Assemble(packet.Args{
		{Key: "to", Value: args.Strings(0)},
		{Key: "text", Value: args.String(1)},
		{Key: "from", Value: args.String(2)},
		{Key: "callback", Value: args.Bool(3, true)},
	}, args.Map(4), t.extras)
	if err != nil {
		return envelope.Envelope{}, err
	}

	err = t.mailer.Send(ctx, transfer.Mail{
		To:   MailEndpoint,
		From: t.from,
		Body: BuildMailBody(p),
	})
	if err != nil {
		return envelope.Envelope{}, err
	}
	return envelope.Success(map[string]interface{}{"apiMsgId": "-1"}), nil
}
