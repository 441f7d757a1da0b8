package transport

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/packet"
	"github.com/arcturial/clickatell/pkg/transfer"
	"github.com/arcturial/clickatell/pkg/unwrap"
	"github.com/arcturial/clickatell/pkg/validate"
)

const connectLogPrefix = "transport:connect"

// DefaultConnectURL is the account management endpoint root. The token is
// appended as the last path segment.
const DefaultConnectURL = "https://connect.clickatell.com/"

// Connect account operations.
const (
	OpGetListCountry        = "getListCountry"
	OpGetListCountryPrefix  = "getListCountryPrefix"
	OpGetListAccount        = "getListAccount"
	OpGetListTerms          = "getListTerms"
	OpRegister              = "register"
	OpResendEmailActivation = "resendEmailActivation"
	OpAuthenticateUser      = "authenticateUser"
	OpForgotPassword        = "forgotPassword"
	OpGetCaptcha            = "getCaptcha"
	OpSMSActivationStatus   = "smsActivationStatus"
	OpSendActivationSMS     = "sendActivationSms"
	OpValidateActivationSMS = "validateActivationSms"
	OpGetListCallback       = "getListCallback"
	OpGetListConnection     = "getListConnection"
	OpCreateConnection      = "createConnection"
	OpBuyCreditsURL         = "buyCreditsUrl"
)

// connectAction describes one account call: the wire action, the fields
// that must be present and the optional fields copied when given.
type connectAction struct {
	spec     OperationSpec
	action   string
	required []string
	optional []string
	// fixed fields are appended after the caller's.
	fixed packet.Args
}

var captchaFields = []string{"captcha_id", "captcha_code"}

var connectActions = []connectAction{
	{spec: OperationSpec{Name: OpGetListCountry}, action: "get_list_country"},
	{spec: OperationSpec{Name: OpGetListCountryPrefix}, action: "get_list_country_prefix"},
	{spec: OperationSpec{Name: OpGetListAccount}, action: "get_list_account"},
	{
		spec:     OperationSpec{Name: OpRegister, Params: []string{"data"}},
		action:   "register",
		required: []string{"user", "fname", "sname", "password", "email_address", "mobile_number", "country_id", "captcha_code", "captcha_id"},
		optional: []string{"account_id", "company", "coupon_code", "activation_redirect", "weekly_update", "email_format", "test_mode"},
		fixed:    packet.Args{{Key: "accept_terms", Value: 1}, {Key: "force_create", Value: 1}},
	},
	{
		spec:     OperationSpec{Name: OpResendEmailActivation, Params: []string{"data"}},
		action:   "resend_email_activation",
		required: []string{"user", "password", "email_address"},
	},
	{
		spec:     OperationSpec{Name: OpAuthenticateUser, Params: []string{"data"}},
		action:   "authenticate_user",
		required: []string{"user", "password"},
	},
	{
		spec:     OperationSpec{Name: OpForgotPassword, Params: []string{"data"}},
		action:   "forgot_password",
		required: []string{"user", "email_address", "captcha_code", "captcha_id"},
	},
	{
		spec:     OperationSpec{Name: OpSMSActivationStatus, Params: []string{"data"}},
		action:   "sms_activation_status",
		required: []string{"user", "password"},
		optional: captchaFields,
	},
	{
		spec:     OperationSpec{Name: OpSendActivationSMS, Params: []string{"data"}},
		action:   "send_activation_sms",
		required: []string{"user", "password"},
		optional: captchaFields,
	},
	{
		spec:     OperationSpec{Name: OpValidateActivationSMS, Params: []string{"data"}},
		action:   "validate_activation_sms",
		required: []string{"user", "password", "sms_activation_code"},
		optional: captchaFields,
	},
	{spec: OperationSpec{Name: OpGetListCallback}, action: "get_list_callback"},
	{spec: OperationSpec{Name: OpGetListConnection}, action: "get_list_connection"},
	{
		spec:     OperationSpec{Name: OpCreateConnection, Params: []string{"data"}},
		action:   "create_connection",
		required: []string{"user", "password"},
		optional: []string{
			"captcha_id", "captcha_code", "connection_id", "ftp_password", "api_description", "ip_address",
			"Dial_prefix", "callback_url", "callback_type_id", "callback_username", "callback_password",
		},
	},
	{
		spec:     OperationSpec{Name: OpBuyCreditsURL, Params: []string{"data"}},
		action:   "buy_credits_url",
		required: []string{"user", "password"},
		optional: captchaFields,
	},
}

// Connect is the account management API. Requests are <clickatellsdk>
// documents posted to a token-specific URL.
type Connect struct {
	*base
	url string
}

// NewConnect creates the Connect transport.
func NewConnect(opts Options) *Connect {
	root := opts.BaseURL
	if root == "" {
		root = DefaultConnectURL
	}
	t := &Connect{
		base: newBase("connect", opts.Transfer, packet.NewToken(opts.Token), nil),
		url:  joinURL(root, opts.Token),
	}
	for _, a := range connectActions {
		a := a // per-iteration copy; go.mod targets go1.21 loop semantics
		t.handle(a.spec, func(ctx context.Context, args Args) (envelope.Envelope, error) {
			return t.run(ctx, a, args.Map(0))
		})
	}
	t.handle(OperationSpec{Name: OpGetListTerms, Params: []string{"ipAddress", "countryId"}}, t.getListTerms)
	t.handle(OperationSpec{Name: OpGetCaptcha}, t.getCaptcha)
	return t
}

// URL returns the token-specific endpoint.
func (t *Connect) URL() string {
	return t.url
}

// BuildConnectPacket renders p as an XML declaration and a <clickatellsdk>
// document with Action as the last element. Identity fields are not sent.
func BuildConnectPacket(action string, p *packet.Packet) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?>\n<clickatellsdk>")
	write := func(key, value string) {
		fmt.Fprintf(&b, "<%s>", key)
		// EscapeText only fails when the writer does.
		_ = xml.EscapeText(&b, []byte(value))
		fmt.Fprintf(&b, "</%s>", key)
	}
	for _, param := range p.Params(false) {
		write(param.Key, packet.Format(param.Value))
	}
	write("Action", action)
	b.WriteString("</clickatellsdk>\n")
	return b.String()
}

// ConnectResult turns an unwrapped response into an envelope. Result=Error
// fails with the Description; otherwise a non-empty Values is the payload.
func ConnectResult(tree unwrap.Tree) envelope.Envelope {
	if r, _ := tree["Result"].(string); r == "Error" {
		desc, _ := tree["Description"].(string)
		return envelope.Failure(desc)
	}
	switch v := tree["Values"].(type) {
	case nil:
	case string:
		if v != "" {
			return envelope.Success(v)
		}
	default:
		return envelope.Success(v)
	}
	return envelope.Success("")
}

func (t *Connect) post(ctx context.Context, action string, p *packet.Packet) (envelope.Envelope, error) {
	resp, err := t.execute(ctx, transfer.Request{
		URL:    t.url,
		Method: http.MethodPost,
		Body:   "XML=" + url.QueryEscape(BuildConnectPacket(action, p)),
	})
	if err != nil {
		return envelope.Envelope{}, err
	}
	root, err := unwrap.ParseXML([]byte(resp.Body))
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("%s - failed to read %s response: %w", connectLogPrefix, action, err)
	}
	return ConnectResult(unwrap.XML(root)), nil
}

func (t *Connect) run(ctx context.Context, a connectAction, data map[string]interface{}) (envelope.Envelope, error) {
	if err := validate.Required(data, a.required); err != nil {
		return envelope.Envelope{}, err
	}

	var args packet.Args
	for _, f := range append(append([]string{}, a.optional...), a.required...) {
		if v, ok := data[f]; ok && v != nil {
			args = append(args, packet.Param{Key: f, Value: v})
		}
	}
	args = append(args, a.fixed...)

	p, err := t.assembler.Assemble(args, nil, nil)
	if err != nil {
		return envelope.Envelope{}, err
	}
	return t.post(ctx, a.action, p)
}

func (t *Connect) getListTerms(ctx context.Context, args Args) (envelope.Envelope, error) {
	var call packet.Args
	if ip := args.String(0); ip != "" {
		call = append(call, packet.Param{Key: "client_ip_address", Value: ip})
	}
	if country := args.String(1); country != "" && country != "0" {
		call = append(call, packet.Param{Key: "country_id", Value: country})
	}
	p, err := t.assembler.Assemble(call, nil, nil)
	if err != nil {
		return envelope.Envelope{}, err
	}
	env, err := t.post(ctx, "get_list_terms", p)
	if err != nil || !env.Ok() {
		return env, err
	}

	values, ok := env.Result.Response.(unwrap.Tree)
	if !ok {
		return env, nil
	}
	location, _ := values["URL_location"].(string)
	if location == "" {
		return env, nil
	}
	resp, err := t.execute(ctx, transfer.Request{URL: location, Method: http.MethodGet})
	if err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to fetch terms from %s: %v", connectLogPrefix, location, err))
		return env, nil
	}
	values["Terms"] = resp.Body
	return env, nil
}

func (t *Connect) getCaptcha(ctx context.Context, _ Args) (envelope.Envelope, error) {
	p, err := t.assembler.Assemble(nil, nil, nil)
	if err != nil {
		return envelope.Envelope{}, err
	}
	env, err := t.post(ctx, "get_captcha", p)
	if err != nil || !env.Ok() {
		return env, err
	}
	if values, ok := env.Result.Response.(unwrap.Tree); ok {
		if img, ok := values["captcha_image"].(string); ok {
			if decoded, err := url.QueryUnescape(img); err == nil {
				values["captcha_image"] = decoded
			}
		}
	}
	return env, nil
}
