package transport

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcturial/clickatell/pkg/diagnostic"
	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/packet"
)

func TestBuildXMLPacket(t *testing.T) {
	p := packet.New(testIdentity())
	p.Set("to", []string{"1", "2"})
	p.Set("text", "a & b")
	p.Set("from", "")
	p.Set("callback", true)

	got := BuildXMLPacket(ActionSendMsg, p)
	assert.Equal(t, "<clickAPI><sendMsg><user>u</user><password>p</password><api_id>5</api_id>"+
		"<to>1,2</to><text>a &amp; b</text><callback>1</callback></sendMsg></clickAPI>", got)
}

func TestXML_SendMessage(t *testing.T) {
	stub := reply("<clickAPI><sendMsgResp><apiMsgId>996411ad</apiMsgId></sendMsgResp></clickAPI>")
	tr := NewXML(legacyOptions(stub))

	env, err := tr.Invoke(context.Background(), OpSendMessage, []interface{}{[]string{"12345"}, "Hi"})
	require.NoError(t, err)
	assert.Equal(t, envelope.Success(map[string]interface{}{"apiMsgId": "996411ad"}), env)

	req := stub.last()
	assert.Equal(t, "http://api.clickatell.com/xml/xml", req.URL)
	require.True(t, strings.HasPrefix(req.Body, "data="))
	doc, err := url.QueryUnescape(strings.TrimPrefix(req.Body, "data="))
	require.NoError(t, err)
	assert.Contains(t, doc, "<sendMsg><user>u</user>")
	assert.Contains(t, doc, "<to>12345</to><text>Hi</text><callback>1</callback>")
}

func TestXML_FaultIsFailureEnvelope(t *testing.T) {
	stub := reply("<clickAPI><xmlErrorResp><fault>001, Authentication failed</fault></xmlErrorResp></clickAPI>")
	tr := NewXML(legacyOptions(stub))

	env, err := tr.Invoke(context.Background(), OpGetBalance, nil)
	require.NoError(t, err)
	assert.Equal(t, envelope.Failure("001, Authentication failed"), env)
}

func TestXML_Operations(t *testing.T) {
	tests := []struct {
		name string
		op   string
		args []interface{}
		body string
		want envelope.Envelope
	}{
		{
			name: "balance",
			op:   OpGetBalance,
			body: "<clickAPI><getBalanceResp><ok>12.5</ok></getBalanceResp></clickAPI>",
			want: envelope.Success(map[string]interface{}{"balance": 12.5}),
		},
		{
			name: "query",
			op:   OpQueryMessage,
			args: []interface{}{"abc"},
			body: "<clickAPI><queryMsgResp><apiMsgId>abc</apiMsgId><status> 004 </status></queryMsgResp></clickAPI>",
			want: envelope.Success(map[string]interface{}{
				"apiMsgId":    "abc",
				"status":      "004",
				"description": diagnostic.Description("004"),
			}),
		},
		{
			name: "coverage",
			op:   OpRouteCoverage,
			args: []interface{}{"2782"},
			body: "<clickAPI><routeCoverageResp><ok>Supported</ok><charge>0.8</charge></routeCoverageResp></clickAPI>",
			want: envelope.Success(map[string]interface{}{"description": "Supported", "charge": 0.8}),
		},
		{
			name: "charge",
			op:   OpGetMessageCharge,
			args: []interface{}{"abc"},
			body: "<clickAPI><getMsgChargeResp><apiMsgId>abc</apiMsgId><status>003</status><charge>1</charge></getMsgChargeResp></clickAPI>",
			want: envelope.Success(map[string]interface{}{
				"apiMsgId":    "abc",
				"status":      "003",
				"description": diagnostic.Description("003"),
				"charge":      1.0,
			}),
		},
		{
			name: "stop",
			op:   OpStopMessage,
			args: []interface{}{"abc"},
			body: "<clickAPI><delMsgResp><apiMsgId>abc</apiMsgId><status>006</status></delMsgResp></clickAPI>",
			want: envelope.Success(map[string]interface{}{
				"apiMsgId":    "abc",
				"status":      "006",
				"description": diagnostic.Description("006"),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewXML(legacyOptions(reply(tt.body)))
			env, err := tr.Invoke(context.Background(), tt.op, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, env)
		})
	}
}

func TestXML_MalformedResponse(t *testing.T) {
	tr := NewXML(legacyOptions(reply("<clickAPI><oops></clickAPI>")))

	_, err := tr.Invoke(context.Background(), OpGetBalance, nil)
	assert.Error(t, err)
}
