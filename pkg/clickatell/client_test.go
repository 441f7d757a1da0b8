package clickatell

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcturial/clickatell/pkg/apierror"
	"github.com/arcturial/clickatell/pkg/dispatcher"
	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/packet"
	"github.com/arcturial/clickatell/pkg/translate"
	"github.com/arcturial/clickatell/pkg/transport"
)

// vendor is an httptest stand-in for the legacy HTTP API.
type vendor struct {
	mu      sync.Mutex
	srv     *httptest.Server
	replies map[string]string
	forms   map[string]url.Values
}

func newVendor(t *testing.T, replies map[string]string) *vendor {
	t.Helper()
	v := &vendor{replies: replies, forms: make(map[string]url.Values)}
	v.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		v.mu.Lock()
		v.forms[r.URL.Path] = form
		reply := v.replies[r.URL.Path]
		v.mu.Unlock()
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(v.srv.Close)
	return v
}

func (v *vendor) form(path string) url.Values {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.forms[path]
}

func newClient(t *testing.T, v *vendor, opts Options) *Client {
	t.Helper()
	opts.BaseURL = v.srv.URL
	opts.Identity = packet.Identity{User: "u", Password: "p", APIID: "5"}
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)

	assert.Equal(t, "http", c.Transport().Name())
	assert.Equal(t, "json", c.Dispatcher().Translator().Name())
}

func TestNew_UnknownTransport(t *testing.T) {
	_, err := New(Options{Transport: "carrier-pigeon"})
	assert.ErrorIs(t, err, apierror.ErrTransportNotFound)
}

func TestSendMessage_JSON(t *testing.T) {
	v := newVendor(t, map[string]string{
		"/http/sendmsg": "ID: abc To: 27820000001\nID: def To: 27820000002",
	})
	c := newClient(t, v, Options{})

	out, err := c.SendMessage(context.Background(), []string{"27820000001", "27820000002"}, "Hi", WithFrom("Acme"))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out.(string)), &decoded))
	result := decoded["result"].(map[string]interface{})
	assert.Equal(t, "success", result["status"])
	assert.Len(t, result["response"], 2)

	form := v.form("/http/sendmsg")
	assert.Equal(t, "27820000001,27820000002", form.Get("to"))
	assert.Equal(t, "Acme", form.Get("from"))
	assert.Equal(t, "1", form.Get("callback"))
	assert.Equal(t, "u", form.Get("user"))
}

func TestSendMessage_ValidationRejectsBeforeSending(t *testing.T) {
	v := newVendor(t, map[string]string{"/http/sendmsg": "ID: abc"})
	c := newClient(t, v, Options{})

	_, err := c.SendMessage(context.Background(), []string{"27820000001", "27x"}, "Hi")
	require.Error(t, err)
	assert.True(t, apierror.HasKind(err, apierror.KindInvalidTelephone))
	assert.Nil(t, v.form("/http/sendmsg"))
}

func TestSend_ClientMessageID(t *testing.T) {
	v := newVendor(t, map[string]string{"/http/sendmsg": "ID: abc"})
	c := newClient(t, v, Options{})

	results, err := c.Send(context.Background(), []string{"27820000001"}, "Hi", WithClientMessageID(""), WithCallback(false))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, SendResult{APIMsgID: "abc", To: "27820000001"}, results[0])

	form := v.form("/http/sendmsg")
	_, err = uuid.Parse(form.Get("cliMsgId"))
	assert.NoError(t, err)
	assert.Equal(t, "0", form.Get("callback"))
}

func TestSend_PartialFailure(t *testing.T) {
	v := newVendor(t, map[string]string{
		"/http/sendmsg": "ID: abc To: 27820000001\nERR: 105, Invalid Destination Address To: 1",
	})
	c := newClient(t, v, Options{})

	results, err := c.Send(context.Background(), []string{"27820000001", "1"}, "Hi")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "", results[0].Error)
	assert.Equal(t, "105, Invalid Destination Address", results[1].Error)
	assert.Equal(t, "", results[1].APIMsgID)
}

func TestSend_UnsupportedExtra(t *testing.T) {
	v := newVendor(t, nil)
	c := newClient(t, v, Options{})

	_, err := c.Send(context.Background(), []string{"27820000001"}, "Hi", WithExtra("colour", "red"))
	assert.ErrorIs(t, err, apierror.ErrUnsupportedParameter)
}

func TestBalance(t *testing.T) {
	v := newVendor(t, map[string]string{"/http/getbalance": "Credit: 12.5"})
	c := newClient(t, v, Options{})

	balance, err := c.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12.5, balance)
	assert.Equal(t, "json", c.Dispatcher().Translator().Name())
}

func TestBalance_FailureIsRemoteError(t *testing.T) {
	v := newVendor(t, map[string]string{"/http/getbalance": "ERR: 001, Authentication failed"})
	c := newClient(t, v, Options{})

	_, err := c.Balance(context.Background())
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.CodeRemote, apiErr.Code)
	assert.Equal(t, 1, apiErr.RemoteCode)
	assert.Equal(t, "Authentication failed", apiErr.Message)
}

func TestStatusAndCharge(t *testing.T) {
	v := newVendor(t, map[string]string{
		"/http/querymsg":     "ID: abc Status: 004",
		"/http/getmsgcharge": "apiMsgId: abc charge: 0.8 status: 004",
	})
	c := newClient(t, v, Options{})

	st, err := c.Status(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", st.APIMsgID)
	assert.Equal(t, "004", st.Status)
	assert.NotEmpty(t, st.Description)

	ch, err := c.Charge(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, 0.8, ch.Charge)
}

func TestCoverage(t *testing.T) {
	v := newVendor(t, map[string]string{"/utils/routeCoverage": "OK: This prefix is currently supported. Charge: 1"})
	c := newClient(t, v, Options{})

	cov, err := c.Coverage(context.Background(), "27820000000")
	require.NoError(t, err)
	assert.True(t, cov.Routable)
	assert.Equal(t, 1.0, cov.Charge)
}

func TestOn(t *testing.T) {
	v := newVendor(t, map[string]string{"/http/getbalance": "Credit: 3"})
	c := newClient(t, v, Options{Translator: translate.XML{}})

	var seen []string
	require.NoError(t, c.On(EventRequest, func(_ context.Context, ev dispatcher.RequestEvent) error {
		seen = append(seen, "request:"+ev.Call.Operation)
		return nil
	}))
	require.NoError(t, c.On(EventResponse, dispatcher.ResponseListener(func(_ context.Context, ev dispatcher.ResponseEvent) {
		seen = append(seen, "response:"+ev.Output.(string))
	})))

	_, err := c.GetBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"request:getBalance",
		"response:<result><response><balance>3</balance></response><status>success</status></result>",
	}, seen)

	assert.Error(t, c.On("other", func() {}))
	assert.Error(t, c.On(EventRequest, func() {}))
}

func TestUseTransport(t *testing.T) {
	v := newVendor(t, nil)
	c := newClient(t, v, Options{})

	require.NoError(t, c.UseTransport("xml"))
	assert.Equal(t, "xml", c.Transport().Name())

	assert.ErrorIs(t, c.UseTransport("rest@9"), apierror.ErrTransportNotFound)
	assert.Equal(t, "xml", c.Transport().Name())
}

func TestSetTransport_MethodNotFound(t *testing.T) {
	v := newVendor(t, nil)
	c := newClient(t, v, Options{})
	c.SetTransport(transport.NewSMTP(transport.Options{}))

	_, err := c.GetBalance(context.Background())
	assert.ErrorIs(t, err, apierror.ErrMethodNotFound)
}

func TestEnvelope_Raw(t *testing.T) {
	v := newVendor(t, map[string]string{"/http/getbalance": "Credit: 7"})
	c := newClient(t, v, Options{})
	c.SetTranslator(translate.Raw{})

	out, err := c.GetBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, envelope.Success(map[string]interface{}{"balance": 7.0}), out)
}
