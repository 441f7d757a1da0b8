package transport

import (
	"context"

	"github.com/arcturial/clickatell/pkg/packet"
	"github.com/arcturial/clickatell/pkg/transfer"
)

// stubTransfer replays canned responses and records every request.
type stubTransfer struct {
	requests  []transfer.Request
	responses []transfer.Response
	err       error
}

func reply(body string) *stubTransfer {
	return &stubTransfer{responses: []transfer.Response{{Body: body, StatusCode: 200}}}
}

func replyStatus(status int, body string) *stubTransfer {
	return &stubTransfer{responses: []transfer.Response{{Body: body, StatusCode: status}}}
}

func (s *stubTransfer) Execute(_ context.Context, req transfer.Request) (transfer.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return transfer.Response{}, s.err
	}
	if len(s.responses) == 0 {
		return transfer.Response{StatusCode: 200}, nil
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

func (s *stubTransfer) last() transfer.Request {
	if len(s.requests) == 0 {
		return transfer.Request{}
	}
	return s.requests[len(s.requests)-1]
}

func testIdentity() packet.Identity {
	return packet.Identity{User: "u", Password: "p", APIID: "5"}
}

func legacyOptions(tr transfer.Transfer) Options {
	return Options{Transfer: tr, Identity: testIdentity()}
}
