package commsutil

import "testing"

func TestBuildCallSubject(t *testing.T) {
	tests := []struct {
		op   string
		want string
	}{
		{op: "sendMessage", want: "clickatell.call.sendMessage"},
		{op: "get.balance", want: "clickatell.call.get_balance"},
		{op: "", want: "clickatell.call._"},
		{op: "a*b>", want: "clickatell.call.a_b_"},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			if got := BuildCallSubject(tt.op); got != tt.want {
				t.Errorf("commsutil:subjects_test - BuildCallSubject(%q) = %q, want %q", tt.op, got, tt.want)
			}
		})
	}
}

func TestBuildCallbackSubject(t *testing.T) {
	if got := BuildCallbackSubject("mt"); got != "clickatell.callback.mt" {
		t.Errorf("commsutil:subjects_test - got %q", got)
	}
}

func TestBuildGatewaySubject(t *testing.T) {
	if got := BuildGatewaySubject("sms.gateway", 2); got != "clickatell.sms_gateway.v2" {
		t.Errorf("commsutil:subjects_test - got %q", got)
	}
}
