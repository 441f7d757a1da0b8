package envelope

import (
	"encoding/json"
	"testing"
)

func TestWrap_JSONShape(t *testing.T) {
	env := Success(map[string]interface{}{"balance": 5.0})

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	want := `{"result":{"status":"success","response":{"balance":5}}}`
	if string(data) != want {
		t.Errorf("envelope:envelope_test - expected %s, got %s", want, data)
	}
}

func TestWrap_StatusExclusive(t *testing.T) {
	tests := []struct {
		name   string
		env    Envelope
		wantOk bool
	}{
		{name: "success", env: Success("x"), wantOk: true},
		{name: "failure", env: Failure("001, Authentication failed"), wantOk: false},
		{name: "explicit failure", env: Wrap(StatusFailure, nil), wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env.Ok() != tt.wantOk {
				t.Errorf("envelope:envelope_test - expected Ok()=%v, got %v", tt.wantOk, tt.env.Ok())
			}
			if tt.wantOk && tt.env.Result.Status == StatusFailure {
				t.Error("envelope:envelope_test - success envelope reports failure status")
			}
		})
	}
}

func TestEnvelope_Map(t *testing.T) {
	m := Failure("boom").Map()
	result, ok := m["result"].(map[string]interface{})
	if !ok {
		t.Fatalf("envelope:envelope_test - expected result map, got %T", m["result"])
	}
	if result["status"] != "failure" {
		t.Errorf("envelope:envelope_test - expected failure, got %v", result["status"])
	}
	if result["response"] != "boom" {
		t.Errorf("envelope:envelope_test - expected boom, got %v", result["response"])
	}
}
