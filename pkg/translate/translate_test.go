package translate

import (
	"testing"

	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/legacy"
)

func TestXML_Translate(t *testing.T) {
	out, err := XML{}.Translate(map[string]interface{}{"param1": "value1", "param2": "value2"})
	if err != nil {
		t.Fatalf("failed to translate: %v", err)
	}
	if out != "<param1>value1</param1><param2>value2</param2>" {
		t.Errorf("translate:translate_test - unexpected xml %v", out)
	}
}

func TestXML_Envelope(t *testing.T) {
	env := envelope.Success([]map[string]interface{}{
		{"apiMsgId": "1", "to": "12345", "error": false},
	})

	out, err := XML{}.Translate(env)
	if err != nil {
		t.Fatalf("failed to translate: %v", err)
	}
	want := "<result><response><item><apiMsgId>1</apiMsgId><error></error><to>12345</to></item></response><status>success</status></result>"
	if out != want {
		t.Errorf("translate:translate_test - expected %s, got %v", want, out)
	}
}

func TestXML_EscapesText(t *testing.T) {
	out, err := XML{}.Translate(map[string]string{"text": "a<b & c"})
	if err != nil {
		t.Fatalf("failed to translate: %v", err)
	}
	if out != "<text>a&lt;b &amp; c</text>" {
		t.Errorf("translate:translate_test - unexpected xml %v", out)
	}
}

func TestJSON_Envelope(t *testing.T) {
	rec := legacy.ParseLine("OK: Ok Message Credit: 5")

	out, err := JSON{}.Translate(envelope.Failure(rec))
	if err != nil {
		t.Fatalf("failed to translate: %v", err)
	}
	want := `{"result":{"status":"failure","response":{"OK":"Ok Message","Credit":"5"}}}`
	if out != want {
		t.Errorf("translate:translate_test - expected %s, got %v", want, out)
	}
}

func TestRaw_PassesThrough(t *testing.T) {
	env := envelope.Success("x")
	out, err := Raw{}.Translate(env)
	if err != nil {
		t.Fatalf("failed to translate: %v", err)
	}
	if _, ok := out.(envelope.Envelope); !ok {
		t.Errorf("translate:translate_test - expected envelope, got %T", out)
	}
}

func TestByName(t *testing.T) {
	tests := map[string]string{"xml": "xml", "XML": "xml", "raw": "raw", "json": "json", "": "json"}
	for in, want := range tests {
		if got := ByName(in).Name(); got != want {
			t.Errorf("translate:translate_test - ByName(%q) expected %s, got %s", in, want, got)
		}
	}
}
