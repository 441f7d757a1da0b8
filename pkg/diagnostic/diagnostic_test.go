package diagnostic

import "testing"

func TestDescription(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"001", "The message ID is incorrect or reporting is delayed."},
		{" 004 ", "Confirmation of receipt on the handset of the recipient."},
		{"014", "Maximum MT limit exceeded The allowable amount for MT messaging has been exceeded."},
		{"013", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := Description(tt.code); got != tt.want {
				t.Errorf("diagnostic:diagnostic_test - expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStatus_Unknown(t *testing.T) {
	if got := Status("999"); got != UnknownStatus {
		t.Errorf("diagnostic:diagnostic_test - expected %q, got %q", UnknownStatus, got)
	}
	if got := Status("003"); got == UnknownStatus {
		t.Error("diagnostic:diagnostic_test - expected known code to resolve")
	}
}
