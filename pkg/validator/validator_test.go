package validator

import (
	"strings"
	"testing"
)

type member struct {
	Name string `json:"name" validate:"required,notblank"`
	Age  int    `json:"time_limit_seconds" validate:"omitempty,min=1"`
}

func TestValidate(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		in      member
		wantErr string
	}{
		{"ok", member{Name: "Alice", Age: 60}, ""},
		{"blank name", member{Name: "   "}, "name"},
		{"bad limit", member{Name: "Bob", Age: -1}, "time_limit_seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
