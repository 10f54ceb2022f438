package access

import (
	"context"
	"errors"
	"testing"

	"github.com/nebula-labs/catalog/internal/domain"
)

func TestCheck(t *testing.T) {
	svc := New([]string{"alpha", " beta ", ""})

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"valid", "alpha", nil},
		{"trimmed on load", "beta", nil},
		{"missing", "", domain.ErrMissingToken},
		{"unknown", "gamma", domain.ErrInvalidToken},
		{"case sensitive", "ALPHA", domain.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Check(context.Background(), tt.token)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	if New(nil).Enabled() {
		t.Error("gate without tokens should be disabled")
	}
	if New([]string{"", "  "}).Enabled() {
		t.Error("blank tokens should not enable the gate")
	}
	if !New([]string{"x"}).Enabled() {
		t.Error("gate with a token should be enabled")
	}
}

func TestCheck_DisabledAdmitsAll(t *testing.T) {
	svc := New(nil)
	if err := svc.Check(context.Background(), ""); err != nil {
		t.Errorf("disabled gate denied empty token: %v", err)
	}
	if err := svc.Check(context.Background(), "anything"); err != nil {
		t.Errorf("disabled gate denied token: %v", err)
	}
}

func TestNew_DoesNotKeepPlaintext(t *testing.T) {
	svc := New([]string{"secret-token"})
	for k := range svc.digests {
		if string(k[:]) == "secret-token" {
			t.Fatal("plaintext token retained")
		}
	}
}
