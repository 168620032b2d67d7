package rtctoken

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	issuer := New("test-secret", time.Hour)

	token, err := issuer.Issue("call-7-abcd1234", 42, RoleHost, 0)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.Channel != "call-7-abcd1234" || claims.Subject != 42 || claims.Role != RoleHost {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestIssueRejectsUnknownRole(t *testing.T) {
	issuer := New("test-secret", time.Hour)
	if _, err := issuer.Issue("ch", 1, Role("admin"), 0); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestIssueRequiresSecret(t *testing.T) {
	issuer := New("", time.Hour)
	if _, err := issuer.Issue("ch", 1, RoleViewer, 0); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestParseRejectsForeignAndExpired(t *testing.T) {
	issuer := New("test-secret", time.Hour)
	other := New("other-secret", time.Hour)

	token, err := other.Issue("ch", 1, RoleViewer, 0)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := issuer.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	expired, err := issuer.Issue("ch", 1, RoleViewer, -time.Minute)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := issuer.Parse(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired credential, got %v", err)
	}
}
