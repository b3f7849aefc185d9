package oauth2client

import (
	"testing"
	"time"
)

func TestNewToken(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tok := NewToken("abc", 3600*time.Second, issuedAt)

	if tok.AccessToken != "abc" {
		t.Errorf("expected access token abc, got %q", tok.AccessToken)
	}
	if want := issuedAt.Add(time.Hour); !tok.ExpiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, tok.ExpiresAt)
	}
}

func TestToken_ExpiredAt(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresIn time.Duration
		elapsed   time.Duration
		threshold time.Duration
		want      bool
	}{
		{name: "fresh with zero threshold", expiresIn: 10 * time.Second, threshold: 0, want: false},
		{name: "past lifetime with zero threshold", expiresIn: 10 * time.Second, elapsed: 11 * time.Second, threshold: 0, want: true},
		{name: "exactly at expiry", expiresIn: 10 * time.Second, elapsed: 10 * time.Second, threshold: 0, want: true},
		{name: "3541s left at default threshold", expiresIn: time.Hour, elapsed: 59 * time.Second, threshold: DefaultExpiryThreshold, want: false},
		{name: "59s left at default threshold", expiresIn: time.Hour, elapsed: 3541 * time.Second, threshold: DefaultExpiryThreshold, want: true},
		{name: "60s left at default threshold", expiresIn: time.Hour, elapsed: 3540 * time.Second, threshold: DefaultExpiryThreshold, want: true},
		{name: "61s left at default threshold", expiresIn: time.Hour, elapsed: 3539 * time.Second, threshold: DefaultExpiryThreshold, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewToken("abc", tt.expiresIn, issuedAt)

			if got := tok.ExpiredAt(issuedAt.Add(tt.elapsed), tt.threshold); got != tt.want {
				t.Errorf("ExpiredAt() = %v, want %v", got, tt.want)
			}
		})
	}
}
