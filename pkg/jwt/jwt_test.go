package jwt

import (
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name       string
		subject    string
		expiration time.Duration
		secret     string
	}{
		{
			name:       "valid token generation",
			subject:    "alice@example.com",
			expiration: 15 * time.Minute,
			secret:     "test-secret-key-32-characters!",
		},
		{
			name:       "short expiration",
			subject:    "bob@example.com",
			expiration: 1 * time.Second,
			secret:     "test-secret",
		},
		{
			name:       "long expiration",
			subject:    "carol@example.com",
			expiration: 24 * time.Hour,
			secret:     "test-secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.subject, tt.expiration, tt.secret)
			if err != nil {
				t.Errorf("GenerateToken() error = %v", err)
				return
			}

			if token == "" {
				t.Error("GenerateToken() returned empty token")
			}

			if len(strings.Split(token, ".")) != 3 {
				t.Errorf("GenerateToken() not a compact JWT: %q", token)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	subject := "alice@example.com"
	secret := "validation-secret-key-32-chars"

	validToken, _ := GenerateToken(subject, 1*time.Hour, secret)
	expiredToken, _ := GenerateToken(subject, -1*time.Hour, secret)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr bool
	}{
		{
			name:   "valid token",
			token:  validToken,
			secret: secret,
		},
		{
			name:    "expired token",
			token:   expiredToken,
			secret:  secret,
			wantErr: true,
		},
		{
			name:    "wrong secret",
			token:   validToken,
			secret:  "wrong-secret",
			wantErr: true,
		},
		{
			name:    "invalid token format",
			token:   "invalid.token.format",
			secret:  secret,
			wantErr: true,
		},
		{
			name:    "empty token",
			token:   "",
			secret:  secret,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr {
				if err == nil {
					t.Error("ValidateToken() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("ValidateToken() error = %v", err)
				return
			}

			if claims.Subject != subject {
				t.Errorf("ValidateToken() subject = %v, want %v", claims.Subject, subject)
			}
		})
	}
}

func TestValidateTokenTampered(t *testing.T) {
	secret := "tamper-test-secret"

	token, err := GenerateToken("alice@example.com", 1*time.Hour, secret)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	// Flipping a single byte must invalidate the token. The final character
	// is skipped: its low base64 padding bits are not significant.
	for _, i := range []int{0, len(token) / 4, len(token) / 2} {
		tampered := []byte(token)
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}

		if _, err := ValidateToken(string(tampered), secret); err == nil {
			t.Errorf("ValidateToken() accepted token tampered at byte %d", i)
		}
	}
}

func TestValidateTokenMissingExpiry(t *testing.T) {
	secret := "missing-exp-secret"

	// Hand-craft a signed token without an exp claim.
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		Subject: "alice@example.com",
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := ValidateToken(signed, secret); err == nil {
		t.Error("ValidateToken() accepted a token without an expiry claim")
	}
}

func TestValidateTokenWrongSigningMethod(t *testing.T) {
	secret := "alg-test-secret"

	// alg=none style tokens must be rejected.
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.RegisteredClaims{
		Subject:   "alice@example.com",
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := ValidateToken(signed, secret); err == nil {
		t.Error("ValidateToken() accepted an unsigned token")
	}
}

func TestTokenExpiration(t *testing.T) {
	subject := "expiry@example.com"
	secret := "expiration-test-secret"

	token, err := GenerateToken(subject, 1*time.Second, secret)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateToken() immediate validation error = %v", err)
	}

	if claims.Subject != subject {
		t.Errorf("ValidateToken() subject = %v, want %v", claims.Subject, subject)
	}

	time.Sleep(2 * time.Second)

	if _, err := ValidateToken(token, secret); err == nil {
		t.Error("ValidateToken() expected error for expired token")
	}
}

func BenchmarkGenerateToken(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, err := GenerateToken("bench@example.com", 15*time.Minute, "benchmark-secret-key")
		if err != nil {
			b.Fatalf("GenerateToken() error = %v", err)
		}
	}
}

func BenchmarkValidateToken(b *testing.B) {
	token, _ := GenerateToken("bench@example.com", 15*time.Minute, "benchmark-secret-key")

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := ValidateToken(token, "benchmark-secret-key")
		if err != nil {
			b.Fatalf("ValidateToken() error = %v", err)
		}
	}
}
