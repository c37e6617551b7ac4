package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.EndpointAddrHTTP != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.EndpointAddrHTTP)
	}
	if cfg.OTPTTL != 10*time.Minute {
		t.Fatalf("unexpected OTP TTL: %v", cfg.OTPTTL)
	}
	if cfg.TokenValidityDuration != 7*24*time.Hour {
		t.Fatalf("unexpected token validity: %v", cfg.TokenValidityDuration)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("unexpected bcrypt cost: %d", cfg.BcryptCost)
	}
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"server", "-a", ":9090", "-s", "flag-secret", "-o", "300", "-t", "24"}

	cfg := LoadConfig()

	if cfg.EndpointAddrHTTP != ":9090" {
		t.Fatalf("unexpected addr: %s", cfg.EndpointAddrHTTP)
	}
	if cfg.SecretKey != "flag-secret" {
		t.Fatalf("unexpected secret: %s", cfg.SecretKey)
	}
	if cfg.OTPTTL != 5*time.Minute {
		t.Fatalf("unexpected OTP TTL: %v", cfg.OTPTTL)
	}
	if cfg.TokenValidityDuration != 24*time.Hour {
		t.Fatalf("unexpected token validity: %v", cfg.TokenValidityDuration)
	}
	// untouched fields keep defaults
	if cfg.RedisAddr != "127.0.0.1:6379" {
		t.Fatalf("unexpected redis addr: %s", cfg.RedisAddr)
	}
}
