package redis

import "testing"

func TestConfigOptions(t *testing.T) {
	cfg := Config{Addr: "cache:6379", Password: "s3cret", DB: 2, PoolSize: 25}
	opts := cfg.options()

	if opts.Addr != "cache:6379" {
		t.Fatalf("expected addr cache:6379, got %s", opts.Addr)
	}
	if opts.Password != "s3cret" {
		t.Fatalf("expected password to be carried over")
	}
	if opts.DB != 2 {
		t.Fatalf("expected db 2, got %d", opts.DB)
	}
	if opts.PoolSize != 25 {
		t.Fatalf("expected pool size 25, got %d", opts.PoolSize)
	}
}

func TestConfigOptions_DefaultPoolSize(t *testing.T) {
	opts := Config{Addr: "localhost:6379"}.options()
	if opts.PoolSize != defaultPoolSize {
		t.Fatalf("expected default pool size %d, got %d", defaultPoolSize, opts.PoolSize)
	}
	if opts.MinIdleConns != 1 {
		t.Fatalf("expected one idle connection, got %d", opts.MinIdleConns)
	}
}
