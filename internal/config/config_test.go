package config

import "testing"

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	for _, k := range []string{"PORT", "UPLOAD_MAX_MB", "EXPORT_ENCODING", "REDIS_URL", "KAFKA_BROKERS", "PG_HOST", "PG_PASSWORD"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "3210" {
		t.Errorf("Port = %s", cfg.Port)
	}
	if cfg.Upload.MaxBytes != 20<<20 {
		t.Errorf("MaxBytes = %d", cfg.Upload.MaxBytes)
	}
	if cfg.Export.Encoding != "latin1" {
		t.Errorf("Encoding = %s", cfg.Export.Encoding)
	}
	if cfg.Redis.Enabled() {
		t.Error("redis should be disabled by default")
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Password != "" {
		t.Errorf("database defaults should select embedded mode: %+v", cfg.Database)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("UPLOAD_MAX_MB", "5")
	t.Setenv("EXPORT_ENCODING", "UTF8")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Upload.MaxBytes != 5<<20 || cfg.Export.Encoding != "utf8" || !cfg.Redis.Enabled() {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Kafka.Brokers != "k1:9092,k2:9092" {
		t.Errorf("Kafka.Brokers = %s", cfg.Kafka.Brokers)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("UPLOAD_MAX_MB", "lots")
	if _, err := Load(); err == nil {
		t.Error("expected error for UPLOAD_MAX_MB")
	}

	t.Setenv("UPLOAD_MAX_MB", "")
	t.Setenv("EXPORT_ENCODING", "ebcdic")
	if _, err := Load(); err == nil {
		t.Error("expected error for EXPORT_ENCODING")
	}
}
