package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{name: "variable set", key: "KDB_TEST_VAR", value: "test_value"},
		{name: "variable not set", key: "KDB_TEST_VAR_MISSING", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestRequireEnvInt(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  int
		wantPanic bool
	}{
		{name: "valid integer", value: "42", expected: 42},
		{name: "invalid integer", value: "not_a_number", wantPanic: true},
		{name: "missing variable", value: "", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KDB_TEST_INT", tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnvInt() should have panicked")
					}
				}()
			}

			result := requireEnvInt("KDB_TEST_INT")
			if !tt.wantPanic && result != tt.expected {
				t.Errorf("requireEnvInt() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustOneOf(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  string
		wantPanic bool
	}{
		{name: "default", value: "", expected: StorageFile},
		{name: "case insensitive", value: " Redis ", expected: StorageRedis},
		{name: "unknown value", value: "s3", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KDB_TEST_STORAGE", tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("mustOneOf() should have panicked")
					}
				}()
			}

			result := mustOneOf("KDB_TEST_STORAGE", StorageFile, StorageFile, StorageRedis, StorageMemory)
			if !tt.wantPanic && result != tt.expected {
				t.Errorf("mustOneOf() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single value", input: "value1", expected: []string{"value1"}},
		{name: "spaces and quotes", input: ` "a" , 'b',,c `, expected: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", value: "", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KDB_TEST_DURATION", tt.value)

			result := mustDuration("KDB_TEST_DURATION", tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "false", def: true, expected: false},
		{name: "invalid value uses default", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KDB_TEST_BOOL", tt.value)

			result := mustBool("KDB_TEST_BOOL", tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KDB_CATALOG_FILE", "/tmp/catalog.yaml")
	t.Setenv("KDB_STORAGE", "")
	t.Setenv("KDB_ALLOWED_CIDRS", "")
	t.Setenv("KDB_REDIS_ADDR", "")

	cfg := Load()

	if cfg.ListenAddr != "127.0.0.1:8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Storage != StorageFile || cfg.DataDir != "./data" {
		t.Errorf("Storage = %q, DataDir = %q", cfg.Storage, cfg.DataDir)
	}
	if len(cfg.AllowedCIDRS) != 2 {
		t.Errorf("AllowedCIDRS = %v, want loopback v4 and v6", cfg.AllowedCIDRS)
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy should default to false")
	}
	if cfg.ImportBurst != 5 || cfg.ImportPerMin != 10 {
		t.Errorf("import limits = %d/%d", cfg.ImportBurst, cfg.ImportPerMin)
	}
	if cfg.RedisAddr != "" {
		t.Error("redis settings must not be read for the file backend")
	}
}

func TestLoadRedisRequiresPassword(t *testing.T) {
	t.Setenv("KDB_CATALOG_FILE", "/tmp/catalog.yaml")
	t.Setenv("KDB_STORAGE", "redis")
	t.Setenv("KDB_REDIS_ADDR", "localhost:6379")
	t.Setenv("KDB_REDIS_DB", "0")
	t.Setenv("KDB_REDIS_PASSWORD", "")
	t.Setenv("KDB_REDIS_PASSWORD_REQUIRED", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic without a redis password")
		}
	}()
	Load()
}

func TestLoadRedis(t *testing.T) {
	t.Setenv("KDB_CATALOG_FILE", "/tmp/catalog.yaml")
	t.Setenv("KDB_STORAGE", "redis")
	t.Setenv("KDB_REDIS_ADDR", "localhost:6379")
	t.Setenv("KDB_REDIS_DB", "2")
	t.Setenv("KDB_REDIS_PASSWORD_REQUIRED", "false")

	cfg := Load()
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 2 {
		t.Errorf("redis addr/db = %q/%d", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.RedisConnectTimeout != 30*time.Second {
		t.Errorf("RedisConnectTimeout = %v", cfg.RedisConnectTimeout)
	}
}
