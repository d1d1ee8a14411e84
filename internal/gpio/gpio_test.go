package gpio

import "testing"

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "Disabled", cfg: Config{}},
		{name: "DisabledIgnoresGarbage", cfg: Config{Level: 7}},
		{name: "NamedLine", cfg: Config{Enable: true, Line: "PG11"}},
		{name: "OffsetLine", cfg: Config{Enable: true, Chip: "/dev/gpiochip0", Line: "203", Level: High}},
		{name: "MissingLine", cfg: Config{Enable: true, Line: "  "}, wantErr: true},
		{name: "BadLevel", cfg: Config{Enable: true, Line: "PG11", Level: 2}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}

func TestConfigOffset(t *testing.T) {
	if n, ok := (Config{Line: "203"}).offset(); !ok || n != 203 {
		t.Fatalf("offset=%d ok=%v want 203 true", n, ok)
	}
	if _, ok := (Config{Line: "PG11"}).offset(); ok {
		t.Fatalf("named line must not parse as offset")
	}
	if _, ok := (Config{Line: "-1"}).offset(); ok {
		t.Fatalf("negative offset must be rejected")
	}
}

func TestOpen_RejectsInvalidConfig(t *testing.T) {
	if _, err := Open(Config{Enable: true}); err == nil {
		t.Fatalf("expected error for missing line")
	}
}
