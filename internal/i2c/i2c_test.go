package i2c

import (
	"strings"
	"testing"
)

func TestParseBackend(t *testing.T) {
	cases := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{in: "", want: BackendDevfs},
		{in: "devfs", want: BackendDevfs},
		{in: " Periph ", want: BackendPeriph},
		{in: "exp", want: BackendExp},
		{in: "wiringpi", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseBackend(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseBackend(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseBackend(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseBackend(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestOpen_RejectsInvalidAddrBeforeOpening(t *testing.T) {
	called := false
	old := openDevfsFn
	openDevfsFn = func(string, uint16) (Conn, error) {
		called = true
		return nil, nil
	}
	t.Cleanup(func() { openDevfsFn = old })

	for _, addr := range []uint16{0, 0x80, 0x3FF} {
		_, err := Open(BackendDevfs, "/dev/i2c-0", addr)
		if err == nil || !strings.Contains(err.Error(), "invalid i2c addr") {
			t.Fatalf("addr=0x%X err=%v want invalid i2c addr", addr, err)
		}
	}
	if called {
		t.Fatalf("opener called for invalid address")
	}
}

func TestOpen_DispatchesByBackend(t *testing.T) {
	var got []string
	oldDevfs, oldPeriph, oldExp := openDevfsFn, openPeriphFn, openExpFn
	openDevfsFn = func(bus string, addr uint16) (Conn, error) { got = append(got, "devfs:"+bus); return nil, nil }
	openPeriphFn = func(bus string, addr uint16) (Conn, error) { got = append(got, "periph:"+bus); return nil, nil }
	openExpFn = func(bus string, addr uint16) (Conn, error) { got = append(got, "exp:"+bus); return nil, nil }
	t.Cleanup(func() { openDevfsFn, openPeriphFn, openExpFn = oldDevfs, oldPeriph, oldExp })

	for _, b := range []Backend{"", BackendDevfs, BackendPeriph, BackendExp} {
		if _, err := Open(b, "/dev/i2c-0", 0x40); err != nil {
			t.Fatalf("Open(%q): %v", b, err)
		}
	}
	want := []string{"devfs:/dev/i2c-0", "devfs:/dev/i2c-0", "periph:/dev/i2c-0", "exp:/dev/i2c-0"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("dispatch=%v want %v", got, want)
	}

	if _, err := Open("smbus", "/dev/i2c-0", 0x40); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func TestPeriphBusName(t *testing.T) {
	cases := map[string]string{
		"/dev/i2c-0": "0",
		"/dev/i2c-1": "1",
		"1":          "1",
		"I2C1":       "I2C1",
	}
	for in, want := range cases {
		if got := periphBusName(in); got != want {
			t.Fatalf("periphBusName(%q)=%q want %q", in, got, want)
		}
	}
}
