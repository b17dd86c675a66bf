package credentials

import (
	"errors"
	"strings"
	"testing"

	"timebeacon/hal/haltest"
)

func TestLoad(t *testing.T) {
	store := haltest.Storage{"/ssid.txt": []byte(`{"ssid":"home","pass":"secret"}`)}
	c, err := Load(store, "/ssid.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.SSID != "home" || c.Passphrase != "secret" {
		t.Fatalf("Load = %+v, want home/secret", c)
	}
	if c.MaskedPassphrase() != "******" {
		t.Fatalf("MaskedPassphrase = %q, want ******", c.MaskedPassphrase())
	}
}

func TestLoadFailuresLeaveEmpty(t *testing.T) {
	tests := []struct {
		name string
		file string
		want error
	}{
		{"missing", "", ErrRead},
		{"not json", "ssid=home", ErrMalformed},
		{"no ssid", `{"pass":"x"}`, ErrEmptySSID},
		{"long ssid", `{"ssid":"` + strings.Repeat("s", 33) + `"}`, ErrTooLong},
		{"long pass", `{"ssid":"a","pass":"` + strings.Repeat("p", 65) + `"}`, ErrTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := haltest.Storage{}
			if tt.file != "" {
				store["/ssid.txt"] = []byte(tt.file)
			}
			c, err := Load(store, "/ssid.txt")
			if !errors.Is(err, tt.want) {
				t.Fatalf("Load err = %v, want %v", err, tt.want)
			}
			if !c.Empty() || c.Passphrase != "" {
				t.Fatalf("Load = %+v, want empty", c)
			}
		})
	}
}

func TestLimitsAreInclusive(t *testing.T) {
	c := Credentials{SSID: strings.Repeat("s", MaxSSIDLen), Passphrase: strings.Repeat("p", MaxPassphraseLen)}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate at limits: %v", err)
	}
}

func TestMarshalParse(t *testing.T) {
	want := Credentials{SSID: "office", Passphrase: "p@ss \"quoted\""}
	b, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse(%q): %v", b, err)
	}
	if got != want {
		t.Fatalf("Parse = %+v, want %+v", got, want)
	}
}
