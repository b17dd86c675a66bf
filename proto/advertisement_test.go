package proto

import (
	"bytes"
	"testing"
	"time"
)

func TestAdvertisementPayloadLayout(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	w := FromTime(time.Date(2024, time.January, 1, 0, 0, 0, 0, jst))

	got := AdvertisementPayload(w)
	want := []byte{
		13, 0xFF, 0xFF, 0xFF,
		0xE8, 0x07, // 2024
		0x01, 0x01, // month, day
		0x00, 0x00, 0x00, // h, m, s
		0x09, 0x00, // +09:00
		0x01, // Monday
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("AdvertisementPayload() = % X, want % X", got, want)
	}
}

func TestAdvertisementPayloadDeterministic(t *testing.T) {
	w := WallClockTime{Year: 2024, Month: 3, Day: 1, Hour: 12, Minute: 34, Second: 56, Weekday: 5, OffsetHours: 9}

	a := AdvertisementPayload(w)
	b := AdvertisementPayload(w)
	if !bytes.Equal(a, b) {
		t.Fatalf("payloads differ: % X vs % X", a, b)
	}

	w2 := w
	w2.Second = 57
	c := AdvertisementPayload(w2)

	const secondIdx = 10
	for i := range a {
		if i == secondIdx {
			if a[i] == c[i] {
				t.Fatalf("second byte unchanged: %d", a[i])
			}
			continue
		}
		if a[i] != c[i] {
			t.Fatalf("byte %d differs: %#x vs %#x", i, a[i], c[i])
		}
	}
	if c[secondIdx] != 57 {
		t.Fatalf("second byte = %d, want 57", c[secondIdx])
	}
}

func TestAdvertisementPayloadUnsetAndClamped(t *testing.T) {
	got := AdvertisementPayload(WallClockTime{})
	if len(got) != AdvertisementPayloadLen {
		t.Fatalf("len = %d, want %d", len(got), AdvertisementPayloadLen)
	}
	for i, b := range got[4:] {
		if b != 0 {
			t.Fatalf("unset data byte %d = %#x, want 0", i, b)
		}
	}

	got = AdvertisementPayload(WallClockTime{Year: 70000, Month: -1, Second: 300, OffsetHours: -5, OffsetMinutes: -30})
	if got[4] != 0xFF || got[5] != 0xFF {
		t.Fatalf("year bytes = % X, want FF FF", got[4:6])
	}
	if got[6] != 0 {
		t.Fatalf("month = %d, want 0", got[6])
	}
	if got[10] != 0xFF {
		t.Fatalf("second = %d, want 255", got[10])
	}
	if int8(got[11]) != -5 || got[12] != 30 {
		t.Fatalf("offset = %d/%d, want -5/30", int8(got[11]), got[12])
	}
}

func TestDecodeAdvertisementPayload(t *testing.T) {
	w := WallClockTime{Year: 2024, Month: 3, Day: 1, Hour: 12, Weekday: 5, OffsetHours: 9}
	got, ok := DecodeAdvertisementPayload(AdvertisementPayload(w))
	if !ok {
		t.Fatal("DecodeAdvertisementPayload() ok = false")
	}
	if got != w {
		t.Fatalf("decoded = %+v, want %+v", got, w)
	}

	if _, ok := DecodeAdvertisementPayload([]byte{13, 0xFF}); ok {
		t.Fatal("expected short payload to fail")
	}
	bad := AdvertisementPayload(w)
	bad[2] = 0x00
	if _, ok := DecodeAdvertisementPayload(bad); ok {
		t.Fatal("expected wrong company ID to fail")
	}
}

func TestManufacturerData(t *testing.T) {
	p := AdvertisementPayload(WallClockTime{Year: 2024, Month: 1, Day: 1})
	id, data, ok := ManufacturerData(p)
	if !ok {
		t.Fatal("ManufacturerData() ok = false")
	}
	if id != CompanyIDTest {
		t.Fatalf("company ID = %#x, want %#x", id, CompanyIDTest)
	}
	if !bytes.Equal(data, p[4:]) {
		t.Fatalf("data = % X, want % X", data, p[4:])
	}
}

func TestSubHourNegativeOffsetKeepsSign(t *testing.T) {
	tests := []struct {
		name     string
		h, m     int
		wantByte byte
	}{
		{"minus half hour", 0, -30, 0x80 | 30},
		{"plus half hour", 0, 30, 30},
		{"minus three and a half", -3, -30, 30},
		{"plus five forty five", 5, 45, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WallClockTime{Year: 2024, Month: 3, Day: 1, Hour: 12, Weekday: 5, OffsetHours: tt.h, OffsetMinutes: tt.m}
			p := AdvertisementPayload(w)
			if p[12] != tt.wantByte {
				t.Fatalf("minutes byte = %#x, want %#x", p[12], tt.wantByte)
			}
			got, ok := DecodeAdvertisementPayload(p)
			if !ok || got != w {
				t.Fatalf("decoded %v (ok=%v), want %v", got, ok, w)
			}
			if got.String() != w.String() {
				t.Fatalf("String() = %s, want %s", got, w)
			}
		})
	}
}
