//go:build !tinygo

// Command advdump decodes beacon advertisement data given as hex.
//
// Each argument (or each stdin line when there are none) is either the
// 14-byte time payload or a complete advertising data block.
package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"timebeacon/proto"
)

const (
	adTypeFlags        = 0x01
	adTypeShortName    = 0x08
	adTypeCompleteName = 0x09
	adTypeManufacturer = proto.ADTypeManufacturerData
)

var errNoTime = errors.New("no beacon time in advertisement")

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: advdump [hex ...]   (reads stdin when no arguments)")
		flag.PrintDefaults()
	}
	flag.Parse()

	failed := false
	emit := func(in string) {
		if strings.TrimSpace(in) == "" {
			return
		}
		line, err := describe(in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", in, err)
			failed = true
			return
		}
		fmt.Println(line)
	}

	if flag.NArg() > 0 {
		for _, arg := range flag.Args() {
			emit(arg)
		}
	} else if err := eachLine(os.Stdin, emit); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}

func eachLine(r io.Reader, fn func(string)) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fn(sc.Text())
	}
	return sc.Err()
}

// parseHex accepts "0D FF ...", "0d:ff:..." and "0dff..." forms.
func parseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", ":", "", "-", "", "0x", "", "0X", "").Replace(strings.TrimSpace(s))
	return hex.DecodeString(s)
}

func describe(in string) (string, error) {
	b, err := parseHex(in)
	if err != nil {
		return "", err
	}

	var parts []string
	found := false
	for len(b) > 0 {
		n := int(b[0])
		if n == 0 {
			break
		}
		if n+1 > len(b) {
			return "", fmt.Errorf("truncated AD structure: need %d bytes, have %d", n+1, len(b))
		}
		ad := b[:n+1]
		b = b[n+1:]

		switch ad[1] {
		case adTypeFlags:
			if n >= 2 {
				parts = append(parts, fmt.Sprintf("flags=0x%02X", ad[2]))
			}
		case adTypeShortName, adTypeCompleteName:
			parts = append(parts, fmt.Sprintf("name=%q", ad[2:]))
		case adTypeManufacturer:
			w, ok := proto.DecodeAdvertisementPayload(ad)
			if !ok {
				company, data, _ := proto.ManufacturerData(ad)
				parts = append(parts, fmt.Sprintf("company=0x%04X data=% X", company, data))
				continue
			}
			found = true
			parts = append(parts, fmt.Sprintf("company=0x%04X", proto.CompanyIDTest), describeTime(w))
		default:
			parts = append(parts, fmt.Sprintf("ad[0x%02X]=% X", ad[1], ad[2:]))
		}
	}
	if !found {
		return "", errNoTime
	}
	return strings.Join(parts, " "), nil
}

func describeTime(w proto.WallClockTime) string {
	wd := "?"
	if w.Weekday >= 0 && w.Weekday <= 6 {
		wd = time.Weekday(w.Weekday).String()[:3]
	}
	return fmt.Sprintf("time=%s weekday=%s", w, wd)
}
