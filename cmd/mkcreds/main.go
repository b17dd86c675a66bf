//go:build !tinygo

// Command mkcreds writes the beacon's ssid.txt credentials file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"timebeacon/services/credentials"
)

const defaultOutPath = "ssid.txt"

func main() {
	var c credentials.Credentials
	var outPath string
	var passStdin bool
	flag.StringVar(&c.SSID, "ssid", "", "Network name (max 32 bytes).")
	flag.StringVar(&c.Passphrase, "pass", "", "Passphrase (max 64 bytes).")
	flag.BoolVar(&passStdin, "pass-stdin", false, "Read the passphrase from the first line of stdin.")
	flag.StringVar(&outPath, "out", defaultOutPath, "Output path, or - for stdout.")
	flag.Parse()

	if c.SSID == "" {
		fmt.Fprintln(os.Stderr, "error: -ssid is required")
		os.Exit(2)
	}
	if passStdin {
		pass, err := readLine(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error: read passphrase:", err)
			os.Exit(1)
		}
		c.Passphrase = pass
	}

	if err := run(c, outPath, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func run(c credentials.Credentials, outPath string, stdout io.Writer) error {
	b, err := credentials.Marshal(c)
	if err != nil {
		return err
	}
	if outPath == "-" {
		_, err := stdout.Write(b)
		return err
	}
	if err := os.WriteFile(outPath, b, 0o600); err != nil {
		return fmt.Errorf("write %q: %w", outPath, err)
	}
	return nil
}
