//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"machine"

	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs/fatfs"
)

const sdMaxFileBytes = 4096

type sdStorage struct {
	sd  *sdcard.Device
	fat *fatfs.FATFS
}

func initSD() (*sdStorage, error) {
	sd := sdcard.New(machine.SPI0, machine.GP18, machine.GP19, machine.GP16, machine.GP17)
	if err := sd.Configure(); err != nil {
		return nil, fmt.Errorf("sd configure: %w", err)
	}

	fat := fatfs.New(&sd).Configure(&fatfs.Config{SectorSize: fatfs.SectorSize})
	if err := fat.Mount(); err != nil {
		// Do not auto-format removable media.
		return nil, fmt.Errorf("sd mount: %w", err)
	}
	return &sdStorage{sd: &sd, fat: fat}, nil
}

func (s *sdStorage) ReadFile(name string) ([]byte, error) {
	if s == nil || s.fat == nil {
		return nil, errors.New("sd: not ready")
	}
	f, err := s.fat.OpenFile(name, os.O_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("sd open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, sdMaxFileBytes))
	if err != nil {
		return nil, fmt.Errorf("sd read %s: %w", name, err)
	}
	return data, nil
}
