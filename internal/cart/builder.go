// CartridgeBuilder per spec.md §4.4, grounded directly on
// original_source/src/core/cartridge/builder.rs (kept in
// _examples/original_source/). Go idiom: functional options consumed by
// a single New call, following the teacher's flat-constructor
// convention (NewCartridge, NewMBC1) rather than a chained-setter
// builder struct — both are acceptable Go, but the options are named
// exactly as spec.md lists them.
package cart

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rhaeven/gbacore/internal/coreerr"
)

type buildConfig struct {
	path           string
	buffer         []byte
	saveType       BackupType
	persistToFile  bool
	flash64kID     [2]byte
	flash128kID    [2]byte
	eepromSize     int
}

// Option configures a cartridge Build.
type Option func(*buildConfig)

// File sets the ROM path to load bytes from.
func File(path string) Option {
	return func(c *buildConfig) { c.path = path }
}

// Buffer uses the given bytes directly. If File is also given, Buffer's
// bytes are used for the ROM, per spec.md §4.4 step 1 ("prefer buffer;
// else read from path"), and the File path still sets the backup
// sidecar path; without File there is no persistence target.
func Buffer(data []byte) Option {
	return func(c *buildConfig) { c.buffer = data }
}

// SaveType forces the backup type instead of auto-detecting it.
func SaveType(t BackupType) Option {
	return func(c *buildConfig) { c.saveType = t }
}

// WithSram forces SRAM.
func WithSram() Option { return SaveType(Sram) }

// WithFlash64k forces a 64 KiB flash device.
func WithFlash64k() Option { return SaveType(Flash) }

// WithFlash128k forces a 128 KiB flash device.
func WithFlash128k() Option { return SaveType(Flash1M) }

// WithEeprom forces an EEPROM device. Unless WithEepromSize is given (or
// a sidecar supplies a size), it is sized at 512 B on first write.
func WithEeprom() Option { return SaveType(Eeprom) }

// WithFlash64kID overrides the chip-ID bytes presented while a 64 KiB
// flash device is in chip-ID mode (DESIGN.md Open Question resolution).
func WithFlash64kID(id [2]byte) Option {
	return func(c *buildConfig) { c.flash64kID = id }
}

// WithFlash128kID overrides the chip-ID bytes for a 128 KiB flash device.
func WithFlash128kID(id [2]byte) Option {
	return func(c *buildConfig) { c.flash128kID = id }
}

// WithEepromSize preconfigures the EEPROM size instead of relying on
// first-access auto-detection.
func WithEepromSize(size int) Option {
	return func(c *buildConfig) { c.eepromSize = size }
}

// WithoutBackupToFile suppresses sidecar persistence; the backup device
// still works, purely in memory.
func WithoutBackupToFile() Option {
	return func(c *buildConfig) { c.persistToFile = false }
}

// New builds a Cartridge per spec.md §4.4's procedure: resolve bytes,
// parse the header (never fails), derive the backup sidecar path if
// persistence is enabled, auto-detect or honor a forced save type, and
// construct the matching backup device.
func New(opts ...Option) (*Cartridge, error) {
	cfg := buildConfig{
		persistToFile: true,
		flash64kID:    DefaultFlash64KID,
		flash128kID:   DefaultFlash128KID,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	romBytes, err := resolveBytes(cfg)
	if err != nil {
		return nil, err
	}

	header := ParseHeader(romBytes)

	var backupPath string
	if cfg.persistToFile && cfg.path != "" {
		backupPath = backupSidecarPath(cfg.path)
	}

	saveType := cfg.saveType
	if saveType == AutoDetect {
		saveType = DetectBackupType(romBytes)
	}

	backup := newBackupMedia(saveType, cfg, backupPath)

	return &Cartridge{
		bytes:  romBytes,
		header: header,
		size:   len(romBytes),
		backup: backup,
	}, nil
}

func resolveBytes(cfg buildConfig) ([]byte, error) {
	if cfg.buffer != nil {
		return cfg.buffer, nil
	}
	if cfg.path == "" {
		return nil, coreerr.NewCartridgeLoadError("no ROM buffer or path given", nil)
	}

	if strings.EqualFold(filepath.Ext(cfg.path), ".zip") {
		return loadFromZip(cfg.path)
	}

	data, err := os.ReadFile(cfg.path)
	if err != nil {
		return nil, coreerr.NewCartridgeLoadError("reading ROM file", err)
	}
	return data, nil
}

func loadFromZip(path string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, coreerr.NewCartridgeLoadError("opening archive", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".gba") {
			rc, err := f.Open()
			if err != nil {
				return nil, coreerr.NewCartridgeLoadError("reading archive entry "+f.Name, err)
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, coreerr.NewCartridgeLoadError("reading archive entry "+f.Name, err)
			}
			return data, nil
		}
	}
	return nil, coreerr.NewCartridgeLoadError("archive has no .gba entry", nil)
}

// backupSidecarPath replaces the ROM path's extension with .sav.
func backupSidecarPath(romPath string) string {
	ext := filepath.Ext(romPath)
	return strings.TrimSuffix(romPath, ext) + ".sav"
}

func newBackupMedia(t BackupType, cfg buildConfig, path string) BackupMedia {
	switch t {
	case Sram:
		return NewSram(path)
	case Flash, Flash512:
		return NewFlash(Flash64K, cfg.flash64kID, path)
	case Flash1M:
		return NewFlash(Flash128K, cfg.flash128kID, path)
	case Eeprom:
		return NewEeprom(cfg.eepromSize, path)
	default:
		return undetected{}
	}
}
