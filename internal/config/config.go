package config

import (
	"encoding/xml"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	appDir       = "trayshot"
	settingsFile = "Config.xml"
	logFile      = "trayshot.log"
)

// Settings are the two user toggles persisted between runs.
type Settings struct {
	Notify    bool
	AutoStart bool
}

func Default() Settings {
	return Settings{Notify: true, AutoStart: false}
}

// document is the on-disk shape. Values are kept as text so that one bad
// field does not discard the other.
type document struct {
	XMLName   xml.Name `xml:"Config"`
	Notify    string   `xml:"Notify"`
	AutoStart string   `xml:"AutoStart"`
}

// Load reads the settings at path. A missing file is created with the
// defaults; an unreadable one falls back to them. Load never fails.
func Load(path string) Settings {
	s := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := Save(path, s); err != nil {
			log.Printf("Failed to write default config: %v", err)
		}
		return s
	}
	if err != nil {
		log.Printf("Failed to read config %s: %v, using defaults", path, err)
		return s
	}

	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		log.Printf("Failed to parse config %s: %v, using defaults", path, err)
		s.Notify = true
		return s
	}

	if v, ok := parseBool(doc.Notify); ok {
		s.Notify = v
	}
	if v, ok := parseBool(doc.AutoStart); ok {
		s.AutoStart = v
	}
	return s
}

// Save overwrites the settings file at path.
func Save(path string, s Settings) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := xml.MarshalIndent(document{
		Notify:    strconv.FormatBool(s.Notify),
		AutoStart: strconv.FormatBool(s.AutoStart),
	}, "", "  ")
	if err != nil {
		return err
	}
	data = append([]byte(xml.Header), data...)
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, settingsFile+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func parseBool(s string) (bool, bool) {
	v, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return false, false
	}
	return v, true
}

func baseDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, appDir), nil
}

// Path is where the settings file lives.
func Path() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFile), nil
}

func LogPath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFile), nil
}

// ScreenshotDir is where Ctrl+PrintScreen captures are written.
func ScreenshotDir() string {
	return filepath.Join(PicturesDir(), "Screenshots")
}

func homePictures() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, "Pictures")
}
