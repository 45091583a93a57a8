package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sensorable/bboxconv"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
input: yolo
output: bbox
width: 640
height: 480
records_out: out.csv
`)

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if c.Input != "yolo" || c.Output != "bbox" {
		t.Errorf("unexpected formats %q -> %q", c.Input, c.Output)
	}
	if c.Width == nil || *c.Width != 640 || c.Height == nil || *c.Height != 480 {
		t.Errorf("unexpected image size %v x %v", c.Width, c.Height)
	}
	if c.RecordsOut != "out.csv" {
		t.Errorf("unexpected records_out %q", c.RecordsOut)
	}

	// Defaults are kept for missing values.
	if c.CropEncoding != "jpg" || c.JPEGQuality != 90 {
		t.Errorf("expected the default crop settings, got %q, %d", c.CropEncoding, c.JPEGQuality)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	path := writeFile(t, dir, "bad.yaml", "width: [1, 2\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for invalid YAML")
	}
}

func TestConfigValidate(t *testing.T) {
	size := 100

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", Config{Input: "bb", Output: "tlbb"}, false},
		{"valid with size", Config{Input: "bb", Output: "yolo", Width: &size, Height: &size}, false},
		{"missing input", Config{Output: "tlbb"}, true},
		{"missing output", Config{Input: "bb"}, true},
		{"width only", Config{Input: "bb", Output: "yolo", Width: &size}, true},
		{"crops without image", Config{Input: "bb", Output: "bb", CropsOut: "crops"}, true},
		{"same input and output", Config{Input: "bb", Output: "bb", Records: "a", RecordsOut: "a"},
			true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigImageSize(t *testing.T) {
	w, h := 640, 480
	c := Config{Width: &w, Height: &h}
	size, err := c.imageSize()
	if err != nil || size == nil || *size != (bboxconv.Vec2{X: 640, Y: 480}) {
		t.Errorf("expected {640 480}, got %v (%v)", size, err)
	}

	c = Config{}
	if size, err := c.imageSize(); err != nil || size != nil {
		t.Errorf("expected no image size, got %v (%v)", size, err)
	}

	c = Config{Image: filepath.Join(t.TempDir(), "missing.png")}
	if _, err := c.imageSize(); err == nil {
		t.Error("expected an error for a missing image")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	c := DefaultConfig()
	c.Records = writeFile(t, dir, "in.csv", "10,20,30,60\n0,0,4,4\n")
	c.RecordsOut = filepath.Join(dir, "out.csv")
	c.TFRecordOut = filepath.Join(dir, "out.tfrecord")

	conv, err := bboxconv.NewConverter(bboxconv.Corner, bboxconv.TopLeft, nil)
	if err != nil {
		t.Fatal(err)
	}

	n, err := run(c, conv)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 records, got %d", n)
	}

	out, err := os.ReadFile(c.RecordsOut)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(out), "10,20,20,40\n0,0,4,4\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	info, err := os.Stat(c.TFRecordOut)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty TFRecord file")
	}
}

func TestRunFlushesRecordsBeforeAnError(t *testing.T) {
	dir := t.TempDir()
	c := DefaultConfig()
	c.Records = writeFile(t, dir, "in.csv", "10,20,30,60\nbroken\n")
	c.RecordsOut = filepath.Join(dir, "out.csv")

	conv, err := bboxconv.NewConverter(bboxconv.Corner, bboxconv.TopLeft, nil)
	if err != nil {
		t.Fatal(err)
	}

	n, err := run(c, conv)
	if err == nil {
		t.Fatal("expected an error")
	}
	if n != 1 {
		t.Errorf("expected 1 record, got %d", n)
	}

	out, err := os.ReadFile(c.RecordsOut)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out); !strings.HasPrefix(got, "10,20,20,40\n") {
		t.Errorf("expected the first record to be written, got %q", got)
	}
}
