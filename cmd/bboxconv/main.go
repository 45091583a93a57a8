// Converts bounding box records between the corner, top-left, center and normalised center (YOLO)
// representations.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sensorable/bboxconv"
)

var (
	config    *Config             // The merged configuration file and flag values.
	converter *bboxconv.Converter // The converter for the selected formats.
)

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
	_, _ = fmt.Fprintf(os.Stderr, "  %s -input <format> -output <format> [-width <px> -height <px>]"+
			" < records.csv\n", filepath.Base(os.Args[0]))
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = fmt.Fprintln(os.Stderr, "  Formats:")
	for _, f := range bboxconv.Formats {
		_, _ = fmt.Fprintf(os.Stderr, "    %s\n", strings.Join(f.Aliases(), ", "))
	}
	_, _ = fmt.Fprintln(os.Stderr, "  The normalized formats require -width and -height, or -image.")
	_, _ = fmt.Fprintln(os.Stderr)
	flag.PrintDefaults()
}

func printUsageAndExit(msg ...interface{}) {
	log.Print(msg...)
	flag.Usage()
	os.Exit(1)
}

// flagValues holds the values of the command line flags before they are merged into a Config.
type flagValues struct {
	config        Config
	width, height int
	configPath    string
}

// defineFlags defines the command line flags on fs.
func defineFlags(fs *flag.FlagSet, v *flagValues, defaults *Config) {
	fs.StringVar(&v.configPath, "config", "", "The `path` to a YAML configuration file")

	// Format arguments.
	fs.StringVar(&v.config.Input, "input", "", "The input `format`")
	fs.StringVar(&v.config.Input, "i", "", "Shorthand for -input")
	fs.StringVar(&v.config.Output, "output", "", "The output `format`")
	fs.StringVar(&v.config.Output, "o", "", "Shorthand for -output")

	// Image size arguments.
	fs.IntVar(&v.width, "width", 0, "The image width in `pixels`")
	fs.IntVar(&v.width, "w", 0, "Shorthand for -width")
	fs.IntVar(&v.height, "height", 0, "The image height in `pixels`")
	fs.StringVar(&v.config.Image, "image", "",
		"The `path` to the image the boxes belong to; its size is used when -width and -height are"+
				" not given")

	// Path arguments.
	fs.StringVar(&v.config.Records, "records", "",
		"The `path` to the input records (default stdin)")
	fs.StringVar(&v.config.RecordsOut, "records-out", "",
		"The `path` to the output records (default stdout)")
	fs.StringVar(&v.config.TFRecordOut, "tfrecord-out", "",
		"The `path` to an additional TFRecord output file")

	// Crop arguments.
	fs.StringVar(&v.config.CropsOut, "crops-out", "",
		"The `path` to a directory to save a crop of -image for every box to")
	fs.StringVar(&v.config.CropEncoding, "crop-enc", defaults.CropEncoding,
		"The `encoding` for crops {jpg, png, webp}")
	fs.IntVar(&v.config.JPEGQuality, "jpeg-quality", defaults.JPEGQuality,
		"The quality to use when encoding crops [1, 100]")
}

// apply copies the flags that were set explicitly on fs into c.
func (v *flagValues) apply(fs *flag.FlagSet, c *Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input", "i":
			c.Input = v.config.Input
		case "output", "o":
			c.Output = v.config.Output
		case "width", "w":
			c.Width = &v.width
		case "height":
			c.Height = &v.height
		case "image":
			c.Image = v.config.Image
		case "records":
			c.Records = v.config.Records
		case "records-out":
			c.RecordsOut = v.config.RecordsOut
		case "tfrecord-out":
			c.TFRecordOut = v.config.TFRecordOut
		case "crops-out":
			c.CropsOut = v.config.CropsOut
		case "crop-enc":
			c.CropEncoding = v.config.CropEncoding
		case "jpeg-quality":
			c.JPEGQuality = v.config.JPEGQuality
		}
	})
}

// parseFlags parses and validates the flags and sets config and converter.
func parseFlags() {
	flag.Usage = usage

	defaults := DefaultConfig()
	var values flagValues
	defineFlags(flag.CommandLine, &values, defaults)

	flag.Parse()
	if flag.NArg() > 0 {
		printUsageAndExit("Unexpected arguments: ", strings.Join(flag.Args(), " "))
	}

	// Start from the configuration file, if any, and apply the flags that were set explicitly.
	config = defaults
	if values.configPath != "" {
		c, err := LoadConfig(values.configPath)
		if err != nil {
			printUsageAndExit(err)
		}
		config = c
	}
	values.apply(flag.CommandLine, config)

	var err error
	if converter, err = newConverter(config); err != nil {
		printUsageAndExit(err)
	}
}

// newConverter validates c and returns the converter for its formats. All configuration errors are
// reported here, before any record is read. An out of range JPEG quality is reset in c.
func newConverter(c *Config) (*bboxconv.Converter, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = 92
		log.Print("Invalid JPEG quality, setting it to ", c.JPEGQuality)
	}

	// Validate the conversion direction.
	from, err := bboxconv.ParseFormat(c.Input)
	if err != nil {
		return nil, fmt.Errorf("unsupported input format: %w", err)
	}
	to, err := bboxconv.ParseFormat(c.Output)
	if err != nil {
		return nil, fmt.Errorf("unsupported output format: %w", err)
	}

	imageSize, err := c.imageSize()
	if err != nil {
		return nil, err
	}

	conv, err := bboxconv.NewConverter(from, to, imageSize)
	if errors.Is(err, bboxconv.ErrMissingImageSize) {
		return nil, fmt.Errorf("missing -width and -height or -image argument: %w", err)
	}
	return conv, err
}

func main() {
	parseFlags()

	n, err := run(config, converter)
	if err != nil {
		log.Fatalf("Conversion failed after %d records: %v", n, err)
	}

	log.Printf("Successfully converted %d records from %s to %s", n, converter.From(),
		converter.To())
}

// run converts the records as configured. Everything that was converted before an error occurred
// is flushed to the outputs.
func run(c *Config, conv *bboxconv.Converter) (n int, err error) {
	// Open the input.
	var in io.Reader = os.Stdin
	if c.Records != "" {
		var f *os.File
		if f, err = os.Open(c.Records); err != nil {
			return 0, err
		}
		defer f.Close()
		in = f
	}

	// Open the outputs.
	var out io.Writer = os.Stdout
	if c.RecordsOut != "" {
		var f *os.File
		if f, err = os.Create(c.RecordsOut); err != nil {
			return 0, err
		}
		defer bboxconv.CloseWithErrCheck(f, &err)
		out = f
	}
	bufOut := bufio.NewWriter(out)
	defer flushWithErrCheck(bufOut, &err)

	writers := []bboxconv.BoxWriter{bboxconv.NewCSVWriter(bufOut)}

	var imageSize *bboxconv.Vec2
	if size, ok := conv.ImageSize(); ok {
		imageSize = &size
	}

	if c.TFRecordOut != "" {
		var f *os.File
		if f, err = os.Create(c.TFRecordOut); err != nil {
			return 0, err
		}
		defer bboxconv.CloseWithErrCheck(f, &err)
		bufRecords := bufio.NewWriter(f)
		defer flushWithErrCheck(bufRecords, &err)

		writers = append(writers, bboxconv.NewTFRecordWriter(bufRecords, imageSize))
	}

	if c.CropsOut != "" {
		cw, err := newCropWriter(c, imageSize)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cw.Skipped() > 0 {
				log.Printf("Skipped %d crops outside of the image", cw.Skipped())
			}
		}()
		writers = append(writers, cw)
	}

	// Convert.
	return bboxconv.ConvertRecords(in, conv, bboxconv.MultiBoxWriter(writers...))
}

// newCropWriter loads the configured image and returns a CropWriter for it. The image bounds are
// used if imageSize is nil.
func newCropWriter(c *Config, imageSize *bboxconv.Vec2) (*bboxconv.CropWriter, error) {
	img, err := bboxconv.LoadImage(c.Image)
	if err != nil {
		return nil, err
	}

	var size bboxconv.Vec2
	if imageSize != nil {
		size = *imageSize
	} else {
		bounds := img.Bounds()
		size = bboxconv.Vec2{X: float32(bounds.Dx()), Y: float32(bounds.Dy())}
	}

	base := strings.TrimSuffix(filepath.Base(c.Image), filepath.Ext(c.Image))
	return bboxconv.NewCropWriter(img, size, c.CropsOut, base, c.CropEncoding, c.JPEGQuality)
}

// flushWithErrCheck works like bboxconv.CloseWithErrCheck for a bufio.Writer.
func flushWithErrCheck(w *bufio.Writer, e *error) {
	err := w.Flush()
	if err != nil && *e == nil {
		*e = err
	}
}
