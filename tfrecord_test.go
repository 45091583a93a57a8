package bboxconv

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
)

// readTFRecords splits data into the TFRecord payloads and decodes them as examples. Each record is
// framed by an 8 byte length, a 4 byte length CRC and a 4 byte data CRC.
func readTFRecords(t *testing.T, data []byte) []*tensorflow.Example {
	t.Helper()

	var examples []*tensorflow.Example
	for len(data) > 0 {
		if len(data) < 12 {
			t.Fatalf("truncated record header: %d bytes", len(data))
		}
		n := int(binary.LittleEndian.Uint64(data[:8]))
		if len(data) < 16+n {
			t.Fatalf("truncated record: need %d bytes, have %d", 16+n, len(data))
		}

		var e tensorflow.Example
		if err := proto.Unmarshal(data[12:12+n], &e); err != nil {
			t.Fatalf("failed to decode the example: %v", err)
		}
		examples = append(examples, &e)
		data = data[16+n:]
	}

	return examples
}

func TestTFRecordWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewTFRecordWriter(&buf, &Vec2{200, 100})

	boxes := []Box{
		BoundingBox{Min: IVec2{50, 25}, Max: IVec2{150, 75}},
		NormalizedCenterBoundingBox{Center: Vec2{0.5, 0.5}, Size: Vec2{0.5, 0.5}},
	}
	for i, b := range boxes {
		if err := w.WriteBox(i, b); err != nil {
			t.Fatalf("WriteBox failed: %v", err)
		}
	}

	examples := readTFRecords(t, buf.Bytes())
	if len(examples) != len(boxes) {
		t.Fatalf("expected %d examples, got %d", len(boxes), len(examples))
	}

	for i, e := range examples {
		features := e.GetFeatures().GetFeature()

		format := features["bbox/format"].GetBytesList().Value
		if len(format) != 1 || string(format[0]) != boxes[i].Format().String() {
			t.Errorf("example %d: unexpected format %q", i, format)
		}

		index := features["bbox/index"].GetInt64List().Value
		if len(index) != 1 || index[0] != int64(i) {
			t.Errorf("example %d: unexpected index %v", i, index)
		}

		values := features["bbox/values"].GetFloatList().Value
		if want := boxes[i].Values(); len(values) != 4 || values[0] != want[0] || values[3] != want[3] {
			t.Errorf("example %d: expected values %v, got %v", i, want, values)
		}

		// Both boxes cover the same area of the image.
		for k, want := range map[string]float32{
			"image/object/bbox/xmin": 0.25,
			"image/object/bbox/ymin": 0.25,
			"image/object/bbox/xmax": 0.75,
			"image/object/bbox/ymax": 0.75,
		} {
			v := features[k].GetFloatList().Value
			if len(v) != 1 || v[0] != want {
				t.Errorf("example %d: expected %s=%v, got %v", i, k, want, v)
			}
		}

		width := features["image/width"].GetInt64List().Value
		if len(width) != 1 || width[0] != 200 {
			t.Errorf("example %d: expected width 200, got %v", i, width)
		}
	}
}

func TestTFRecordWriterWithoutImageSize(t *testing.T) {
	var buf bytes.Buffer
	w := NewTFRecordWriter(&buf, nil)

	if err := w.WriteBox(0, TopLeftBoundingBox{TopLeft: IVec2{1, 2}, Size: IVec2{3, 4}}); err != nil {
		t.Fatalf("WriteBox failed: %v", err)
	}

	examples := readTFRecords(t, buf.Bytes())
	if len(examples) != 1 {
		t.Fatalf("expected 1 example, got %d", len(examples))
	}
	features := examples[0].GetFeatures().GetFeature()
	if _, ok := features["image/width"]; ok {
		t.Error("unexpected image/width feature")
	}
	if _, ok := features["image/object/bbox/xmin"]; ok {
		t.Error("unexpected image/object/bbox/xmin feature")
	}
	if v := features["bbox/values"].GetFloatList().Value; len(v) != 4 || v[2] != 3 {
		t.Errorf("unexpected values %v", v)
	}
}
