package bboxconv

// TFRecord specific functionality.

import (
	"fmt"
	"io"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
)

// TFFeatureMap maps feature names to their values. Values must be convertible to
// tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// TFRecordWriter is a BoxWriter that serialises every box as a tensorflow.Example and writes it as
// a TFRecord.
type TFRecordWriter struct {
	w         io.Writer
	imageSize *Vec2
}

// NewTFRecordWriter returns a TFRecordWriter writing to w.
//
// If imageSize is not nil, the image dimensions and the normalised corner coordinates of each box
// are added to the features, in the layout of the TensorFlow object detection API.
func NewTFRecordWriter(w io.Writer, imageSize *Vec2) *TFRecordWriter {
	return &TFRecordWriter{w: w, imageSize: imageSize}
}

// WriteBox writes b as a single record.
func (w *TFRecordWriter) WriteBox(index int, b Box) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	return writeTFRecordExample(w.w, example.New(w.features(index, b)))
}

// features returns the feature map for b.
func (w *TFRecordWriter) features(index int, b Box) TFFeatureMap {
	values := b.Values()

	f := make(TFFeatureMap, 9)
	f["bbox/format"] = b.Format().String()
	f["bbox/index"] = []int64{int64(index)}
	f["bbox/values"] = values[:]

	if w.imageSize != nil {
		size := *w.imageSize
		bb := ToBoundingBox(b, size)
		f["image/width"] = int(size.X)
		f["image/height"] = int(size.Y)
		f["image/object/bbox/xmin"] = []float32{float32(bb.Min.X) / size.X}
		f["image/object/bbox/ymin"] = []float32{float32(bb.Min.Y) / size.Y}
		f["image/object/bbox/xmax"] = []float32{float32(bb.Max.X) / size.X}
		f["image/object/bbox/ymax"] = []float32{float32(bb.Max.Y) / size.Y}
	}

	return f
}

// writeTFRecordExample serialises the example and writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}
