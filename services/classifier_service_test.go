package services

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"malaria-http-service/models"
)

// writeModelFile 写出一个最小的模型权重文件：
// 单隐藏单元，W1 全 1，W2 = 1，b2 可调，便于用输入和控制输出分数
func writeModelFile(t *testing.T, inputDim, hiddenDim uint32, w1, b1, w2 []float32, b2 float32) string {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("MMDL")
	for _, v := range []uint32{1, inputDim, hiddenDim} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, slice := range [][]float32{w1, b1, w2} {
		if err := binary.Write(&buf, binary.LittleEndian, slice); err != nil {
			t.Fatal(err)
		}
	}
	if err := binary.Write(&buf, binary.LittleEndian, b2); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "model.bin")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func tinyTensor(values ...float32) *models.ImageTensor {
	return &models.ImageTensor{
		Shape: [4]int{1, 1, len(values), 1},
		Data:  values,
	}
}

func TestNewClassifierService(t *testing.T) {
	t.Run("loads valid model", func(t *testing.T) {
		path := writeModelFile(t, 3, 1, []float32{1, 1, 1}, []float32{0}, []float32{1}, -1)
		svc, err := NewClassifierService(path)
		if err != nil {
			t.Fatalf("NewClassifierService: %v", err)
		}
		if svc.InputDim() != 3 {
			t.Errorf("InputDim = %d, want 3", svc.InputDim())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := NewClassifierService(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
			t.Fatal("expected error for missing model file")
		}
	})

	t.Run("bad magic", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.bin")
		if err := os.WriteFile(path, []byte("NOPE0000000000000000"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewClassifierService(path); err == nil {
			t.Fatal("expected error for bad magic")
		}
	})

	t.Run("truncated weights", func(t *testing.T) {
		path := writeModelFile(t, 3, 1, []float32{1, 1, 1}, []float32{0}, []float32{1}, -1)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		truncated := filepath.Join(t.TempDir(), "trunc.bin")
		if err := os.WriteFile(truncated, data[:len(data)-6], 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewClassifierService(truncated); err == nil {
			t.Fatal("expected error for truncated weights")
		}
	})
}

func TestClassify(t *testing.T) {
	// z = relu(sum(x)) - 1，sum(x) > 1 时判为感染
	path := writeModelFile(t, 3, 1, []float32{1, 1, 1}, []float32{0}, []float32{1}, -1)
	svc, err := NewClassifierService(path)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("below threshold", func(t *testing.T) {
		verdict, err := svc.Classify(tinyTensor(0, 0, 0))
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if verdict.Label != models.ResultUninfected {
			t.Errorf("Label = %q, want %q", verdict.Label, models.ResultUninfected)
		}
		if verdict.Score >= 0.5 {
			t.Errorf("Score = %f, want < 0.5", verdict.Score)
		}
	})

	t.Run("above threshold", func(t *testing.T) {
		verdict, err := svc.Classify(tinyTensor(1, 1, 0))
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if verdict.Label != models.ResultInfected {
			t.Errorf("Label = %q, want %q", verdict.Label, models.ResultInfected)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		first, err := svc.Classify(tinyTensor(0.3, 0.5, 0.7))
		if err != nil {
			t.Fatal(err)
		}
		second, err := svc.Classify(tinyTensor(0.3, 0.5, 0.7))
		if err != nil {
			t.Fatal(err)
		}
		if first.Score != second.Score || first.Label != second.Label {
			t.Errorf("verdicts differ: %+v vs %+v", first, second)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := svc.Classify(tinyTensor(1, 2))
		if !errors.Is(err, ErrInferenceFailure) {
			t.Errorf("err = %v, want ErrInferenceFailure", err)
		}
	})

	t.Run("nil tensor", func(t *testing.T) {
		_, err := svc.Classify(nil)
		if !errors.Is(err, ErrInferenceFailure) {
			t.Errorf("err = %v, want ErrInferenceFailure", err)
		}
	})
}
