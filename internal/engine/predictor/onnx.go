package predictor

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// DefaultLibPath returns the ONNX Runtime shared library expected next to
// the model file.
func DefaultLibPath(modelPath string) string {
	return filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
}

// ONNX runs a pre-trained sequence model through ONNX Runtime. The model
// must take a float tensor shaped [batch, length, 1] and return [batch, 1].
// Safe for concurrent use.
type ONNX struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
}

// NewONNX loads the model at modelPath. libPath points at the ONNX Runtime
// shared library; when empty, DefaultLibPath is used.
func NewONNX(modelPath, libPath string) (*ONNX, error) {
	if libPath == "" {
		libPath = DefaultLibPath(modelPath)
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	inputName, outputName, err := validateSignature(inputs, outputs)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputName},
		[]string{outputName},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &ONNX{session: session, inputName: inputName, outputName: outputName}, nil
}

// validateSignature checks the model takes one [batch, length, 1] float
// tensor and produces a [batch, 1] float tensor as its first output.
// Dynamic dimensions are reported as -1 and accepted anywhere.
func validateSignature(inputs, outputs []ort.InputOutputInfo) (string, string, error) {
	if len(inputs) != 1 {
		return "", "", fmt.Errorf("onnx: expected 1 model input, got %d", len(inputs))
	}
	in := inputs[0]
	if in.DataType != ort.TensorElementDataTypeFloat {
		return "", "", fmt.Errorf("onnx: input %q must be float32, got %v", in.Name, in.DataType)
	}
	if len(in.Dimensions) != 3 || !dimIs(in.Dimensions[2], 1) {
		return "", "", fmt.Errorf("onnx: input %q must be [batch, length, 1], got %v", in.Name, in.Dimensions)
	}

	if len(outputs) == 0 {
		return "", "", fmt.Errorf("onnx: model has no outputs")
	}
	out := outputs[0]
	if out.DataType != ort.TensorElementDataTypeFloat {
		return "", "", fmt.Errorf("onnx: output %q must be float32, got %v", out.Name, out.DataType)
	}
	if len(out.Dimensions) != 2 || !dimIs(out.Dimensions[1], 1) {
		return "", "", fmt.Errorf("onnx: output %q must be [batch, 1], got %v", out.Name, out.Dimensions)
	}
	return in.Name, out.Name, nil
}

func dimIs(d, want int64) bool {
	return d == want || d < 0
}

// Predict reshapes window to [1, len(window), 1], runs the model and returns
// the single output value.
func (o *ONNX) Predict(ctx context.Context, window []float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(window) == 0 {
		return 0, fmt.Errorf("onnx: empty input window")
	}

	data := make([]float32, len(window))
	for i, v := range window {
		data[i] = float32(v)
	}

	tIn, err := ort.NewTensor(ort.NewShape(1, int64(len(window)), 1), data)
	if err != nil {
		return 0, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer tIn.Destroy()

	tOut, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		return 0, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	if err := o.session.Run([]ort.Value{tIn}, []ort.Value{tOut}); err != nil {
		return 0, fmt.Errorf("onnx: inference failed: %w", err)
	}
	return float64(tOut.GetData()[0]), nil
}

// Close releases the ONNX session.
func (o *ONNX) Close() error {
	return o.session.Destroy()
}
