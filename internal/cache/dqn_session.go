package cache

import (
	_ "embed"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/H2Owater425/dqache/internal/logger"
)

//go:embed model/model.onnx
var modelBytes []byte

// session implements Scorer over onnxruntime_go. It keeps only the session
// options chosen at startup; Run builds a fresh advanced session and
// [n,4]/[n] tensors on every call; see Run.
type session struct {
	opts    *ort.SessionOptions
	backend string
}

// NewDQNRuntime initializes an ONNX Runtime session over the embedded model,
// attempting execution backends in the order TensorRT → CUDA → DirectML →
// CoreML → XNNPACK → CPU and keeping the first that initializes
// successfully. CPU is the mandatory fallback; if the environment itself
// cannot be initialized, ErrModelInit is returned.
func NewDQNRuntime(log logger.ILogger) (*DQN, error) {
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrModelInit, err)
		}
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelInit, err)
	}

	backend := "CPU"
	switch {
	case opts.AppendExecutionProviderTensorRT(ort.TensorRTProviderOptions{}) == nil:
		backend = "TensorRT"
	case opts.AppendExecutionProviderCUDA(ort.CUDAProviderOptions{}) == nil:
		backend = "CUDA"
	case opts.AppendExecutionProviderDirectML(0) == nil:
		backend = "DirectML"
	case opts.AppendExecutionProviderCoreML(0) == nil:
		backend = "CoreML"
	case opts.AppendExecutionProviderXNNPACK(ort.XNNPACKProviderOptions{}) == nil:
		backend = "XNNPACK"
	default:
		// CPU execution needs no explicit provider; it's onnxruntime_go's
		// built-in default when no provider above could be registered.
	}

	log.Infof("initializing DQN policy using %s", backend)

	s := &session{opts: opts, backend: backend}
	return NewDQN(s), nil
}

// Run implements Scorer by binding the [n,4] feature matrix to the "args_0"
// input and reading back the n-vector score output.
func (s *session) Run(features []float32, n int) ([]float32, error) {
	inputShape := ort.NewShape(int64(n), 4)
	inputTensor, err := ort.NewTensor(inputShape, features)
	if err != nil {
		return nil, fmt.Errorf("build input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputShape := ort.NewShape(int64(n))
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		return nil, fmt.Errorf("build output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	sess, err := ort.NewAdvancedSessionWithONNXData(
		modelBytes,
		[]string{"args_0"},
		[]string{"scores"},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		s.opts,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer sess.Destroy()

	if err := sess.Run(); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}

	return outputTensor.GetData(), nil
}
