package classifier

import (
	"context"
	"fmt"
	"sync"

	"credit-risk-dashboard/internal/risk"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	envMu   sync.Mutex
	envRefs int
)

// initRuntime loads the shared library once per process.
func initRuntime(libraryPath string) error {
	envMu.Lock()
	defer envMu.Unlock()

	if envRefs == 0 && !ort.IsInitialized() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}
	envRefs++
	return nil
}

func releaseRuntime() error {
	envMu.Lock()
	defer envMu.Unlock()

	if envRefs == 0 {
		return nil
	}
	envRefs--
	if envRefs == 0 && ort.IsInitialized() {
		return ort.DestroyEnvironment()
	}
	return nil
}

// ONNXClassifier runs the exported gradient-boosted model. It is safe for
// concurrent use.
type ONNXClassifier struct {
	session *ort.DynamicAdvancedSession
	encoder *Encoder
	meta    *Metadata
}

func newONNXClassifier(modelPath string, meta *Metadata) (*ONNXClassifier, error) {
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("inspect model: %w", err)
	}
	if !hasTensor(inputs, meta.InputName) {
		return nil, fmt.Errorf("model has no input named %q", meta.InputName)
	}
	if !hasTensor(outputs, meta.OutputName) {
		return nil, fmt.Errorf("model has no output named %q", meta.OutputName)
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{meta.InputName}, []string{meta.OutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &ONNXClassifier{
		session: session,
		encoder: NewEncoder(meta),
		meta:    meta,
	}, nil
}

func hasTensor(infos []ort.InputOutputInfo, name string) bool {
	for _, info := range infos {
		if info.Name == name {
			return true
		}
	}
	return false
}

// Predict encodes rows into an [n, 18] float32 tensor and returns the
// model's label output.
func (c *ONNXClassifier) Predict(ctx context.Context, rows []risk.FeatureRecord) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := c.encoder.Encode(rows)
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}

	n := int64(len(rows))
	input, err := ort.NewTensor(ort.NewShape(n, int64(risk.ColumnCount)), data)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[int64](ort.NewShape(n))
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer output.Destroy()

	if err := c.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}

	labels := output.GetData()
	ids := make([]int, len(labels))
	for i, l := range labels {
		ids[i] = int(l)
	}
	return ids, nil
}

// Version reports the model version from the metadata sidecar.
func (c *ONNXClassifier) Version() string {
	return c.meta.ModelVersion
}

// Close destroys the session and, for the last classifier, the runtime.
func (c *ONNXClassifier) Close() error {
	var err error
	if c.session != nil {
		err = c.session.Destroy()
		c.session = nil
	}
	if rerr := releaseRuntime(); err == nil {
		err = rerr
	}
	return err
}
