package classifier

import (
	"errors"
	"os"

	apperrors "credit-risk-dashboard/internal/common/errors"
	"credit-risk-dashboard/internal/common/logger"
)

type Config struct {
	ModelPath      string
	MetadataPath   string
	RuntimeLibrary string
}

// Load performs the guarded startup load. A missing model file yields
// MODEL_NOT_FOUND; anything else that stops the model from being usable
// yields MODEL_LOAD_FAILED. Callers halt startup on either.
func Load(cfg Config, log logger.Logger) (*ONNXClassifier, error) {
	log = log.WithFields(map[string]interface{}{
		"modelPath":    cfg.ModelPath,
		"metadataPath": cfg.MetadataPath,
	})

	if _, err := os.Stat(cfg.ModelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewModelNotFoundError(cfg.ModelPath)
		}
		return nil, apperrors.NewModelLoadFailedError(cfg.ModelPath, err)
	}

	meta, err := LoadMetadata(cfg.MetadataPath)
	if err != nil {
		return nil, apperrors.NewModelLoadFailedError(cfg.MetadataPath, err)
	}

	if err := initRuntime(cfg.RuntimeLibrary); err != nil {
		return nil, apperrors.NewModelLoadFailedError(cfg.ModelPath, err)
	}

	c, err := newONNXClassifier(cfg.ModelPath, meta)
	if err != nil {
		_ = releaseRuntime()
		return nil, apperrors.NewModelLoadFailedError(cfg.ModelPath, err)
	}

	log.Info("classifier loaded", map[string]interface{}{
		"modelVersion": meta.ModelVersion,
		"inputName":    meta.InputName,
		"outputName":   meta.OutputName,
	})
	return c, nil
}
