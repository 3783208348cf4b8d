// Package hugot provides local sentence-transformer embeddings running on the
// pure Go ONNX backend of knights-analytics/hugot.
package hugot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// DefaultModel is the Hugging Face model used when none is configured.
const DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"

// Config configures the local embedder.
type Config struct {
	// Model is a Hugging Face model name such as DefaultModel.
	Model string
	// ModelDir caches downloaded models.
	ModelDir string
}

// Embedder runs a feature extraction pipeline over a hugot session.
type Embedder struct {
	session   *hugot.Session
	pipeline  *pipelines.FeatureExtractionPipeline
	dimension int
}

// New prepares the model (downloading it when missing) and starts a session.
func New(ctx context.Context, cfg Config) (*Embedder, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ModelDir == "" {
		cfg.ModelDir = "./models"
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	modelPath, err := PrepareModel(cfg.Model, cfg.ModelDir)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}
	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "docqa-embedder",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create embedding pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create embedding pipeline: %w", err)
	}
	return &Embedder{session: session, pipeline: pipeline}, nil
}

// PrepareModel returns the local path of model under dir, downloading it first
// if no complete copy is there yet. Downloads land in a temporary directory
// and are renamed into place, so an interrupted download is retried next time.
func PrepareModel(model, dir string) (string, error) {
	modelPath := filepath.Join(dir, strings.ReplaceAll(model, "/", "_"))
	if modelComplete(modelPath) {
		return modelPath, nil
	}
	if err := os.RemoveAll(modelPath); err != nil {
		return "", fmt.Errorf("remove incomplete model: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}
	tmp, err := os.MkdirTemp(dir, ".download-")
	if err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	opts := hugot.NewDownloadOptions()
	opts.OnnxFilePath = "onnx/model.onnx"
	downloaded, err := hugot.DownloadModel(model, tmp, opts)
	if err != nil {
		return "", fmt.Errorf("failed to download model %s: %w", model, err)
	}
	if !modelComplete(downloaded) {
		return "", fmt.Errorf("downloaded model %s has no onnx file", model)
	}
	if err := os.Rename(downloaded, modelPath); err != nil {
		return "", fmt.Errorf("install model %s: %w", model, err)
	}
	return modelPath, nil
}

// modelComplete reports whether path is a directory holding an .onnx file.
func modelComplete(path string) bool {
	found := false
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".onnx") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return err == nil && found
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "hugot" }

// Prepare is a no-op; the model is loaded by New.
func (e *Embedder) Prepare(context.Context, []string) error { return nil }

// Dimension is known after the first embedding (384 for all-MiniLM-L6-v2).
func (e *Embedder) Dimension() int { return e.dimension }

// Embed returns the sentence embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one pipeline run.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, errors.New("no texts to embed")
	}
	result, err := e.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("pipeline returned %d embeddings for %d texts", len(result.Embeddings), len(texts))
	}
	if e.dimension == 0 {
		e.dimension = len(result.Embeddings[0])
	}
	return result.Embeddings, nil
}

// Close destroys the hugot session.
func (e *Embedder) Close() error {
	if e.session == nil {
		return nil
	}
	err := e.session.Destroy()
	e.session = nil
	return err
}
