package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"docqa/internal/domain"
	"docqa/internal/transport/http/response"
)

// Answerer runs the question answering pipeline.
type Answerer interface {
	AnswerQuestion(ctx context.Context, question string, cfg domain.RagConfig, override domain.Completer) domain.AnswerResult
}

// AskRequest requires the question key; an empty question is still answered.
type AskRequest struct {
	Question *string `json:"question" binding:"required"`
	Filename string  `json:"filename"`
}

type AskResponse struct {
	Answer  string   `json:"answer"`
	Context []string `json:"context"`
}

type AskHandler struct {
	answerer  Answerer
	base      domain.RagConfig
	uploadDir string
	override  domain.Completer
}

// NewAskHandler creates the /ask handler. base carries the pipeline settings
// and the configured document; override, when set, replaces the model.
func NewAskHandler(answerer Answerer, base domain.RagConfig, uploadDir string, override domain.Completer) *AskHandler {
	return &AskHandler{answerer: answerer, base: base, uploadDir: uploadDir, override: override}
}

func (h *AskHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	cfg := h.base
	cfg.TextPath, cfg.PDFPath = h.documentPaths(req.Filename)

	res := h.answerer.AnswerQuestion(c.Request.Context(), *req.Question, cfg, h.override)
	response.OK(c, AskResponse{Answer: res.Answer, Context: res.ContextUsed})
}

// documentPaths picks the uploaded file when a filename is sent. The
// configured document is used only when no filename is sent at all.
func (h *AskHandler) documentPaths(filename string) (textPath, pdfPath string) {
	if filename == "" {
		return h.base.TextPath, h.base.PDFPath
	}
	name, ok := cleanFilename(filename)
	if !ok {
		return "", ""
	}
	path := filepath.Join(h.uploadDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", ""
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "", path
	case ".txt":
		return path, ""
	}
	return "", ""
}

// cleanFilename keeps only the final path element so uploads cannot escape
// the upload directory.
func cleanFilename(name string) (string, bool) {
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, "\\", "/")))
	if base == "/" || base == "." || base == ".." || strings.HasPrefix(base, ".") {
		return "", false
	}
	return base, true
}
