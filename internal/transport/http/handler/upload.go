package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"docqa/internal/logger"
	"docqa/internal/transport/http/response"
)

// MaxUploadSize bounds an uploaded document.
const MaxUploadSize = 20 << 20

type UploadResponse struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

type UploadHandler struct {
	dir string
	log *zap.Logger
}

func NewUploadHandler(dir string, log *zap.Logger) *UploadHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UploadHandler{dir: dir, log: log}
}

// Upload stores the multipart "file" field in the upload directory under its
// own name, replacing any previous file with that name.
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing file: "+err.Error())
		return
	}
	name, ok := cleanFilename(fh.Filename)
	if !ok {
		response.Error(c, http.StatusBadRequest, "invalid filename")
		return
	}
	src, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unreadable file: "+err.Error())
		return
	}
	defer src.Close()

	if err := h.save(src, name); err != nil {
		logger.FromContext(c.Request.Context(), h.log).Error("upload failed", zap.String("filename", name), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Error uploading file: "+err.Error())
		return
	}
	response.OK(c, UploadResponse{Filename: name, Status: "uploaded"})
}

// save writes to a temporary file first so readers never see a partial upload.
func (h *UploadHandler) save(src io.Reader, name string) error {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return err
	}

	tmp := filepath.Join(h.dir, fmt.Sprintf(".upload-%s", uuid.NewString()))
	dst, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmp)
		return err
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, filepath.Join(h.dir, name))
}
