package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"daybook/internal/service"
	"daybook/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileHandler serves the blob store pages.
type FileHandler struct {
	files *service.FileService
	log   *zap.Logger
}

func NewFileHandler(files *service.FileService, log *zap.Logger) *FileHandler {
	return &FileHandler{files: files, log: log}
}

func (h *FileHandler) UploadPage(c *gin.Context) {
	util.Page(c, http.StatusOK, "upload.html", "Upload files", nil)
}

// Upload stores every file in the "file" field.
func (h *FileHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		util.Page(c, http.StatusBadRequest, "upload.html", "Upload files", gin.H{
			"flash": "Upload failed: the file is too large or the form is malformed.",
		})
		return
	}
	headers := form.File["file"]
	if len(headers) == 0 {
		util.Page(c, http.StatusBadRequest, "upload.html", "Upload files", gin.H{
			"flash": "Choose at least one file.",
		})
		return
	}

	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			fail(c, h.log, fmt.Errorf("%w: open upload: %v", service.ErrInvalidInput, err))
			return
		}
		data, err := io.ReadAll(src)
		_ = src.Close()
		if err != nil {
			fail(c, h.log, fmt.Errorf("%w: read upload: %v", service.ErrInvalidInput, err))
			return
		}
		if _, err := h.files.StoreFile(c.Request.Context(), fh.Filename, data); err != nil {
			fail(c, h.log, err)
			return
		}
	}
	util.Redirect(c, "/view_files")
}

func (h *FileHandler) ViewFiles(c *gin.Context) {
	files, err := h.files.ListMetadata(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	util.Page(c, http.StatusOK, "files.html", "Files", gin.H{"files": files})
}

func (h *FileHandler) Download(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		util.Text(c, http.StatusNotFound, "File not found")
		return
	}
	f, err := h.files.FetchFile(c.Request.Context(), uint(id))
	if errors.Is(err, service.ErrNotFound) {
		util.Text(c, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		fail(c, h.log, err)
		return
	}

	contentType := mime.TypeByExtension("." + f.Extension)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}))
	c.Data(http.StatusOK, contentType, f.Data)
}

// Purge deletes every stored file when the form password is the operator's.
func (h *FileHandler) Purge(c *gin.Context) {
	n, err := h.files.PurgeAll(c.Request.Context(), c.PostForm("password"))
	if errors.Is(err, service.ErrWrongCredential) {
		files, listErr := h.files.ListMetadata(c.Request.Context())
		if listErr != nil {
			fail(c, h.log, listErr)
			return
		}
		util.Page(c, http.StatusForbidden, "files.html", "Files", gin.H{
			"files": files,
			"flash": "Wrong password. Nothing was deleted.",
		})
		return
	}
	if err != nil {
		fail(c, h.log, err)
		return
	}
	h.log.Info("files purged from web", zap.Int64("count", n))
	util.Redirect(c, "/view_files")
}
