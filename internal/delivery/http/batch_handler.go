package http

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/infrastructure/spreadsheet"
	"github.com/analoghub/backend/internal/infrastructure/storage"
)

// Accepted upload content types
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeZIP  = "application/zip"
)

// ReportFileName is the download name of every resolved sheet
const ReportFileName = "response.xlsx"

// acknowledge is the response of every accepted upload
func acknowledge(c *gin.Context, taskID string) {
	c.JSON(http.StatusCreated, gin.H{"result": "acknowledge True", "task_id": taskID})
}

// saveUpload checks the declared type of form file field and copies it into scratch storage
func (h *Handler) saveUpload(c *gin.Context, field, contentType, ext string) (string, *multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, bindError(err)
	}
	if got := fh.Header.Get("Content-Type"); got != contentType {
		return "", nil, fmt.Errorf("%w: %s must be %s, got %q", domain.ErrInvalidContentType, field, contentType, got)
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, bindError(err)
	}
	defer f.Close()

	path, err := h.storage.Save(f, ext)
	if err != nil {
		return "", nil, err
	}
	return path, fh, nil
}

// saveSheet stores an uploaded xlsx and verifies its header carries every column in required
func (h *Handler) saveSheet(c *gin.Context, required ...string) (string, error) {
	path, _, err := h.saveUpload(c, "xlsx_file", ContentTypeXLSX, ".xlsx")
	if err != nil {
		return "", err
	}

	header, err := spreadsheet.ReadHeader(path)
	if err == nil {
		_, err = header.Require(required...)
	}
	if err != nil {
		storage.Remove(path)
		return "", err
	}
	return path, nil
}

// UploadAnalogs handles POST /api/v1/analog/upload_analogs
func (h *Handler) UploadAnalogs(c *gin.Context) {
	path, err := h.saveSheet(c, domain.ColumnTool, domain.ColumnBrand, domain.ColumnAnalog, domain.ColumnAnalogBrand)
	if err != nil {
		writeError(c, err)
		return
	}

	id, err := h.queue.Enqueue(c.Request.Context(), domain.TaskIngestAnalogs, domain.IngestAnalogsPayload{FilePath: path})
	if err != nil {
		storage.Remove(path)
		writeError(c, err)
		return
	}
	acknowledge(c, id)
}

// UploadMakers handles POST /api/v1/analog/upload_makers
func (h *Handler) UploadMakers(c *gin.Context) {
	path, fh, err := h.saveUpload(c, "zip_file", ContentTypeZIP, ".zip")
	if err != nil {
		writeError(c, err)
		return
	}

	payload := domain.IngestManufacturersPayload{FilePath: path, FileName: fh.Filename}
	id, err := h.queue.Enqueue(c.Request.Context(), domain.TaskIngestManufacturers, payload)
	if err != nil {
		storage.Remove(path)
		writeError(c, err)
		return
	}
	acknowledge(c, id)
}

// SearchListAnalogs handles POST /api/v1/analog/search_list_analogs.
// The sheet is resolved within the request and returned as an attachment.
func (h *Handler) SearchListAnalogs(c *gin.Context) {
	in, err := h.saveSheet(c, domain.ColumnTool, domain.ColumnBrand)
	if err != nil {
		writeError(c, err)
		return
	}
	defer storage.Remove(in)

	out := h.storage.NewPath(".xlsx")
	defer storage.Remove(out)

	if err := h.resolver.ResolveAnalogSheet(c.Request.Context(), in, out); err != nil {
		writeError(c, err)
		return
	}
	c.FileAttachment(out, ReportFileName)
}

// SearchListAnalogsAsync handles POST /api/v1/analog/search_list_analogs_async
func (h *Handler) SearchListAnalogsAsync(c *gin.Context) {
	path, err := h.saveSheet(c, domain.ColumnTool, domain.ColumnBrand)
	if err != nil {
		writeError(c, err)
		return
	}

	id, err := h.queue.Enqueue(c.Request.Context(), domain.TaskResolveAnalogs, domain.ResolveAnalogsPayload{FilePath: path})
	if err != nil {
		storage.Remove(path)
		writeError(c, err)
		return
	}
	acknowledge(c, id)
}

// TaskStatus handles GET /api/v1/analog/tasks/:task_id
func (h *Handler) TaskStatus(c *gin.Context) {
	job, err := h.queue.Status(c.Request.Context(), c.Param("task_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Result handles GET /api/v1/analog/results/:file, serving a sheet produced by a resolver job
func (h *Handler) Result(c *gin.Context) {
	path, err := h.storage.Lookup(c.Param("file"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.FileAttachment(path, ReportFileName)
}
