package httpserver

import (
	"mime/multipart"
	"strings"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/storage"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FormFiles opens the files posted under field (or field[]). The returned
// release func closes them and must be called once the files are consumed.
func FormFiles(c *fiber.Ctx, field string) ([]storage.File, func(), error) {
	if !isMultipart(c) {
		return nil, func() {}, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, func() {}, apperror.ErrValidation.WithMessage("Request form is malformed")
	}

	var headers []*multipart.FileHeader
	headers = append(headers, form.File[field]...)
	headers = append(headers, form.File[field+"[]"]...)

	files := make([]storage.File, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	release := func() {
		for _, f := range opened {
			if err := f.Close(); err != nil {
				log.Warn("Failed to close uploaded file", zap.Error(err))
			}
		}
	}
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			release()
			return nil, func() {}, apperror.ErrValidation.WithMessage("Uploaded file " + h.Filename + " could not be read")
		}
		opened = append(opened, f)
		files = append(files, storage.File{
			Name:        h.Filename,
			ContentType: h.Header.Get(fiber.HeaderContentType),
			Size:        h.Size,
			Content:     f,
		})
	}
	return files, release, nil
}

// FormValues collects a repeated form field the same way QueryList collects
// query parameters.
func FormValues(c *fiber.Ctx, field string) []string {
	raw := []string{c.FormValue(field)}
	if isMultipart(c) {
		if form, err := c.MultipartForm(); err == nil {
			raw = append(append([]string{}, form.Value[field]...), form.Value[field+"[]"]...)
		}
	}

	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}
