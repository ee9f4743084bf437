// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/constants"
	"github.com/taibuivan/shopora/internal/platform/validate"
	"github.com/taibuivan/shopora/pkg/query"
)

// maxFormBody caps a product form: every image at full size plus the fields.
const maxFormBody = constants.MaxProductImages*constants.MaxImageSize + 1<<20

// form reads typed fields from a parsed product form. Malformed values are
// collected on the validator instead of failing the first read.
type form struct {
	values    url.Values
	files     []*multipart.FileHeader
	validator *validate.Validator
}

// parseForm accepts multipart/form-data and, for image-less edits,
// application/x-www-form-urlencoded.
func parseForm(writer http.ResponseWriter, request *http.Request) (*form, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxFormBody)

	err := request.ParseMultipartForm(constants.MaxMultipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = request.ParseForm()
	}
	if err != nil {
		return nil, apperr.BadRequest("Invalid form data")
	}

	parsed := &form{values: request.Form, validator: &validate.Validator{}}
	if request.MultipartForm != nil {
		parsed.files = request.MultipartForm.File[FieldImages]
	}
	return parsed, nil
}

func (f *form) has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// text returns the trimmed value of name, or nil when the field is absent.
func (f *form) text(name string) *string {
	if !f.has(name) {
		return nil
	}
	value := strings.TrimSpace(f.values.Get(name))
	return &value
}

// float returns nil for an absent or empty field.
func (f *form) float(name string) *float64 {
	raw := strings.TrimSpace(f.values.Get(name))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	f.validator.Custom(name, err != nil, "Must be a valid number")
	if err != nil {
		return nil
	}
	return &value
}

// integer returns nil for an absent or empty field.
func (f *form) integer(name string) *int {
	raw := strings.TrimSpace(f.values.Get(name))
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	f.validator.Custom(name, err != nil, "Must be a whole number")
	if err != nil {
		return nil
	}
	return &value
}

// boolean returns nil for an absent or empty field.
func (f *form) boolean(name string) *bool {
	raw := strings.TrimSpace(f.values.Get(name))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	f.validator.Custom(name, err != nil, "Must be true or false")
	if err != nil {
		return nil
	}
	return &value
}

// list returns nil for an absent field and an empty slice for an empty one,
// so that an update can clear sizes or colors.
func (f *form) list(name string) []string {
	if !f.has(name) {
		return nil
	}
	values := query.Values(f.values[name])
	if values == nil {
		return []string{}
	}
	return values
}

// require flags an absent or empty field.
func (f *form) require(name string, present bool) {
	f.validator.Custom(name, !present, "This field is required")
}

// uploads opens the attached images. The returned closer releases them.
func (f *form) uploads() ([]Upload, func(), error) {
	var files []multipart.File
	closeAll := func() {
		for _, file := range files {
			file.Close()
		}
	}

	uploads := make([]Upload, 0, len(f.files))
	for _, header := range f.files {
		file, err := header.Open()
		if err != nil {
			closeAll()
			return nil, nil, apperr.BadRequest("Invalid image upload")
		}
		files = append(files, file)

		contentType, err := detectContentType(header, file)
		if err != nil {
			closeAll()
			return nil, nil, apperr.BadRequest("Invalid image upload")
		}

		uploads = append(uploads, Upload{
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Body:        file,
		})
	}
	return uploads, closeAll, nil
}

// detectContentType trusts the part header unless it is missing or generic,
// in which case the first bytes are sniffed.
func detectContentType(header *multipart.FileHeader, file multipart.File) (string, error) {
	declared := strings.ToLower(strings.TrimSpace(header.Header.Get(constants.HeaderContentType)))
	if declared != "" && declared != "application/octet-stream" {
		return declared, nil
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(sniff[:n]), nil
}
