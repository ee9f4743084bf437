// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"fmt"
	"io"

	"github.com/taibuivan/shopora/internal/platform/constants"
	"github.com/taibuivan/shopora/internal/platform/validate"
)

// ImageStore keeps product images and serves them from public URLs.
// [storage.Store] satisfies it.
type ImageStore interface {
	Upload(context context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Remove(context context.Context, url string) error
}

// imageExtensions maps the accepted image types to their file extension.
var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// validateUploads checks type and size of each file and that existing plus
// new images stay within [constants.MaxProductImages].
func validateUploads(validator *validate.Validator, existing int, uploads []Upload) {
	validator.Custom(FieldImages, existing+len(uploads) > constants.MaxProductImages,
		fmt.Sprintf("A product can have at most %d images", constants.MaxProductImages))

	for _, upload := range uploads {
		_, known := imageExtensions[upload.ContentType]
		validator.Custom(FieldImages, !known,
			fmt.Sprintf("%s: only JPEG, PNG and WebP images are allowed", upload.Filename))
		validator.Custom(FieldImages, upload.Size > constants.MaxImageSize,
			fmt.Sprintf("%s: image exceeds %d MB", upload.Filename, constants.MaxImageSize>>20))
	}
}

// imageKey names the object of the n-th image uploaded for a product at
// unix time stamp: products/<slug>-<unix>-<n>.<ext>.
func imageKey(productSlug string, stamp int64, n int, contentType string) string {
	return fmt.Sprintf("products/%s-%d-%d.%s", productSlug, stamp, n, imageExtensions[contentType])
}
