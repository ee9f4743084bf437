// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopora/internal/catalog/product"
	"github.com/taibuivan/shopora/internal/platform/ctxutil"
	"github.com/taibuivan/shopora/internal/platform/sec"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		Total int `json:"total"`
	} `json:"meta"`
}

const adminID = "0195b1a2-0000-7000-8000-00000000a11c"

func newRouter(f *fixture) http.Handler {
	handler := product.NewHandler(f.service)
	router := chi.NewRouter()
	router.Route("/products", handler.RegisterPublicRoutes)
	router.Route("/admin/products", func(admin chi.Router) {
		admin.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				claims := &sec.AuthClaims{UserID: adminID, Email: "admin@shopora.test", Role: sec.RoleAdmin}
				next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
			})
		})
		handler.RegisterAdminRoutes(admin)
	})
	return router
}

type file struct {
	name        string
	contentType string
	data        string
}

func multipartBody(t *testing.T, fields map[string]string, files ...file) (io.Reader, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for _, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="images"; filename="`+f.name+`"`)
		if f.contentType != "" {
			header.Set("Content-Type", f.contentType)
		}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func send(t *testing.T, router http.Handler, method, path string, body io.Reader, contentType string) (int, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, path, body)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var decoded envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	return recorder.Code, decoded
}

func (f *fixture) fields(name, sku string) map[string]string {
	return map[string]string{
		"name":        name,
		"description": "A comfortable everyday product.",
		"price":       "120.50",
		"stock":       "7",
		"category_id": f.category,
		"sku":         sku,
		"sizes":       "S, M ,L",
		"colors":      "red,blue",
		"is_featured": "true",
	}
}

/*
TestHandler_CreateMultipart parses fields and images from a multipart form.
*/
func TestHandler_CreateMultipart(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	// A PNG signature without a declared content type is sniffed.
	png := "\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 16)
	body, contentType := multipartBody(t, f.fields("Air Max 90", "AM-090"),
		file{name: "front.jpg", contentType: "image/jpeg", data: "jpeg-bytes"},
		file{name: "side.png", data: png},
	)

	status, response := send(t, router, http.MethodPost, "/admin/products", body, contentType)
	require.Equal(t, http.StatusCreated, status, response.Code)

	var created product.Product
	require.NoError(t, json.Unmarshal(response.Data, &created))
	assert.Equal(t, "air-max-90", created.Slug)
	assert.Equal(t, 120.5, created.Price)
	assert.Equal(t, []string{"S", "M", "L"}, created.Sizes)
	assert.Equal(t, []string{"red", "blue"}, created.Colors)
	assert.True(t, created.IsFeatured)
	assert.Equal(t, adminID, *created.CreatedBy)
	require.Len(t, created.Images, 2)
	assert.True(t, strings.HasSuffix(created.Images[1], ".png"))
}

/*
TestHandler_CreateMultipart_Invalid reports malformed fields together.
*/
func TestHandler_CreateMultipart_Invalid(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	fields := f.fields("Air Max 90", "AM-090")
	fields["price"] = "cheap"
	delete(fields, "stock")

	body, contentType := multipartBody(t, fields)
	status, response := send(t, router, http.MethodPost, "/admin/products", body, contentType)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", response.Code)
}

/*
TestHandler_AdminPatches covers the stock and featured endpoints.
*/
func TestHandler_AdminPatches(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)
	created := f.create(t, f.input("Air Max 90", "AM-090"))

	status, response := send(t, router, http.MethodPatch, "/admin/products/"+created.ID+"/stock", strings.NewReader(`{"stock": 3}`), "application/json")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, product.MsgStockUpdated, response.Message)

	status, response = send(t, router, http.MethodPatch, "/admin/products/"+created.ID+"/stock", strings.NewReader(`{"stock": -3}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", response.Code)

	status, response = send(t, router, http.MethodPatch, "/admin/products/"+created.ID+"/featured", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, product.MsgFeatured, response.Message)

	body, contentType := multipartBody(t, map[string]string{"discount_price": "90"})
	status, response = send(t, router, http.MethodPut, "/admin/products/"+created.ID, body, contentType)
	require.Equal(t, http.StatusOK, status)
	var updated product.Product
	require.NoError(t, json.Unmarshal(response.Data, &updated))
	assert.Equal(t, 90.0, *updated.DiscountPrice)
	assert.Equal(t, 3, updated.Stock)
}

/*
TestHandler_Storefront exercises the public listing filters and pages.
*/
func TestHandler_Storefront(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	cheap := f.input("Canvas Low", "CV-001")
	cheap.Price = 40
	f.create(t, cheap)
	f.create(t, f.input("Air Max 90", "AM-090"))

	tests := []struct {
		name  string
		path  string
		total int
		first string
	}{
		{"all_newest_first", "/products", 2, "Air Max 90"},
		{"price_ascending", "/products?sort=price_asc", 2, "Canvas Low"},
		{"max_price", "/products?max_price=50", 1, "Canvas Low"},
		{"search", "/products?search=air", 1, "Air Max 90"},
		{"category_slug", "/products?category_slug=shoes", 2, "Air Max 90"},
		{"unknown_category_slug", "/products?category_slug=bags", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, response := send(t, router, http.MethodGet, tt.path, nil, "")
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.total, response.Meta.Total)

			var products []product.Product
			require.NoError(t, json.Unmarshal(response.Data, &products))
			if tt.first != "" {
				require.NotEmpty(t, products)
				assert.Equal(t, tt.first, products[0].Name)
			}
		})
	}

	status, response := send(t, router, http.MethodGet, "/products/air-max-90", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(response.Data), `"reviews":[]`)

	status, response = send(t, router, http.MethodGet, "/products/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", response.Code)
}
