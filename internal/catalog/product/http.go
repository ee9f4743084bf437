// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/shopora/internal/platform/request"
	"github.com/taibuivan/shopora/internal/platform/respond"
	"github.com/taibuivan/shopora/pkg/convert"
	"github.com/taibuivan/shopora/pkg/pagination"
	"github.com/taibuivan/shopora/pkg/pointer"
)

// Handler exposes products over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the storefront endpoints.
func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/", handler.browse)
	router.Get("/featured", handler.featured)
	router.Get("/{slug}", handler.detail)
	router.Get("/{slug}/related", handler.related)
}

// RegisterAdminRoutes mounts the management endpoints. The caller is
// responsible for the admin gate.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)
	router.Patch("/{id}/stock", handler.updateStock)
	router.Patch("/{id}/featured", handler.toggleFeatured)
}

// # Storefront

func (handler *Handler) browse(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		Search:       query.Get("search"),
		CategoryID:   query.Get("category_id"),
		CategorySlug: query.Get("category_slug"),
		IsFeatured:   convert.TrueOnly(query.Get("is_featured")),
		MinPrice:     convert.OptionalFloat(query.Get("min_price")),
		MaxPrice:     convert.OptionalFloat(query.Get("max_price")),
		Sort:         query.Get("sort"),
	}

	products, total, err := handler.service.Browse(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) featured(writer http.ResponseWriter, request *http.Request) {
	limit := convert.ToIntD(request.URL.Query().Get("limit"), DefaultFeaturedSize)

	products, err := handler.service.Featured(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, products)
}

func (handler *Handler) detail(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.Detail(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

func (handler *Handler) related(writer http.ResponseWriter, request *http.Request) {
	limit := convert.ToIntD(request.URL.Query().Get("limit"), DefaultRelatedSize)

	products, err := handler.service.Related(request.Context(), requestutil.Param(request, "slug"), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, products)
}

// # Administration

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		Search:     query.Get("search"),
		CategoryID: query.Get("category_id"),
		IsFeatured: convert.OptionalBool(query.Get("is_featured")),
		IsActive:   convert.OptionalBool(query.Get("is_active")),
		MinPrice:   convert.OptionalFloat(query.Get("min_price")),
		MaxPrice:   convert.OptionalFloat(query.Get("max_price")),
		InStock:    pointer.Val(convert.TrueOnly(query.Get("in_stock"))),
	}

	products, total, err := handler.service.List(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.UUIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.FindByID(request.Context(), productID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fields, err := parseForm(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	price := fields.float(FieldPrice)
	stock := fields.integer(FieldStock)
	fields.require(FieldPrice, price != nil)
	fields.require(FieldStock, stock != nil)
	input := CreateInput{
		Name:          pointer.Val(fields.text(FieldName)),
		Description:   pointer.Val(fields.text(FieldDescription)),
		Price:         pointer.Val(price),
		DiscountPrice: fields.float(FieldDiscountPrice),
		Stock:         pointer.Val(stock),
		CategoryID:    pointer.Val(fields.text(FieldCategoryID)),
		SKU:           pointer.Val(fields.text(FieldSKU)),
		Sizes:         fields.list(FieldSizes),
		Colors:        fields.list(FieldColors),
		Weight:        fields.float(FieldWeight),
		IsFeatured:    pointer.Val(fields.boolean(FieldIsFeatured)),
		IsActive:      fields.boolean(FieldIsActive),
		CreatedBy:     userID,
	}
	if err := fields.validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	uploads, release, err := fields.uploads()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer release()
	input.Images = uploads

	product, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, MsgCreated, product)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.UUIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fields, err := parseForm(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := UpdateInput{
		Name:          fields.text(FieldName),
		Description:   fields.text(FieldDescription),
		Price:         fields.float(FieldPrice),
		DiscountPrice: fields.float(FieldDiscountPrice),
		Stock:         fields.integer(FieldStock),
		CategoryID:    fields.text(FieldCategoryID),
		SKU:           fields.text(FieldSKU),
		Sizes:         fields.list(FieldSizes),
		Colors:        fields.list(FieldColors),
		Weight:        fields.float(FieldWeight),
		IsFeatured:    fields.boolean(FieldIsFeatured),
		IsActive:      fields.boolean(FieldIsActive),
		RemoveImages:  fields.list(FieldRemoveImages),
	}
	input.ClearDiscountPrice = fields.has(FieldDiscountPrice) && input.DiscountPrice == nil && !fields.validator.HasErrors()
	if err := fields.validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	uploads, release, err := fields.uploads()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer release()
	input.Images = uploads

	product, err := handler.service.Update(request.Context(), productID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgUpdated, product)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.UUIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), productID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgDeleted, nil)
}

func (handler *Handler) updateStock(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.UUIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input StockInput
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.UpdateStock(request.Context(), productID, *input.Stock)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgStockUpdated, map[string]any{
		"id":    product.ID,
		"name":  product.Name,
		"stock": product.Stock,
	})
}

func (handler *Handler) toggleFeatured(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.UUIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.ToggleFeatured(request.Context(), productID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := MsgUnfeatured
	if product.IsFeatured {
		message = MsgFeatured
	}
	respond.Message(writer, message, map[string]any{
		"id":          product.ID,
		"name":        product.Name,
		"is_featured": product.IsFeatured,
	})
}
