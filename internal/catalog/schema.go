package catalog

import (
	"net/http"

	"github.com/go-openapi/spec"
)

// FieldSpec describes one attribute of the Product model as published to clients.
type FieldSpec struct {
	Name        string
	Type        string
	Description string
	Required    bool
	ReadOnly    bool
}

// ProductModel is the declared Product schema. The id is assigned by the
// store and therefore read-only; the rest must be present on every write.
func ProductModel() []FieldSpec {
	return []FieldSpec{
		{Name: "id", Type: "integer", Description: "Product id", Required: true, ReadOnly: true},
		{Name: "name", Type: "string", Description: "Product name", Required: true},
		{Name: "description", Type: "string", Description: "Product description", Required: true},
		{Name: "price", Type: "integer", Description: "Product price", Required: true},
		{Name: "quantity", Type: "integer", Description: "Product quantity", Required: true},
	}
}

const (
	apiTitle       = "Product Catalogue API"
	apiVersion     = "1.0.0"
	apiDescription = "Minimalistic product catalogue management API"

	productParam = "product_id"
	productTag   = "products"
)

// NewOpenAPIDoc renders ProductModel and the /products routes as a
// Swagger 2.0 document.
func NewOpenAPIDoc() *spec.Swagger {
	idParam := func() *spec.Parameter {
		return spec.PathParam(productParam).
			Typed("integer", "int64").
			WithDescription("Unique Product ID")
	}
	payload := func() *spec.Parameter {
		return spec.BodyParam("payload", spec.RefSchema("#/definitions/ProductPayload")).AsRequired()
	}

	op := func(id string, codes []int, params ...*spec.Parameter) *spec.Operation {
		o := spec.NewOperation(id).WithTags(productTag)
		for _, p := range params {
			o.AddParam(p)
		}
		for _, c := range codes {
			o.RespondsWith(c, spec.NewResponse().WithDescription(http.StatusText(c)))
		}
		return o
	}

	list := spec.PathItem{PathItemProps: spec.PathItemProps{
		Get:  op("get_products", []int{http.StatusOK, http.StatusInternalServerError}),
		Post: op("post_products", []int{http.StatusCreated, http.StatusBadRequest, http.StatusInternalServerError}, payload()),
	}}
	item := spec.PathItem{PathItemProps: spec.PathItemProps{
		Get:    op("get_product", []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError}, idParam()),
		Put:    op("put_product", []int{http.StatusAccepted, http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError}, idParam(), payload()),
		Delete: op("delete_product", []int{http.StatusNoContent, http.StatusNotFound, http.StatusInternalServerError}, idParam()),
	}}

	return &spec.Swagger{SwaggerProps: spec.SwaggerProps{
		Swagger: "2.0",
		Info: &spec.Info{InfoProps: spec.InfoProps{
			Title:       apiTitle,
			Version:     apiVersion,
			Description: apiDescription,
		}},
		BasePath: "/",
		Consumes: []string{"application/json"},
		Produces: []string{"application/json"},
		Tags:     []spec.Tag{spec.NewTag(productTag, apiDescription, nil)},
		Paths: &spec.Paths{Paths: map[string]spec.PathItem{
			"/products/":                       list,
			"/products/{" + productParam + "}": item,
		}},
		Definitions: spec.Definitions{
			"Product":        modelSchema(ProductModel(), true),
			"ProductPayload": modelSchema(ProductModel(), false),
		},
	}}
}

func modelSchema(fields []FieldSpec, withReadOnly bool) spec.Schema {
	s := new(spec.Schema).Typed("object", "")
	for _, f := range fields {
		if f.ReadOnly && !withReadOnly {
			continue
		}
		prop := propertySchema(f)
		s.SetProperty(f.Name, *prop)
		if f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return *s
}

func propertySchema(f FieldSpec) *spec.Schema {
	var p *spec.Schema
	switch f.Type {
	case "integer":
		p = spec.Int64Property()
	default:
		p = spec.StringProperty()
	}
	p = p.WithDescription(f.Description)
	p.ReadOnly = f.ReadOnly
	return p
}
