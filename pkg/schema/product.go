package schema

import "github.com/hamba/avro/v2"

const CatalogProductSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "catalog_product",
	"fields" : [
		{"name": "id", "type": "long"},
		{"name": "name", "type": "string"},
		{"name": "brand", "type": "string"},
		{"name": "category", "type": "string"},
		{"name": "price", "type": "string"},
		{"name": "images", "type": {"type": "array", "items": "string"}},
		{"name": "image", "type": "string", "default": ""},
		{"name": "description", "type": "string"},
		{"name": "sku", "type": "string"},
		{"name": "reviews_star_average", "type": "double"},
		{"name": "reviews_count", "type": "long"},
		{"name": "in_stock", "type": "boolean"}
	]
}`

// CatalogProductV1 is a catalog record value. Price is a decimal string
// so amounts survive the wire exactly.
type CatalogProductV1 struct {
	ID                 int64    `avro:"id"`
	Name               string   `avro:"name"`
	Brand              string   `avro:"brand"`
	Category           string   `avro:"category"`
	Price              string   `avro:"price"`
	Images             []string `avro:"images"`
	Image              string   `avro:"image"`
	Description        string   `avro:"description"`
	SKU                string   `avro:"sku"`
	ReviewsStarAverage float64  `avro:"reviews_star_average"`
	ReviewsCount       int64    `avro:"reviews_count"`
	InStock            bool     `avro:"in_stock"`
}

// CatalogProductV1Avro panics if the schema text is invalid.
func CatalogProductV1Avro() avro.Schema {
	return avro.MustParse(CatalogProductSchemaTextV1)
}
