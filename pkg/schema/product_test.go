package schema

import (
	"testing"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogProductV1(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		vMarshal := CatalogProductV1{
			ID:                 7,
			Name:               "Desk Lamp",
			Brand:              "Acme",
			Category:           "Lighting",
			Price:              "499.99",
			Images:             []string{"lamp-1.jpg", "lamp-2.jpg"},
			Description:        "Warm light",
			SKU:                "AC-LAMP-7",
			ReviewsStarAverage: 4.4,
			ReviewsCount:       12,
			InStock:            true,
		}

		var productSchema avro.Schema
		require.NotPanics(t, func() {
			productSchema = CatalogProductV1Avro()
		})

		data, err := avro.Marshal(productSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal CatalogProductV1
		err = avro.Unmarshal(productSchema, data, &vUnmarshal)
		require.NoError(t, err)
		assert.Equal(t, vMarshal, vUnmarshal)
	})

	t.Run("LegacyImageNoImages", func(t *testing.T) {
		vMarshal := CatalogProductV1{
			ID:     8,
			Name:   "Chair",
			Price:  "0",
			Images: []string{},
			Image:  "chair.jpg",
		}

		productSchema := CatalogProductV1Avro()
		data, err := avro.Marshal(productSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal CatalogProductV1
		err = avro.Unmarshal(productSchema, data, &vUnmarshal)
		require.NoError(t, err)

		assert.Equal(t, "chair.jpg", vUnmarshal.Image)
		assert.Empty(t, vUnmarshal.Images)
		assert.False(t, vUnmarshal.InStock)
	})
}
