package seed

import (
	"Supermarket-Vision-Backend/entities"
	"Supermarket-Vision-Backend/internal/utils/testdb"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIsIdempotent(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, db))
	require.NoError(t, Run(ctx, db))

	var productCount, materialCount int64
	require.NoError(t, db.Model(&entities.Product{}).Count(&productCount).Error)
	require.NoError(t, db.Model(&entities.RawMaterial{}).Count(&materialCount).Error)
	assert.Equal(t, int64(len(products)), productCount)
	assert.Equal(t, int64(len(rawMaterials)), materialCount)

	var biryani entities.RawMaterial
	require.NoError(t, db.Where("food_item = ?", "Biryani").First(&biryani).Error)
	assert.Equal(t, "seed", biryani.Source)
	assert.Contains(t, biryani.Ingredients, "basmati rice")
}
