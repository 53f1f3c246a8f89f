package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

func TestParseCausalRef_IdaYVuelta(t *testing.T) {
	refs := []entity.CausalRef{
		entity.SaleRef{SaleID: "s-1"},
		entity.VoidRef{SaleID: "s-1"},
		entity.ReceivingRef{ReceivingID: "r-1"},
		entity.ManualAdjustmentRef{AdjustmentID: "a-1"},
		entity.PaymentRef{PaymentID: "p-1"},
	}
	for _, ref := range refs {
		got, err := entity.ParseCausalRef(ref.Kind(), ref.EntityID())
		require.NoError(t, err, ref.Kind())
		assert.Equal(t, ref, got)
	}
}

func TestParseCausalRef_Rechazos(t *testing.T) {
	_, err := entity.ParseCausalRef(entity.RefKindSale, "")
	assert.Error(t, err, "sin id")

	_, err = entity.ParseCausalRef("TRANSFER", "x-1")
	assert.Error(t, err, "tipo desconocido")
}
