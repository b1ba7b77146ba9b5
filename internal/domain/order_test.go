package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderShipped, false},
		{OrderConfirmed, OrderProcessing, true},
		{OrderConfirmed, OrderCancelled, true},
		{OrderProcessing, OrderShipped, true},
		{OrderProcessing, OrderDelivered, false},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestOrderHasStitchingWork(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{Kind: KindReadymade, Readymade: &ReadymadeDetails{Size: SizeM, Price: 50}},
			{Kind: KindFabric, Fabric: &FabricOrderDetails{PricePerMeter: 15, Meters: 2}},
		},
	}
	assert.False(t, order.HasStitchingWork())

	order.Items[1].Fabric.Stitching = &StitchingJob{
		StitchingSpec: StitchingSpec{Style: StyleKurta, Price: 35},
		Status:        StitchingPending,
	}
	assert.True(t, order.HasStitchingWork())
}

func TestProductValidate(t *testing.T) {
	valid := func() Product {
		return Product{
			ID:       "p1",
			Name:     "Linen Kurta",
			Category: CategoryMens,
			Kind:     KindReadymade,
			Readymade: &ReadymadeProduct{
				Price:     50,
				SizeStock: map[Size]int{SizeM: 3},
			},
		}
	}

	p := valid()
	assert.NoError(t, p.Validate())

	p = valid()
	p.Category = "unisex"
	assert.Error(t, p.Validate())

	p = valid()
	p.Fabric = &FabricProduct{PricePerMeter: 10}
	assert.Error(t, p.Validate())

	fabric := Product{
		ID:       "f1",
		Name:     "Cotton Poplin",
		Category: CategoryMens,
		Kind:     KindFabric,
		Fabric: &FabricProduct{
			PricePerMeter:      15,
			StockMeters:        40,
			StitchingAvailable: true,
			StitchingPrice:     35,
		},
	}
	assert.NoError(t, fabric.Validate())

	fabric.Fabric.StitchingPrice = 0
	assert.Error(t, fabric.Validate())
}

func TestProductStockChecks(t *testing.T) {
	readymade := Product{
		Kind:      KindReadymade,
		Readymade: &ReadymadeProduct{Price: 50, SizeStock: map[Size]int{SizeM: 2}},
	}
	assert.True(t, readymade.HasReadymadeStock(SizeM, 2))
	assert.False(t, readymade.HasReadymadeStock(SizeM, 3))
	assert.False(t, readymade.HasReadymadeStock(SizeL, 1))

	fabric := Product{
		Kind:   KindFabric,
		Fabric: &FabricProduct{PricePerMeter: 15, StockMeters: 5},
	}
	assert.True(t, fabric.HasFabricStock(5))
	assert.False(t, fabric.HasFabricStock(5.5))
	assert.False(t, readymade.HasFabricStock(1))

	accessory := Product{
		Kind:      KindAccessory,
		Accessory: &AccessoryProduct{Price: 10, Stock: 1},
	}
	assert.True(t, accessory.HasAccessoryStock(1))
	assert.False(t, accessory.HasAccessoryStock(2))
}

func TestStitchingStatusValues(t *testing.T) {
	for _, s := range ValidStitchingStatuses() {
		assert.True(t, IsValidStitchingStatus(s))
	}
	assert.False(t, IsValidStitchingStatus("altered"))
}
