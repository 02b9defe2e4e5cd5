package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityabima03/YuhuKopi/internal/domain"
)

func mocha(size string) domain.Selection {
	return domain.Selection{
		ProductID: "1",
		Size:      size,
		Name:      "Caffe Mocha",
		UnitPrice: "4.53",
		Image:     "/images/2.png",
	}
}

func TestCartStore_AddItem_MergesSameProductAndSize(t *testing.T) {
	s := NewCartStore(nil)

	s.AddItem(mocha(domain.SizeMedium))
	line := s.AddItem(mocha(domain.SizeMedium))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "1-M", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, line.Quantity)
}

func TestCartStore_AddItem_DistinctSizesStayDistinct(t *testing.T) {
	s := NewCartStore(nil)

	s.AddItem(mocha(domain.SizeSmall))
	s.AddItem(mocha(domain.SizeLarge))
	s.AddItem(mocha(domain.SizeSmall))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "1-S", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "1-L", items[1].ID)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestCartStore_Total_IsExact(t *testing.T) {
	s := NewCartStore(nil)
	s.AddItem(mocha(domain.SizeMedium))
	s.AddItem(mocha(domain.SizeMedium))

	assert.Equal(t, "9.06", s.Total().String())
	assert.Equal(t, "9.06", s.FormatTotal())
}

func TestCartStore_Total_AccumulatesWithoutRounding(t *testing.T) {
	s := NewCartStore(nil)
	for i := 0; i < 3; i++ {
		s.AddItem(domain.Selection{ProductID: "x", Size: "S", UnitPrice: "0.1"})
	}
	s.AddItem(domain.Selection{ProductID: "y", Size: "S", UnitPrice: "0.005"})

	assert.Equal(t, "0.305", s.Total().String())
	assert.Equal(t, "0.31", s.FormatTotal())
}

func TestCartStore_Total_EmptyAndUnparseable(t *testing.T) {
	s := NewCartStore(nil)
	assert.True(t, s.Total().IsZero())
	assert.Equal(t, "0.00", s.FormatTotal())

	s.AddItem(domain.Selection{ProductID: "bad", Size: "M", UnitPrice: "n/a"})
	s.AddItem(mocha(domain.SizeMedium))
	assert.Equal(t, "4.53", s.Total().String())
}

func TestCartStore_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		wantLines int
		wantQty   int
	}{
		{name: "sets exact quantity", n: 7, wantLines: 1, wantQty: 7},
		{name: "no upper bound", n: 1000, wantLines: 1, wantQty: 1000},
		{name: "zero removes", n: 0, wantLines: 0},
		{name: "negative removes", n: -1, wantLines: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCartStore(nil)
			s.AddItem(mocha(domain.SizeMedium))

			s.UpdateQuantity("1-M", tt.n)

			items := s.Items()
			require.Len(t, items, tt.wantLines)
			if tt.wantLines > 0 {
				assert.Equal(t, tt.wantQty, items[0].Quantity)
			}
		})
	}
}

func TestCartStore_UpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	s := NewCartStore(nil)
	s.AddItem(mocha(domain.SizeMedium))

	s.UpdateQuantity("9-L", 4)

	assert.Equal(t, 1, s.ItemCount())
}

func TestCartStore_RemoveItem(t *testing.T) {
	s := NewCartStore(nil)
	s.AddItem(mocha(domain.SizeSmall))
	s.AddItem(mocha(domain.SizeMedium))
	s.AddItem(mocha(domain.SizeLarge))

	s.RemoveItem("1-M")
	s.RemoveItem("does-not-exist")

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "1-S", items[0].ID)
	assert.Equal(t, "1-L", items[1].ID)
}

func TestCartStore_ItemCountSumsQuantities(t *testing.T) {
	s := NewCartStore(nil)
	s.AddItem(mocha(domain.SizeSmall))
	s.AddItem(mocha(domain.SizeSmall))
	s.AddItem(mocha(domain.SizeLarge))

	assert.Equal(t, 3, s.ItemCount())
	assert.Equal(t, 2, s.Len())
}

func TestCartStore_Clear(t *testing.T) {
	s := NewCartStore(nil)
	s.AddItem(mocha(domain.SizeSmall))

	s.Clear()

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.ItemCount())
	assert.True(t, s.Total().IsZero())
}

func TestCartStore_ItemsReturnsCopy(t *testing.T) {
	s := NewCartStore(nil)
	s.AddItem(mocha(domain.SizeSmall))

	items := s.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestCartStore_ConcurrentAdds(t *testing.T) {
	s := NewCartStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem(mocha(domain.SizeMedium))
		}()
	}
	wg.Wait()

	require.Equal(t, 1, s.Len())
	assert.Equal(t, 50, s.ItemCount())
	assert.Equal(t, "226.5", s.Total().String())
}
