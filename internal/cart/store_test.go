package cart

import (
	"reflect"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(id, color, size string, price int64) Candidate {
	return Candidate{
		ProductID: id,
		Name:      "Shoe " + id,
		UnitPrice: decimal.NewFromInt(price),
		ImageRef:  "img-" + id + "-" + color,
		Color:     color,
		Size:      size,
	}
}

func TestAddItem_SameKeyAggregates(t *testing.T) {
	s := NewStore()
	c := candidate("1", "White", "9", 189)

	for i := 0; i < 5; i++ {
		s.AddItem(c)
	}

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}
}

func TestAddItem_DistinctKeysAppendInOrder(t *testing.T) {
	s := NewStore()
	keys := []Candidate{
		candidate("1", "White", "9", 189),
		candidate("1", "Black", "9", 189),
		candidate("1", "White", "10", 189),
		candidate("2", "White", "9", 159),
	}
	for _, c := range keys {
		s.AddItem(c)
	}

	items := s.Items()
	require.Len(t, items, len(keys))
	for i, c := range keys {
		assert.Equal(t, c.Key(), items[i].Key())
		assert.Equal(t, 1, items[i].Quantity)
	}
}

func TestAddItem_KeepsFirstSnapshot(t *testing.T) {
	s := NewStore()
	first := candidate("1", "White", "9", 189)
	s.AddItem(first)

	repriced := first
	repriced.UnitPrice = decimal.NewFromInt(1)
	repriced.Name = "Renamed"
	line := s.AddItem(repriced)

	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, first.Name, line.Name)
	assert.True(t, line.UnitPrice.Equal(first.UnitPrice), "unit price changed to %s", line.UnitPrice)
}

func TestKey_NoSeparatorCollision(t *testing.T) {
	s := NewStore()
	s.AddItem(candidate("1", "a,b", "c", 10))
	s.AddItem(candidate("1", "a", "b,c", 10))

	if got := s.Len(); got != 2 {
		t.Fatalf("expected 2 distinct lines, got %d", got)
	}
}

func TestRemoveItem(t *testing.T) {
	tests := map[string]struct {
		remove  Key
		changed bool
		wantLen int
	}{
		"existing key": {
			remove:  Key{ProductID: "1", Color: "White", Size: "9"},
			changed: true,
			wantLen: 1,
		},
		"missing key": {
			remove:  Key{ProductID: "9", Color: "Red", Size: "12"},
			changed: false,
			wantLen: 2,
		},
		"partial key match": {
			remove:  Key{ProductID: "1", Color: "White", Size: "10"},
			changed: false,
			wantLen: 2,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			s.AddItem(candidate("1", "White", "9", 189))
			s.AddItem(candidate("2", "Navy", "8", 159))
			before := s.Items()

			changed := s.RemoveItem(tc.remove)

			if changed != tc.changed {
				t.Fatalf("expected changed=%v, got %v", tc.changed, changed)
			}
			if s.Len() != tc.wantLen {
				t.Fatalf("expected %d lines, got %d", tc.wantLen, s.Len())
			}
			if !tc.changed && !reflect.DeepEqual(before, s.Items()) {
				t.Fatalf("expected collection unchanged, before=%+v after=%+v", before, s.Items())
			}
		})
	}
}

func TestUpdateQuantity(t *testing.T) {
	k := Key{ProductID: "1", Color: "White", Size: "9"}

	tests := map[string]struct {
		key      Key
		quantity int
		wantLen  int
		wantQty  int
	}{
		"replace exactly":  {key: k, quantity: 7, wantLen: 1, wantQty: 7},
		"zero removes":     {key: k, quantity: 0, wantLen: 0},
		"negative removes": {key: k, quantity: -5, wantLen: 0},
		"missing key is ignored": {
			key:      Key{ProductID: "9", Color: "red", Size: "12"},
			quantity: 3,
			wantLen:  1,
			wantQty:  2,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			c := candidate("1", "White", "9", 189)
			s.AddItem(c)
			s.AddItem(c)

			s.UpdateQuantity(tc.key, tc.quantity)

			items := s.Items()
			require.Len(t, items, tc.wantLen)
			if tc.wantLen > 0 {
				assert.Equal(t, tc.wantQty, items[0].Quantity)
			}
		})
	}
}

func TestUpdateQuantity_AbsentKeyLeavesCollectionUnchanged(t *testing.T) {
	s := NewStore()
	s.AddItem(candidate("1", "White", "9", 189))
	before := s.Items()

	changed := s.UpdateQuantity(Key{ProductID: "9", Color: "red", Size: "12"}, 4)

	assert.False(t, changed)
	assert.Equal(t, before, s.Items())
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.AddItem(candidate("1", "White", "9", 189))
	s.AddItem(candidate("3", "Brown", "10", 249))

	assert.True(t, s.Clear())

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.ItemCount())
	assert.True(t, s.Subtotal().IsZero())

	assert.False(t, s.Clear(), "clearing an empty cart changes nothing")
	assert.Empty(t, s.Items())
}

func TestCheckoutClaim(t *testing.T) {
	s := NewStore()

	require.True(t, s.BeginCheckout())
	assert.False(t, s.BeginCheckout(), "a second checkout must wait for the first")

	s.EndCheckout()
	assert.True(t, s.BeginCheckout())
	s.EndCheckout()
}

func TestSettle(t *testing.T) {
	tests := map[string]struct {
		during    func(s *Store)
		wantLines []LineItem
	}{
		"nothing changed": {
			during:    func(s *Store) {},
			wantLines: []LineItem{},
		},
		"line added during submission is kept": {
			during: func(s *Store) { s.AddItem(candidate("2", "Navy", "10", 159)) },
			wantLines: []LineItem{
				{ProductID: "2", Name: "Shoe 2", UnitPrice: decimal.NewFromInt(159), ImageRef: "img-2-Navy", Color: "Navy", Size: "10", Quantity: 1},
			},
		},
		"top-up keeps the difference": {
			during: func(s *Store) { s.AddItem(candidate("1", "White", "9", 189)) },
			wantLines: []LineItem{
				{ProductID: "1", Name: "Shoe 1", UnitPrice: decimal.NewFromInt(189), ImageRef: "img-1-White", Color: "White", Size: "9", Quantity: 1},
			},
		},
		"line lowered during submission is removed": {
			during:    func(s *Store) { s.UpdateQuantity(Key{ProductID: "1", Color: "White", Size: "9"}, 1) },
			wantLines: []LineItem{},
		},
		"line removed during submission stays gone": {
			during:    func(s *Store) { s.RemoveItem(Key{ProductID: "3", Color: "Brown", Size: "10"}) },
			wantLines: []LineItem{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			s.AddItem(candidate("1", "White", "9", 189))
			s.AddItem(candidate("1", "White", "9", 189))
			s.AddItem(candidate("3", "Brown", "10", 249))

			submitted := s.Items()
			tc.during(s)
			s.Settle(submitted)

			assert.Equal(t, tc.wantLines, s.Items())
		})
	}
}

func TestScenario_TwoVariantsOfOneProduct(t *testing.T) {
	s := NewStore()
	white := candidate("1", "white", "9", 189)
	black := candidate("1", "black", "9", 189)

	s.AddItem(white)
	s.AddItem(white)
	s.AddItem(black)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "white", snap.Items[0].Color)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, "black", snap.Items[1].Color)
	assert.Equal(t, 1, snap.Items[1].Quantity)
	assert.Equal(t, 3, snap.ItemCount)
	assert.True(t, snap.Subtotal.Equal(decimal.NewFromInt(567)), "subtotal %s", snap.Subtotal)
}

func TestSubtotal_FixedPoint(t *testing.T) {
	s := NewStore()
	c := Candidate{ProductID: "p", Color: "c", Size: "s", UnitPrice: decimal.RequireFromString("0.1")}
	s.AddItem(c)
	s.UpdateQuantity(c.Key(), 3)
	s.AddItem(Candidate{ProductID: "q", Color: "c", Size: "s", UnitPrice: decimal.RequireFromString("0.2")})

	if got := s.Subtotal(); !got.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("expected subtotal 0.5, got %s", got)
	}
}

func TestItems_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.AddItem(candidate("1", "White", "9", 189))

	items := s.Items()
	items[0].Quantity = 99

	if got := s.Items()[0].Quantity; got != 1 {
		t.Fatalf("store mutated through returned slice, quantity=%d", got)
	}
}

func TestDerivedValuesMatchLines(t *testing.T) {
	f := gofakeit.New(42)
	s := NewStore()

	for i := 0; i < 200; i++ {
		c := Candidate{
			ProductID: f.DigitN(1),
			Name:      f.ProductName(),
			UnitPrice: decimal.NewFromFloat(f.Price(1, 300)).Round(2),
			Color:     f.RandomString([]string{"White", "Black", "Navy"}),
			Size:      f.RandomString([]string{"8", "9", "10"}),
		}
		switch f.IntRange(0, 3) {
		case 0, 1:
			s.AddItem(c)
		case 2:
			s.UpdateQuantity(c.Key(), f.IntRange(-2, 5))
		default:
			s.RemoveItem(c.Key())
		}

		snap := s.Snapshot()
		count := 0
		sum := decimal.Zero
		seen := make(map[Key]struct{}, len(snap.Items))
		for _, it := range snap.Items {
			if it.Quantity < 1 {
				t.Fatalf("line %+v has quantity < 1", it.Key())
			}
			if _, dup := seen[it.Key()]; dup {
				t.Fatalf("duplicate line for key %+v", it.Key())
			}
			seen[it.Key()] = struct{}{}
			count += it.Quantity
			sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		if snap.ItemCount != count {
			t.Fatalf("itemCount %d != sum of quantities %d", snap.ItemCount, count)
		}
		if !snap.Subtotal.Equal(sum) {
			t.Fatalf("subtotal %s != sum of line totals %s", snap.Subtotal, sum)
		}
	}
}

func TestAddItem_Concurrent(t *testing.T) {
	s := NewStore()
	c := candidate("1", "White", "9", 189)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			s.AddItem(c)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, s.Len())
	assert.Equal(t, n, s.ItemCount())
}
