package order

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/smarthomes/backend/internal/domain/cart"
	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var moneyEqual = cmp.Comparer(func(a, b valueobject.Money) bool { return a.Equals(b) })

func sequence(values ...string) ConfirmationGenerator {
	i := 0
	return ConfirmationFunc(func() (string, error) {
		v := values[i%len(values)]
		i++
		return v, nil
	})
}

func filledCart() *cart.Cart {
	c := cart.New()
	c.Add(cart.Line{ID: 1, Name: "Ring Video Doorbell", Price: valueobject.NewMoneyFromFloat(10)})
	c.UpdateQuantity(1, 2)
	c.Add(cart.Line{ID: 2, Name: "Google Nest Audio", Price: valueobject.NewMoneyFromFloat(5)})
	return c
}

func homeRequest() CheckoutRequest {
	return CheckoutRequest{
		Name:           "Ada Lovelace",
		CreditCard:     "4242424242421234",
		DeliveryOption: DeliveryHome,
		Address:        Address{Street: "1 Main St", City: "Chicago", State: "IL", Zip: "60601"},
	}
}

func mustDecode(t *testing.T, raw string) Order {
	t.Helper()
	o, err := Decode([]byte(raw))
	require.NoError(t, err)
	return o
}

var fixedNow = time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC)

func TestLedger_Checkout(t *testing.T) {
	t.Run("creates processing order and clears cart", func(t *testing.T) {
		l := NewLedger()
		c := filledCart()

		o, err := l.Checkout(c, homeRequest(), sequence("123456"), CheckoutOptions{Now: fixedNow})
		require.NoError(t, err)

		assert.True(t, c.IsEmpty())
		assert.Equal(t, 1, l.Len())
		assert.Equal(t, StatusProcessing, o.Status())

		got, ok := o.Detailed()
		require.True(t, ok)
		want := DetailedOrder{
			OrderID:            "123456",
			Name:               "Ada Lovelace",
			CreditCard:         "1234",
			DeliveryOption:     DeliveryHome,
			Address:            &Address{Street: "1 Main St", City: "Chicago", State: "IL", Zip: "60601"},
			Total:              valueobject.NewMoneyFromFloat(25),
			ConfirmationNumber: "123456",
			OrderDate:          "Fri Mar 01 2024",
			PickupDate:         "Fri Mar 15 2024",
			Cart: []cart.Line{
				{ID: 1, Name: "Ring Video Doorbell", Price: valueobject.NewMoneyFromFloat(10), Quantity: 2},
				{ID: 2, Name: "Google Nest Audio", Price: valueobject.NewMoneyFromFloat(5), Quantity: 1},
			},
			Status: StatusProcessing,
		}
		if diff := cmp.Diff(want, got, moneyEqual); diff != "" {
			t.Errorf("checkout order mismatch (-want +got):\n%s", diff)
		}

		events := l.GetDomainEvents()
		require.Len(t, events, 1)
		placed, ok := events[0].(*OrderPlacedEvent)
		require.True(t, ok)
		assert.Equal(t, 3, placed.ItemCount)
	})

	t.Run("store pickup resolves location", func(t *testing.T) {
		l := NewLedger()
		req := CheckoutRequest{Name: "Bob", CreditCard: "99", DeliveryOption: DeliveryStore, StoreLocationID: 10}
		o, err := l.Checkout(filledCart(), req, sequence("42"), CheckoutOptions{Now: fixedNow})
		require.NoError(t, err)

		d, _ := o.Detailed()
		require.NotNil(t, d.StoreLocation)
		assert.Equal(t, StoreLocation{ID: 10, Name: "Jersey City", ZipCode: "07302"}, *d.StoreLocation)
		assert.Nil(t, d.Address)
		assert.Equal(t, "99", d.CreditCard)
	})

	t.Run("rejects invalid requests without side effects", func(t *testing.T) {
		store := CheckoutRequest{Name: "Bob", CreditCard: "1111", DeliveryOption: DeliveryStore, StoreLocationID: 3}
		cases := map[string]func(r *CheckoutRequest){}
		for name, base := range map[string]CheckoutRequest{"home": homeRequest(), "store": store} {
			base := base
			cases[name+" without name"] = func(r *CheckoutRequest) { *r = base; r.Name = " " }
			cases[name+" without card"] = func(r *CheckoutRequest) { *r = base; r.CreditCard = "" }
		}
		cases["home without zip"] = func(r *CheckoutRequest) { *r = homeRequest(); r.Address.Zip = "" }
		cases["store without location"] = func(r *CheckoutRequest) { *r = store; r.StoreLocationID = 0 }
		cases["store with unknown location"] = func(r *CheckoutRequest) { *r = store; r.StoreLocationID = 11 }
		cases["unknown delivery mode"] = func(r *CheckoutRequest) { *r = homeRequest(); r.DeliveryOption = "drone" }

		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				l := NewLedger()
				c := filledCart()
				var req CheckoutRequest
				mutate(&req)

				_, err := l.Checkout(c, req, sequence("1"), CheckoutOptions{Now: fixedNow})
				require.Error(t, err)
				assert.True(t, errors.Is(err, shared.ErrInvalidInput))
				assert.Equal(t, 0, l.Len())
				assert.Equal(t, 2, c.Len())
				assert.Empty(t, l.GetDomainEvents())
			})
		}
	})

	t.Run("retries colliding confirmation numbers", func(t *testing.T) {
		l := NewLedger(mustDecode(t, `{"orderId":"7","confirmationNumber":"7","cart":[],"status":"Shipped"}`))
		o, err := l.Checkout(filledCart(), homeRequest(), sequence("7", "7", "8"), CheckoutOptions{Now: fixedNow})
		require.NoError(t, err)
		assert.Equal(t, "8", o.ConfirmationNumber())
		assert.Equal(t, "8", o.ID())
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		l := NewLedger(mustDecode(t, `{"orderId":"7","confirmationNumber":"7","cart":[],"status":"Shipped"}`))
		c := filledCart()
		_, err := l.Checkout(c, homeRequest(), sequence("7"), CheckoutOptions{Now: fixedNow, MintAttempts: 3})
		require.Error(t, err)
		assert.Equal(t, 1, l.Len())
		assert.Equal(t, 2, c.Len())
	})

	t.Run("random confirmations are decimal strings below one million", func(t *testing.T) {
		for range 100 {
			n, err := RandomConfirmations{}.Next()
			require.NoError(t, err)
			id, err := shared.ParseIntID(n)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, id, int64(0))
			assert.Less(t, id, int64(1_000_000))
		}
	})
}

func TestLedger_SetStatus(t *testing.T) {
	t.Run("numeric stored id matches string request", func(t *testing.T) {
		l := NewLedger(mustDecode(t, `{"orderId":7,"confirmationNumber":7,"name":"Ada","cart":[{"id":1,"name":"Lock","price":"19.99","quantity":1}],"total":"19.99","status":"Processing"}`))
		before, _ := l.FindByID("7")

		o, err := l.SetStatus("7", StatusShipped)
		require.NoError(t, err)
		assert.Equal(t, StatusShipped, o.Status())

		want, _ := before.Detailed()
		want.Status = StatusShipped
		got, _ := o.Detailed()
		if diff := cmp.Diff(want, got, moneyEqual); diff != "" {
			t.Errorf("only status should change (-want +got):\n%s", diff)
		}
	})

	t.Run("any status may be set from any status", func(t *testing.T) {
		l := NewLedger(mustDecode(t, `{"orderId":"1","cart":[],"status":"Delivered"}`))
		o, err := l.SetStatus("1", StatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, StatusProcessing, o.Status())
	})

	t.Run("legacy order", func(t *testing.T) {
		l := NewLedger(mustDecode(t, `{"orderId":3,"product":"Smart Plug","status":"Processing"}`))
		o, err := l.SetStatus("3", StatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, KindLegacy, o.Kind())
		assert.Equal(t, StatusDelivered, o.Status())
	})

	t.Run("not found", func(t *testing.T) {
		l := NewLedger()
		_, err := l.SetStatus("99", StatusShipped)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		l := NewLedger(mustDecode(t, `{"orderId":"1","cart":[],"status":"Processing"}`))
		_, err := l.SetStatus("1", Status("Lost"))
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		o, _ := l.FindByID("1")
		assert.Equal(t, StatusProcessing, o.Status())
	})
}

func TestLedger_Cancel(t *testing.T) {
	const raw = `[
		{"orderId":"100","confirmationNumber":"100","cart":[],"status":"Processing"},
		{"orderId":"200","confirmationNumber":"200","cart":[],"status":"Shipped"},
		{"orderId":"300","confirmationNumber":"300","cart":[],"status":"Delivered"},
		{"orderId":"400","confirmationNumber":"400","cart":[],"status":"Canceled"},
		{"orderId":500,"product":"Smart Plug","status":"Processing"}
	]`
	load := func(t *testing.T) *Ledger {
		l := NewLedger()
		require.NoError(t, json.Unmarshal([]byte(raw), l))
		return l
	}

	t.Run("removes processing order", func(t *testing.T) {
		l := load(t)
		o, err := l.Cancel("100")
		require.NoError(t, err)
		assert.Equal(t, "100", o.ID())
		assert.Equal(t, 4, l.Len())
		_, found := l.Find("100")
		assert.False(t, found)
		require.Len(t, l.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeOrderCanceled, l.GetDomainEvents()[0].EventType())
	})

	t.Run("matches legacy order by stringified id", func(t *testing.T) {
		l := load(t)
		_, err := l.Cancel("500")
		require.NoError(t, err)
		assert.Equal(t, 4, l.Len())
	})

	for _, ref := range []string{"200", "300", "400"} {
		t.Run("keeps non-processing order "+ref, func(t *testing.T) {
			l := load(t)
			before := l.Orders()
			o, _ := l.Find(ref)

			_, err := l.Cancel(ref)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidState))
			assert.Equal(t, "Cannot cancel order. Current status is "+o.Status().String()+".", err.Error())
			assert.Equal(t, len(before), l.Len())
			assert.Empty(t, l.GetDomainEvents())
		})
	}

	t.Run("not found", func(t *testing.T) {
		l := load(t)
		_, err := l.Cancel("999")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Equal(t, 5, l.Len())
	})
}

func TestDecode(t *testing.T) {
	t.Run("dispatches on present fields", func(t *testing.T) {
		legacy := mustDecode(t, `{"product":"Nest Thermostat","status":"Shipped"}`)
		assert.Equal(t, KindLegacy, legacy.Kind())
		assert.Equal(t, "Nest Thermostat", legacy.ProductNames())

		detailed := mustDecode(t, `{"product":"x","cart":[],"status":"Processing"}`)
		assert.Equal(t, KindDetailed, detailed.Kind())
	})

	t.Run("normalizes numeric ids", func(t *testing.T) {
		o := mustDecode(t, `{"orderId":7.0,"confirmationNumber":"7","customerId":12,"cart":[],"status":"Processing"}`)
		assert.Equal(t, "7", o.ID())
		assert.Equal(t, "12", o.CustomerID())
		assert.True(t, o.Matches(" 7 "))
	})

	t.Run("encodes each shape in its own form", func(t *testing.T) {
		legacy := mustDecode(t, `{"orderId":5,"product":"Smart Plug","status":"Processing"}`)
		out, err := json.Marshal(legacy)
		require.NoError(t, err)
		assert.JSONEq(t, `{"orderId":"5","product":"Smart Plug","status":"Processing"}`, string(out))

		detailed := mustDecode(t, `{"name":"Ada","creditCard":"1234","deliveryOption":"store","storeLocation":{"id":1,"name":"Downtown","zipCode":"10001"},"address":null,"total":25,"confirmationNumber":"9","orderDate":"Fri Mar 01 2024","pickupDate":"Fri Mar 15 2024","cart":[],"status":"Processing","orderId":"9"}`)
		out, err = json.Marshal(detailed)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Ada","creditCard":"1234","deliveryOption":"store","storeLocation":{"id":1,"name":"Downtown","zipCode":"10001"},"address":null,"total":"25.00","confirmationNumber":"9","orderDate":"Fri Mar 01 2024","pickupDate":"Fri Mar 15 2024","cart":[],"status":"Processing","orderId":"9"}`, string(out))
	})

	t.Run("rejects non-object", func(t *testing.T) {
		_, err := Decode([]byte(`[1]`))
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestLedger_AppendAndPurge(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Append(mustDecode(t, `{"orderId":"1","cart":[],"status":"Processing","customerId":"c1"}`)))
	require.NoError(t, l.Append(mustDecode(t, `{"orderId":"2","product":"Lock","status":"Shipped","customerId":"c2"}`)))
	require.NoError(t, l.Append(mustDecode(t, `{"orderId":"3","cart":[{"id":1,"name":"A","price":1,"quantity":1},{"id":2,"name":"B","price":2,"quantity":1}],"status":"Delivered","customerId":"c1"}`)))

	err := l.Append(mustDecode(t, `{"orderId":2,"cart":[],"status":"Processing"}`))
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))

	assert.Equal(t, []Summary{
		{OrderID: "1", Products: UnknownProduct, Status: StatusProcessing},
		{OrderID: "2", Products: "Lock", Status: StatusShipped},
		{OrderID: "3", Products: "A, B", Status: StatusDelivered},
	}, l.Summaries())

	l.ClearDomainEvents()
	removed := l.PurgeCustomer("c1")
	assert.Len(t, removed, 2)
	assert.Equal(t, 1, l.Len())
	assert.Nil(t, l.PurgeCustomer("nobody"))
	require.Len(t, l.GetDomainEvents(), 1)
	purged := l.GetDomainEvents()[0].(*OrdersPurgedEvent)
	assert.Equal(t, []string{"1", "3"}, purged.OrderIDs)
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus(" shipped ")
	assert.True(t, ok)
	assert.Equal(t, StatusShipped, s)

	_, ok = ParseStatus("Lost")
	assert.False(t, ok)
	assert.True(t, StatusProcessing.CanBeCanceledByCustomer())
	assert.False(t, StatusCanceled.CanBeCanceledByCustomer())
}
