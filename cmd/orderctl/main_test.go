package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
)

func seedSlot(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	orders := []order.Order{
		{
			ID:            "ORD-00000000000B",
			Status:        order.StatusPaymentVerification,
			PaymentMethod: "card",
			TotalAmount:   100,
			DeliveryFee:   10,
			OrderDate:     time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
			CustomerInfo:  order.CustomerInfo{Name: "Ben"},
		},
		{
			ID:            "ORD-00000000000A",
			Status:        order.StatusProcessing,
			PaymentMethod: "cod",
			Items:         []order.Item{{ID: "t1", Price: 50, Quantity: 2, Days: 3}},
			TotalAmount:   300,
			OrderDate:     time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC),
			CustomerInfo:  order.CustomerInfo{Name: "Ann"},
			DriverLocation: &order.DriverLocation{
				Latitude: 13.7, Longitude: 100.5, LastUpdated: time.Date(2024, 1, 31, 11, 0, 0, 0, time.UTC),
			},
		},
	}
	data, err := json.Marshal(orders)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.json"), data, 0o600))

	t.Setenv("ORDER_SERVICE_CONFIG", "")
	t.Setenv("ORDER_STORE_BACKEND", "file")
	t.Setenv("ORDER_STORE_PATH", dir)
	t.Setenv("ORDER_STORE_KEY", "orders")
}

func TestRun_ListTable(t *testing.T) {
	seedSlot(t)

	var out bytes.Buffer
	require.NoError(t, run(nil, &out))

	s := out.String()
	assert.Contains(t, s, "ORD-00000000000A")
	assert.Contains(t, s, "ORD-00000000000B")
	assert.Contains(t, s, "Pending Payment")
	assert.Contains(t, s, "117.00")
	assert.Contains(t, s, "13.700000, 100.500000")
}

func TestRun_StatusFilter(t *testing.T) {
	seedSlot(t)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-status", "processing"}, &out))
	assert.Contains(t, out.String(), "ORD-00000000000A")
	assert.NotContains(t, out.String(), "ORD-00000000000B")

	require.Error(t, run([]string{"-status", "shipped"}, &out))
}

func TestRun_Payload(t *testing.T) {
	seedSlot(t)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-payload", "ORD-00000000000A"}, &out))

	var p map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &p))
	assert.Equal(t, "Processing", p["order_status"])
	assert.Equal(t, "https://www.google.com/maps?q=13.7,100.5", p["driver_maps_link"])
}

func TestRun_DumpUnknownOrder(t *testing.T) {
	seedSlot(t)

	var out bytes.Buffer
	err := run([]string{"-dump", "ORD-NOPE"}, &out)
	require.ErrorIs(t, err, order.ErrNotFound)

	require.NoError(t, run([]string{"-dump", "ORD-00000000000B"}, &out))
	assert.Contains(t, out.String(), "ORD-00000000000B")
}
