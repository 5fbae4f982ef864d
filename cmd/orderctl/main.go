// Command orderctl inspects the persisted order slot without starting the
// service. It reads the same configuration as the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/slot"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/webhook"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "orderctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("orderctl", flag.ContinueOnError)
	status := fs.String("status", "", "only list orders in this status")
	dump := fs.String("dump", "", "print the raw stored record of an order id")
	payload := fs.String("payload", "", "print the webhook payload an order id would send")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)
	s, closeSlot, err := slot.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSlot()

	store, err := order.NewStore(ctx, s, order.Options{Logger: logger})
	if err != nil {
		return err
	}

	switch {
	case *dump != "":
		o, err := store.GetByID(ctx, *dump)
		if err != nil {
			return err
		}
		spew.Fdump(out, o)
		return nil

	case *payload != "":
		o, err := store.GetByID(ctx, *payload)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(webhook.BuildPayload(o, time.Now()))
	}

	orders, err := store.List(ctx)
	if err != nil {
		return err
	}
	if *status != "" {
		st, err := order.ParseStatus(*status)
		if err != nil {
			return err
		}
		orders = filterStatus(orders, st)
	}
	return renderTable(out, orders)
}

func filterStatus(orders []order.Order, st order.Status) []order.Order {
	out := orders[:0]
	for _, o := range orders {
		if o.Status == st {
			out = append(out, o)
		}
	}
	return out
}

func renderTable(out io.Writer, orders []order.Order) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.ID,
			o.OrderDate.Local().Format("2006-01-02 15:04"),
			o.CustomerInfo.Name,
			strconv.Itoa(len(o.Items)),
			strconv.FormatFloat(webhook.TotalWithTax(o.TotalAmount, o.DeliveryFee), 'f', 2, 64),
			o.PaymentMethod,
			o.Status.Label(),
			webhook.FormatCoordinates(driverLatLon(o)),
		})
	}

	table := tablewriter.NewWriter(out)
	table.Header("ID", "Placed", "Customer", "Items", "Total", "Payment", "Status", "Driver")
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func driverLatLon(o order.Order) (float64, float64) {
	if o.DriverLocation == nil {
		return math.NaN(), math.NaN()
	}
	return o.DriverLocation.Latitude, o.DriverLocation.Longitude
}
