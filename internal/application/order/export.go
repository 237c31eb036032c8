package order

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/smarthomes/backend/internal/domain/order"
	"github.com/smarthomes/backend/internal/infrastructure/telemetry"
)

// ExportRow is one order in the admin CSV export. Columns that do not
// apply to an order's shape are left empty.
type ExportRow struct {
	OrderID            string `csv:"order_id"`
	Kind               string `csv:"kind"`
	Status             string `csv:"status"`
	Products           string `csv:"products"`
	Items              string `csv:"items"`
	Total              string `csv:"total"`
	Name               string `csv:"name"`
	DeliveryOption     string `csv:"delivery_option"`
	StoreLocation      string `csv:"store_location"`
	Address            string `csv:"address"`
	ConfirmationNumber string `csv:"confirmation_number"`
	OrderDate          string `csv:"order_date"`
	PickupDate         string `csv:"pickup_date"`
	CustomerID         string `csv:"customer_id"`
}

// ToExportRow flattens an order of either shape
func ToExportRow(o order.Order) ExportRow {
	row := ExportRow{
		OrderID:    o.ID(),
		Kind:       o.Kind().String(),
		Status:     o.Status().String(),
		Products:   o.ProductNames(),
		CustomerID: o.CustomerID(),
	}
	d, ok := o.Detailed()
	if !ok {
		return row
	}

	items := 0
	for _, l := range d.Cart {
		items += l.Quantity
	}
	row.Items = strconv.Itoa(items)
	row.Total = d.Total.Fixed()
	row.Name = d.Name
	row.DeliveryOption = string(d.DeliveryOption)
	if d.StoreLocation != nil {
		row.StoreLocation = fmt.Sprintf("%s (%s)", d.StoreLocation.Name, d.StoreLocation.ZipCode)
	}
	if d.Address != nil {
		row.Address = strings.Join([]string{d.Address.Street, d.Address.City, d.Address.State, d.Address.Zip}, ", ")
	}
	row.ConfirmationNumber = d.ConfirmationNumber
	row.OrderDate = d.OrderDate
	row.PickupDate = d.PickupDate
	return row
}

// ExportCSV writes every order as CSV with a header row
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "export_csv")
	defer span.End()

	orders, err := s.List(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	rows := make([]*ExportRow, len(orders))
	for i, o := range orders {
		row := ToExportRow(o)
		rows[i] = &row
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrItemCount, len(rows))

	if err := gocsv.Marshal(rows, w); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to write orders csv: %w", err)
	}
	return nil
}
