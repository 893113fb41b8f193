package retail

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lakegen/lakegen/internal/datagen"
	"github.com/lakegen/lakegen/internal/datasets"
	"github.com/lakegen/lakegen/internal/logging"
	"github.com/lakegen/lakegen/internal/sink"
)

// Reference data
var productCategories = map[string][]string{
	"Electronics":     {"Smartphones", "Laptops", "Headphones", "Tablets"},
	"Home Appliances": {"Refrigerators", "Microwaves", "Air Conditioners"},
	"Furniture":       {"Chairs", "Tables", "Beds"},
	"Sports":          {"Fitness", "Cycling", "Running"},
}

var categoryNames = []string{"Electronics", "Home Appliances", "Furniture", "Sports"}

var (
	channels       = []string{"Online", "Retail"}
	paymentMethods = []string{"Credit Card", "GCash", "COD", "PayPal"}
	couponCodes    = []string{"NONE", "DISC10", "FREESHIP", "WELCOME5"}
	carriers       = []string{"AUSPOST", "LBC", "J&T", "NinjaVan"}
	returnReasons  = []string{"Defective", "Wrong Item", "Late Delivery", "Changed Mind"}
	regions        = []string{"North", "South", "East", "West"}
)

type generator struct {
	faker *datagen.Faker
	spec  datasets.GenerateSpec

	// Order dates indexed by order_id-1, filled by generateOrders and
	// consumed by shipments and returns.
	orderDates []time.Time
}

func newGenerator(spec datasets.GenerateSpec) *generator {
	return &generator{
		faker: datagen.NewFakerWithSeed(spec.Seed),
		spec:  spec,
	}
}

func (g *generator) run(ctx context.Context) ([]datasets.Output, error) {
	log := logging.ForDataset("retail")
	log.Info().
		Int("customers", g.spec.Customers).
		Int("products", g.spec.Products).
		Int("orders", g.spec.Orders).
		Msg("Generating retail data")

	steps := []func(context.Context) (datasets.Output, error){
		g.generateCustomers,
		g.generateProducts,
		g.generateStores,
		g.generateSuppliers,
	}

	var outputs []datasets.Output
	for _, step := range steps {
		out, err := step(ctx)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}

	orderOuts, err := g.generateOrders(ctx)
	if err != nil {
		return nil, err
	}
	outputs = append(outputs, orderOuts...)

	shipments, err := g.generateShipments(ctx)
	if err != nil {
		return nil, err
	}
	outputs = append(outputs, shipments)

	returns, err := g.generateReturns(ctx)
	if err != nil {
		return nil, err
	}
	outputs = append(outputs, returns)

	return outputs, nil
}

func (g *generator) generateCustomers(ctx context.Context) (datasets.Output, error) {
	header := []string{
		"customer_id", "natural_key", "first_name", "last_name", "email", "phone",
		"address_line1", "address_line2", "city", "state_region", "postcode",
		"country_code", "latitude", "longitude", "birth_date", "join_ts",
		"is_vip", "gdpr_consent",
	}

	f, err := sink.CreateCSV(filepath.Join(g.spec.OutDir, "customers.csv"), header)
	if err != nil {
		return datasets.Output{}, err
	}
	defer f.Close()

	progress := datagen.NewProgressReporter("customers", int64(g.spec.Customers), 100000)
	birthStart := time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)
	joinStart := g.spec.Start.AddDate(-2, 0, 0)

	for i := 1; i <= g.spec.Customers; i++ {
		if err := ctx.Err(); err != nil {
			return datasets.Output{}, err
		}

		email := g.faker.Email()
		if g.faker.Chance(g.spec.DirtyRate) {
			// Deliberately malformed, exercised by downstream cleaning.
			email = "bad_email"
		}

		birth := g.faker.DateInDays(birthStart, 45*365)
		join := g.faker.DateRange(joinStart, g.spec.Start.AddDate(0, 0, g.spec.Days))

		record := []string{
			strconv.Itoa(i),
			g.faker.NaturalKey("CUST", 8),
			g.faker.FirstName(),
			g.faker.LastName(),
			email,
			g.faker.Phone(),
			g.faker.Street(),
			"",
			g.faker.City(),
			g.faker.State(),
			g.faker.Zip(),
			g.faker.CountryCode(),
			fmt.Sprintf("%.6f", g.faker.Float64(-44, -10)),
			fmt.Sprintf("%.6f", g.faker.Float64(112, 154)),
			birth.Format("2006-01-02"),
			join.UTC().Format("2006-01-02 15:04:05"),
			strconv.FormatBool(g.faker.Chance(0.15)),
			strconv.FormatBool(g.faker.Chance(0.95)),
		}
		if err := f.Write(record); err != nil {
			return datasets.Output{}, fmt.Errorf("failed to write customer %d: %w", i, err)
		}
		progress.Update(1)
	}
	progress.Done()

	if err := f.Close(); err != nil {
		return datasets.Output{}, err
	}
	return datasets.Output{Path: "customers.csv", Rows: f.Rows()}, nil
}

func (g *generator) generateProducts(ctx context.Context) (datasets.Output, error) {
	header := []string{
		"product_id", "sku", "name", "category", "subcategory", "current_price",
		"currency", "is_discontinued", "introduced_dt", "discontinued_dt",
	}

	f, err := sink.CreateCSV(filepath.Join(g.spec.OutDir, "products.csv"), header)
	if err != nil {
		return datasets.Output{}, err
	}
	defer f.Close()

	introStart := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= g.spec.Products; i++ {
		if err := ctx.Err(); err != nil {
			return datasets.Output{}, err
		}

		category := datagen.Choose(g.faker, categoryNames)
		subcategory := datagen.Choose(g.faker, productCategories[category])

		isDiscontinued := g.faker.Chance(0.1)
		introduced := g.faker.DateInDays(introStart, 1500)
		discontinued := ""
		if isDiscontinued {
			discontinued = introduced.AddDate(0, 0, g.faker.Int(300, 1000)).Format("2006-01-02")
		}

		record := []string{
			strconv.Itoa(i),
			g.faker.SKU(),
			fmt.Sprintf("%s %s", capitalize(g.faker.Word()), singular(subcategory)),
			category,
			subcategory,
			fmt.Sprintf("%.2f", g.faker.Price(50, 5000)),
			"AUD",
			strconv.FormatBool(isDiscontinued),
			introduced.Format("2006-01-02"),
			discontinued,
		}
		if err := f.Write(record); err != nil {
			return datasets.Output{}, fmt.Errorf("failed to write product %d: %w", i, err)
		}
	}

	if err := f.Close(); err != nil {
		return datasets.Output{}, err
	}
	return datasets.Output{Path: "products.csv", Rows: f.Rows()}, nil
}

func (g *generator) generateStores(ctx context.Context) (datasets.Output, error) {
	header := []string{
		"store_id", "store_code", "name", "channel", "region", "state",
		"latitude", "longitude", "open_dt", "close_dt",
	}

	f, err := sink.CreateCSV(filepath.Join(g.spec.OutDir, "stores.csv"), header)
	if err != nil {
		return datasets.Output{}, err
	}
	defer f.Close()

	openStart := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= g.spec.Stores; i++ {
		if err := ctx.Err(); err != nil {
			return datasets.Output{}, err
		}

		record := []string{
			strconv.Itoa(i),
			fmt.Sprintf("STORE_%03d", i),
			fmt.Sprintf("%s %s", g.faker.City(), datagen.Choose(g.faker, regions)),
			datagen.Choose(g.faker, channels),
			datagen.Choose(g.faker, regions),
			g.faker.State(),
			fmt.Sprintf("%.6f", g.faker.Float64(-44, -10)),
			fmt.Sprintf("%.6f", g.faker.Float64(112, 154)),
			g.faker.DateInDays(openStart, 2000).Format("2006-01-02"),
			"",
		}
		if err := f.Write(record); err != nil {
			return datasets.Output{}, fmt.Errorf("failed to write store %d: %w", i, err)
		}
	}

	if err := f.Close(); err != nil {
		return datasets.Output{}, err
	}
	return datasets.Output{Path: "stores.csv", Rows: f.Rows()}, nil
}

func (g *generator) generateSuppliers(ctx context.Context) (datasets.Output, error) {
	header := []string{
		"supplier_id", "supplier_code", "name", "country_code",
		"lead_time_days", "preferred",
	}

	f, err := sink.CreateCSV(filepath.Join(g.spec.OutDir, "suppliers.csv"), header)
	if err != nil {
		return datasets.Output{}, err
	}
	defer f.Close()

	for i := 1; i <= g.spec.Suppliers; i++ {
		if err := ctx.Err(); err != nil {
			return datasets.Output{}, err
		}

		record := []string{
			strconv.Itoa(i),
			fmt.Sprintf("SUP_%04d", i),
			datagen.Truncate(g.faker.Company(), 100),
			datagen.Choose(g.faker, []string{"AU", "PH", "SG", "JP", "US"}),
			strconv.Itoa(g.faker.Int(3, 15)),
			strconv.FormatBool(g.faker.Chance(0.6)),
		}
		if err := f.Write(record); err != nil {
			return datasets.Output{}, fmt.Errorf("failed to write supplier %d: %w", i, err)
		}
	}

	if err := f.Close(); err != nil {
		return datasets.Output{}, err
	}
	return datasets.Output{Path: "suppliers.csv", Rows: f.Rows()}, nil
}

// generateOrders writes one directory per order date, each holding a
// header and a lines file. Order IDs are sequential across partitions.
func (g *generator) generateOrders(ctx context.Context) ([]datasets.Output, error) {
	headerCols := []string{
		"order_id", "order_ts", "order_dt_local", "customer_id", "store_id",
		"channel", "payment_method", "coupon_code", "shipping_fee", "currency",
	}
	lineCols := []string{
		"order_id", "line_number", "product_id", "qty", "unit_price",
		"line_discount_pct", "tax_pct",
	}

	g.orderDates = make([]time.Time, 0, g.spec.Orders)
	progress := datagen.NewProgressReporter("orders", int64(g.spec.Orders), 100000)

	perDay := g.spec.Orders / g.spec.Days
	extra := g.spec.Orders % g.spec.Days

	var outputs []datasets.Output
	orderID := 0

	for day := 0; day < g.spec.Days; day++ {
		count := perDay
		if day < extra {
			count++
		}
		if count == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		date := g.spec.Start.AddDate(0, 0, day)
		partition := filepath.Join("orders", date.Format("2006-01-02"))

		headerFile, err := sink.CreateCSV(
			filepath.Join(g.spec.OutDir, partition, "orders_header.csv"), headerCols)
		if err != nil {
			return nil, err
		}
		linesFile, err := sink.CreateCSV(
			filepath.Join(g.spec.OutDir, partition, "orders_lines.csv"), lineCols)
		if err != nil {
			headerFile.Close()
			return nil, err
		}

		for i := 0; i < count; i++ {
			orderID++
			orderTS := date.Add(time.Duration(g.faker.Int(0, 86399)) * time.Second)
			g.orderDates = append(g.orderDates, date)

			record := []string{
				strconv.Itoa(orderID),
				orderTS.UTC().Format("2006-01-02 15:04:05"),
				date.Format("2006-01-02"),
				strconv.Itoa(g.faker.Int(1, g.spec.Customers)),
				strconv.Itoa(g.faker.Int(1, g.spec.Stores)),
				datagen.Choose(g.faker, channels),
				datagen.Choose(g.faker, paymentMethods),
				datagen.Choose(g.faker, couponCodes),
				fmt.Sprintf("%.2f", g.faker.Float64(50, 500)),
				"AUD",
			}
			if err := headerFile.Write(record); err != nil {
				headerFile.Close()
				linesFile.Close()
				return nil, fmt.Errorf("failed to write order %d: %w", orderID, err)
			}

			lines := g.faker.Int(1, 3)
			for line := 1; line <= lines; line++ {
				lineRecord := []string{
					strconv.Itoa(orderID),
					strconv.Itoa(line),
					strconv.Itoa(g.faker.Int(1, g.spec.Products)),
					strconv.Itoa(g.faker.Int(1, 10)),
					fmt.Sprintf("%.2f", g.faker.Price(10, 1000)),
					fmt.Sprintf("%.4f", g.faker.Float64(0, 0.3)),
					fmt.Sprintf("%.4f", g.faker.Float64(0.05, 0.12)),
				}
				if err := linesFile.Write(lineRecord); err != nil {
					headerFile.Close()
					linesFile.Close()
					return nil, fmt.Errorf("failed to write order line %d/%d: %w", orderID, line, err)
				}
			}
			progress.Update(1)
		}

		if err := headerFile.Close(); err != nil {
			linesFile.Close()
			return nil, err
		}
		if err := linesFile.Close(); err != nil {
			return nil, err
		}

		outputs = append(outputs,
			datasets.Output{Path: filepath.Join(partition, "orders_header.csv"), Rows: headerFile.Rows()},
			datasets.Output{Path: filepath.Join(partition, "orders_lines.csv"), Rows: linesFile.Rows()},
		)
	}
	progress.Done()

	return outputs, nil
}

type shipmentRow struct {
	ShipmentID  int64     `parquet:"shipment_id"`
	OrderID     int64     `parquet:"order_id"`
	Carrier     string    `parquet:"carrier"`
	ShippedAt   time.Time `parquet:"shipped_at"`
	DeliveredAt time.Time `parquet:"delivered_at"`
	ShipCost    float64   `parquet:"ship_cost"`
}

func (g *generator) generateShipments(ctx context.Context) (datasets.Output, error) {
	if err := ctx.Err(); err != nil {
		return datasets.Output{}, err
	}

	rows := make([]shipmentRow, 0, len(g.orderDates))
	for i, orderDate := range g.orderDates {
		shipped := orderDate.AddDate(0, 0, g.faker.Int(1, 4)).
			Add(time.Duration(g.faker.Int(6, 20)) * time.Hour)
		rows = append(rows, shipmentRow{
			ShipmentID:  int64(i + 1),
			OrderID:     int64(i + 1),
			Carrier:     datagen.Choose(g.faker, carriers),
			ShippedAt:   shipped,
			DeliveredAt: shipped.AddDate(0, 0, g.faker.Int(1, 3)),
			ShipCost:    float64(g.faker.Int(500, 50000)) / 100,
		})
	}

	if err := sink.WriteParquet(filepath.Join(g.spec.OutDir, "shipments.parquet"), rows); err != nil {
		return datasets.Output{}, err
	}
	return datasets.Output{Path: "shipments.parquet", Rows: int64(len(rows))}, nil
}

type returnRow struct {
	ReturnID  int64     `parquet:"return_id"`
	OrderID   int64     `parquet:"order_id"`
	ProductID int64     `parquet:"product_id"`
	ReturnTS  time.Time `parquet:"return_ts"`
	Qty       int32     `parquet:"qty"`
	Reason    string    `parquet:"reason"`
}

// generateReturns writes roughly a quarter of orders as returns.
func (g *generator) generateReturns(ctx context.Context) (datasets.Output, error) {
	if err := ctx.Err(); err != nil {
		return datasets.Output{}, err
	}

	count := len(g.orderDates) / 4
	rows := make([]returnRow, 0, count)
	for i := 1; i <= count; i++ {
		orderID := g.faker.Int(1, len(g.orderDates))
		rows = append(rows, returnRow{
			ReturnID:  int64(i),
			OrderID:   int64(orderID),
			ProductID: int64(g.faker.Int(1, g.spec.Products)),
			ReturnTS:  g.orderDates[orderID-1].AddDate(0, 0, g.faker.Int(2, 14)),
			Qty:       int32(g.faker.Int(1, 3)),
			Reason:    datagen.Choose(g.faker, returnReasons),
		})
	}

	if err := sink.WriteParquet(filepath.Join(g.spec.OutDir, "returns_day1.parquet"), rows); err != nil {
		return datasets.Output{}, err
	}
	return datasets.Output{Path: "returns_day1.parquet", Rows: int64(len(rows))}, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// singular trims a plural "s" so product names read naturally, matching
// the source data's "Smartphones" -> "Smartphone" style.
func singular(s string) string {
	if len(s) > 1 && s[len(s)-1] == 's' {
		return s[:len(s)-1]
	}
	return s
}
