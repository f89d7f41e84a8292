package db

import (
	"context"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blinkit-analytics/backend/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

var orderColumns = []string{
	"order_id", "customer_name", "area", "pincode", "order_hour",
	"order_day_name", "order_month_name", "order_day_only", "promised_date",
	"category", "brand", "channel", "target_audience", "payment_method",
	"customer_segment", "sentiment", "delivery_status", "campaign_name",
	"feedback_text", "quantity", "rating", "total_orders", "order_minutes",
	"order_total", "avg_order_value", "price", "item_total", "spend",
	"revenue_generated", "roas", "delay_minutes",
}

func orderRow(o models.Order) []any {
	return []any{
		o.OrderID, o.CustomerName, o.Area, o.Pincode, o.OrderHour,
		o.OrderDayName, o.OrderMonthName, o.OrderDate, o.PromisedDate,
		o.Category, o.Brand, o.Channel, o.TargetAudience, o.PaymentMethod,
		o.CustomerSegment, o.Sentiment, o.DeliveryStatus, o.CampaignName,
		o.FeedbackText,
		nullIfNaN(o.Quantity), nullIfNaN(o.Rating), nullIfNaN(o.TotalOrders),
		nullIfNaN(o.OrderMinutes), nullIfNaN(o.OrderTotal), nullIfNaN(o.AvgOrderValue),
		nullIfNaN(o.Price), nullIfNaN(o.ItemTotal), nullIfNaN(o.Spend),
		nullIfNaN(o.RevenueGenerated), nullIfNaN(o.ROAS), nullIfNaN(o.DelayMinutes),
	}
}

// ReplaceOrders swaps the full orders table for a fresh import inside one
// transaction, so readers never see a half-loaded table.
func (s *Store) ReplaceOrders(ctx context.Context, orders []models.Order) (int64, error) {
	var inserted int64
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE orders`); err != nil {
			return err
		}
		rows := make([][]any, 0, len(orders))
		for _, o := range orders {
			rows = append(rows, orderRow(o))
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"orders"}, orderColumns, pgx.CopyFromRows(rows))
		inserted = n
		return err
	})
	return inserted, err
}

func (s *Store) InsertOrders(ctx context.Context, orders []models.Order) (int64, error) {
	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRow(o))
	}
	return s.Pool.CopyFrom(ctx, pgx.Identifier{"orders"}, orderColumns, pgx.CopyFromRows(rows))
}

// LoadOrders reads the full reference table. NULL numerics come back as
// NaN, matching the CSV loader's missing-value convention.
func (s *Store) LoadOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT order_id, customer_name, area, pincode, order_hour,
			order_day_name, order_month_name, order_day_only, promised_date,
			category, brand, channel, target_audience, payment_method,
			customer_segment, sentiment, delivery_status, campaign_name,
			feedback_text, quantity, rating, total_orders, order_minutes,
			order_total, avg_order_value, price, item_total, spend,
			revenue_generated, roas, delay_minutes
		FROM orders
		ORDER BY order_day_only ASC, order_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		var o models.Order
		numeric := make([]*float64, 12)
		if err := rows.Scan(
			&o.OrderID, &o.CustomerName, &o.Area, &o.Pincode, &o.OrderHour,
			&o.OrderDayName, &o.OrderMonthName, &o.OrderDate, &o.PromisedDate,
			&o.Category, &o.Brand, &o.Channel, &o.TargetAudience, &o.PaymentMethod,
			&o.CustomerSegment, &o.Sentiment, &o.DeliveryStatus, &o.CampaignName,
			&o.FeedbackText,
			&numeric[0], &numeric[1], &numeric[2], &numeric[3], &numeric[4],
			&numeric[5], &numeric[6], &numeric[7], &numeric[8], &numeric[9],
			&numeric[10], &numeric[11],
		); err != nil {
			return nil, err
		}
		o.Quantity = nanIfNull(numeric[0])
		o.Rating = nanIfNull(numeric[1])
		o.TotalOrders = nanIfNull(numeric[2])
		o.OrderMinutes = nanIfNull(numeric[3])
		o.OrderTotal = nanIfNull(numeric[4])
		o.AvgOrderValue = nanIfNull(numeric[5])
		o.Price = nanIfNull(numeric[6])
		o.ItemTotal = nanIfNull(numeric[7])
		o.Spend = nanIfNull(numeric[8])
		o.RevenueGenerated = nanIfNull(numeric[9])
		o.ROAS = nanIfNull(numeric[10])
		o.DelayMinutes = nanIfNull(numeric[11])
		out = append(out, o)
	}
	return out, rows.Err()
}

// LogEstimate records one served estimation for operator history.
func (s *Store) LogEstimate(ctx context.Context, in models.EstimateRecord) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO estimates (area, pincode, order_hour, order_day_name, order_month_name,
			raw_minutes, risk_percentage, risk_level, model_version, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, in.Area, in.Pincode, in.OrderHour, in.OrderDayName, in.OrderMonthName,
		in.RawMinutes, in.RiskPercentage, string(in.RiskLevel), in.ModelVersion, in.CreatedAt)
	return err
}

func (s *Store) ListEstimates(ctx context.Context, limit int) ([]models.EstimateRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, area, pincode, order_hour, order_day_name, order_month_name,
			raw_minutes, risk_percentage, risk_level, model_version, created_at
		FROM estimates
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EstimateRecord
	for rows.Next() {
		var r models.EstimateRecord
		var level string
		if err := rows.Scan(&r.ID, &r.Area, &r.Pincode, &r.OrderHour, &r.OrderDayName,
			&r.OrderMonthName, &r.RawMinutes, &r.RiskPercentage, &level, &r.ModelVersion, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.RiskLevel = models.RiskLevel(level)
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullIfNaN(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func nanIfNull(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
