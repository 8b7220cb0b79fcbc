package database

// Order record queries
const (
	InsertOrderRecordSQL = `
		INSERT INTO order_records (order_id, user_id, customer_name, delivery_address, items, subtotal, tax, total, payment_method, status, placed_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::numeric, $7::numeric, $8::numeric, $9, $10, $11)
		ON CONFLICT (order_id) DO NOTHING`

	UpdateOrderRecordStatusSQL = `
		UPDATE order_records SET status = $1, updated_at = NOW()
		WHERE order_id = $2 AND user_id = $3 AND status = $4`

	ListOrderRecordsByUserSQL = `
		SELECT order_id, user_id, items::text, total::text, payment_method, status, placed_at
		FROM order_records
		WHERE user_id = $1
		ORDER BY placed_at DESC
		LIMIT $2`

	GetOrderRecordSQL = `
		SELECT order_id, user_id, items::text, total::text, payment_method, status, placed_at
		FROM order_records
		WHERE order_id = $1 AND user_id = $2`
)
