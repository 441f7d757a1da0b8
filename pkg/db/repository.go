package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcturial/clickatell/pkg/callback"
)

const repoLogPrefix = "db:repository"

// ErrNotFound is returned when no callback matches.
var ErrNotFound = errors.New("db: callback not found")

const callbackColumns = `id::text, kind, api_msg_id, client_msg_id, sender, recipient, status, charge,
	body, vendor_timestamp, fields, received`

// CallbackRepository provides database access for received callbacks.
type CallbackRepository struct {
	pool *pgxpool.Pool
}

// NewCallbackRepository creates a new CallbackRepository with the given connection pool.
func NewCallbackRepository(pool *pgxpool.Pool) *CallbackRepository {
	return &CallbackRepository{pool: pool}
}

// Insert stores rec and returns the stored row.
func (r *CallbackRepository) Insert(ctx context.Context, rec callback.Record) (*Callback, error) {
	slog.Debug(fmt.Sprintf("%s - Insert kind=%s apiMsgId=%s", repoLogPrefix, rec.Kind, rec.APIMsgID))

	fields, err := json.Marshal(nonNil(rec.Fields))
	if err != nil {
		return nil, fmt.Errorf("%s - failed to encode fields: %w", repoLogPrefix, err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO callbacks (kind, api_msg_id, client_msg_id, sender, recipient, status, charge,
		                        body, vendor_timestamp, fields)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+callbackColumns,
		rec.Kind, rec.APIMsgID, rec.ClientMsgID, rec.From, rec.To, rec.Status, rec.Charge,
		rec.Text, rec.Timestamp, fields)

	cb, err := scanCallback(row)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to insert callback: %w", repoLogPrefix, err)
	}
	return cb, nil
}

// ListByMessage returns every callback for apiMsgID, newest first.
func (r *CallbackRepository) ListByMessage(ctx context.Context, apiMsgID string) ([]Callback, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+callbackColumns+`
		 FROM callbacks
		 WHERE api_msg_id = $1
		 ORDER BY received DESC`, apiMsgID)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to list callbacks: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var out []Callback
	for rows.Next() {
		cb, err := scanCallback(rows)
		if err != nil {
			return nil, fmt.Errorf("%s - failed to scan callback: %w", repoLogPrefix, err)
		}
		out = append(out, *cb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s - failed to iterate callbacks: %w", repoLogPrefix, err)
	}
	return out, nil
}

// LatestStatus returns the newest status callback for apiMsgID.
func (r *CallbackRepository) LatestStatus(ctx context.Context, apiMsgID string) (*Callback, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+callbackColumns+`
		 FROM callbacks
		 WHERE api_msg_id = $1 AND kind = ANY($2)
		 ORDER BY received DESC
		 LIMIT 1`, apiMsgID, []string{callback.KindMT, callback.KindRESTStatus})

	cb, err := scanCallback(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s - failed to load status: %w", repoLogPrefix, err)
	}
	return cb, nil
}

// Count returns the number of stored callbacks of kind, or of all kinds when
// kind is empty.
func (r *CallbackRepository) Count(ctx context.Context, kind string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)::int FROM callbacks WHERE $1 = '' OR kind = $1`, kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s - failed to count callbacks: %w", repoLogPrefix, err)
	}
	return n, nil
}

// Ping checks database connectivity.
func (r *CallbackRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanCallback(row pgx.Row) (*Callback, error) {
	var (
		cb     Callback
		fields []byte
	)
	err := row.Scan(&cb.ID, &cb.Kind, &cb.APIMsgID, &cb.ClientMsgID, &cb.Sender, &cb.Recipient,
		&cb.Status, &cb.Charge, &cb.Body, &cb.VendorTimestamp, &fields, &cb.Received)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &cb.Fields); err != nil {
			return nil, fmt.Errorf("%s - failed to decode fields: %w", repoLogPrefix, err)
		}
	}
	return &cb, nil
}

// Record converts a stored row back to its neutral form.
func (c *Callback) Record() callback.Record {
	return callback.Record{
		Kind:        c.Kind,
		APIMsgID:    c.APIMsgID,
		ClientMsgID: c.ClientMsgID,
		From:        c.Sender,
		To:          c.Recipient,
		Status:      c.Status,
		Charge:      c.Charge,
		Text:        c.Body,
		Timestamp:   c.VendorTimestamp,
		Fields:      c.Fields,
	}
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
