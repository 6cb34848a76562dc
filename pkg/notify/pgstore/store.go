package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/notify"
	"github.com/dmitrymomot/courier/pkg/pg"
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// Store is a notify.Storage backed by Postgres.
type Store struct {
	db  DB
	now func() time.Time
}

var _ notify.Storage = (*Store)(nil)

func New(db DB) *Store {
	return &Store{db: db, now: time.Now}
}

const notificationColumns = `id, event_id, user_id, org_id, event_type, title, message, action_url, priority, status, created_at, sent_at`

const deliveryColumns = `id, notification_id, channel, address_kind, address, status, external_id, delivered_at, error, attempts, created_at, updated_at`

func (s *Store) CreateNotification(ctx context.Context, n *notify.Notification) (err error) {
	if err := n.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Join(ErrQuery, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		n.ID, n.EventID, n.UserID, n.OrgID, string(n.EventType), n.Title, n.Message, n.ActionURL,
		n.Priority.String(), string(n.Status), n.CreatedAt, n.SentAt,
	)
	for i, d := range n.Deliveries {
		batch.Queue(`INSERT INTO deliveries (`+deliveryColumns+`, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			d.ID, n.ID, string(d.Channel), string(d.AddressKind), d.Address, d.Status.Name(),
			d.ExternalID, d.DeliveredAt, d.Error, d.Attempts, d.CreatedAt, d.UpdatedAt, i,
		)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		if pg.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", notify.ErrDuplicateNotification, n.ID)
		}
		return errors.Join(ErrQuery, err)
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.Join(ErrQuery, err)
	}
	return nil
}

func (s *Store) GetNotification(ctx context.Context, id string) (*notify.Notification, error) {
	row := s.db.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, notify.ErrNotificationNotFound
		}
		return nil, err
	}

	n.Deliveries, err = s.deliveries(ctx, id)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Store) ListNotifications(ctx context.Context, opts notify.ListOptions) ([]notify.Notification, error) {
	query, args := listQuery(opts)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	defer rows.Close()

	out := []notify.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	return out, nil
}

// listQuery builds the filtered, paginated select for ListNotifications.
func listQuery(opts notify.ListOptions) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		where = append(where, column+" = $"+strconv.Itoa(len(args)))
	}
	if opts.UserID != "" {
		add("user_id", opts.UserID)
	}
	if opts.Status != "" {
		add("status", string(opts.Status))
	}
	if opts.EventType != "" {
		add("event_type", string(opts.EventType))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + notificationColumns + ` FROM notifications`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	// "C" collation matches the byte order the memory storage uses.
	b.WriteString(` ORDER BY created_at DESC, id COLLATE "C" DESC`)
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		b.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}
	return b.String(), args
}

func (s *Store) GetDelivery(ctx context.Context, id string) (*notify.Delivery, error) {
	row := s.db.QueryRow(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id)
	d, err := scanDelivery(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, notify.ErrDeliveryNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *Store) ListDeliveries(ctx context.Context, notificationID string) ([]notify.Delivery, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`, notificationID).Scan(&exists)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	if !exists {
		return nil, notify.ErrNotificationNotFound
	}
	return s.deliveries(ctx, notificationID)
}

func (s *Store) deliveries(ctx context.Context, notificationID string) ([]notify.Delivery, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE notification_id = $1 ORDER BY position`,
		notificationID)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	defer rows.Close()

	out := []notify.Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	return out, nil
}

func (s *Store) UpdateDeliveryStatus(ctx context.Context, id string, upd notify.DeliveryUpdate) error {
	if upd.At.IsZero() {
		upd.At = s.now().UTC()
	}
	increment := 0
	if upd.IncrementAttempt {
		increment = 1
	}
	tag, err := s.db.Exec(ctx, `UPDATE deliveries
		SET status = $2, external_id = $3, delivered_at = $4, error = $5,
		    attempts = attempts + $6, updated_at = $7
		WHERE id = $1`,
		id, upd.Status.Name(), upd.ExternalID, upd.DeliveredAt, upd.Error, increment, upd.At,
	)
	if err != nil {
		return errors.Join(ErrQuery, err)
	}
	if tag.RowsAffected() == 0 {
		return notify.ErrDeliveryNotFound
	}
	return nil
}

func (s *Store) UpdateNotificationStatus(ctx context.Context, id string, status notify.NotificationStatus, sentAt *time.Time) error {
	tag, err := s.db.Exec(ctx, `UPDATE notifications SET status = $2, sent_at = $3 WHERE id = $1`,
		id, string(status), sentAt)
	if err != nil {
		return errors.Join(ErrQuery, err)
	}
	if tag.RowsAffected() == 0 {
		return notify.ErrNotificationNotFound
	}
	return nil
}

func scanNotification(row pgx.Row) (*notify.Notification, error) {
	var (
		n         notify.Notification
		eventType string
		priority  string
		status    string
	)
	err := row.Scan(&n.ID, &n.EventID, &n.UserID, &n.OrgID, &eventType, &n.Title, &n.Message,
		&n.ActionURL, &priority, &status, &n.CreatedAt, &n.SentAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, err
		}
		return nil, errors.Join(ErrScan, err)
	}
	if err := n.Priority.UnmarshalText([]byte(priority)); err != nil {
		return nil, errors.Join(ErrScan, err)
	}
	n.EventType = event.Type(eventType)
	n.Status = notify.NotificationStatus(status)
	n.CreatedAt = n.CreatedAt.UTC()
	if n.SentAt != nil {
		t := n.SentAt.UTC()
		n.SentAt = &t
	}
	return &n, nil
}

func scanDelivery(row pgx.Row) (notify.Delivery, error) {
	var (
		d           notify.Delivery
		channel     string
		addressKind string
		status      string
	)
	err := row.Scan(&d.ID, &d.NotificationID, &channel, &addressKind, &d.Address, &status,
		&d.ExternalID, &d.DeliveredAt, &d.Error, &d.Attempts, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return notify.Delivery{}, err
		}
		return notify.Delivery{}, errors.Join(ErrScan, err)
	}
	d.Channel = notify.Channel(channel)
	d.AddressKind = notify.AddressKind(addressKind)
	d.Status, err = notify.ParseDeliveryStatus(status)
	if err != nil {
		return notify.Delivery{}, errors.Join(ErrScan, err)
	}
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	if d.DeliveredAt != nil {
		t := d.DeliveredAt.UTC()
		d.DeliveredAt = &t
	}
	return d, nil
}
