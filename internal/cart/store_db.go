package cart

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	txTimeout    = 5 * time.Second

	pgOutOfRangeCode = "22003"
)

const schema = `
CREATE TABLE IF NOT EXISTS carts (
	user_id    TEXT PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS cart_items (
	user_id    TEXT NOT NULL REFERENCES carts (user_id),
	product_id TEXT NOT NULL,
	quantity   BIGINT NOT NULL CHECK (quantity > 0),
	PRIMARY KEY (user_id, product_id)
);
`

// PostgresStore serializes mutations of one cart through a row lock on the
// carts row, so concurrent requests for different users do not contend.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, schema)
		return err
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Add(ctx context.Context, userID string, items []Item) (Cart, error) {
	if err := checkItems(items); err != nil {
		return Cart{}, err
	}

	var c Cart
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO carts (user_id, id)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING
		`, userID, newCartID()); err != nil {
			return err
		}

		id, err := lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO cart_items (user_id, product_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, product_id)
			DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, it := range items {
			if _, err := stmt.ExecContext(ctx, userID, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		if err := touch(ctx, tx, userID); err != nil {
			return err
		}

		c, err = readCart(ctx, tx, id, userID)
		return err
	})
	if isOutOfRange(err) {
		return Cart{}, ErrQuantityOverflow
	}
	if err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *PostgresStore) Remove(ctx context.Context, userID string, items []Item) (Cart, error) {
	if err := checkItems(items); err != nil {
		return Cart{}, err
	}

	c := emptyCart(userID)
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		id, err := lockCart(ctx, tx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			UPDATE cart_items
			SET quantity = GREATEST(quantity - $3, 0)
			WHERE user_id = $1 AND product_id = $2
			RETURNING quantity
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, it := range items {
			var left int64
			err := stmt.QueryRowContext(ctx, userID, it.ProductID, it.Quantity).Scan(&left)
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return err
			}
			if left == 0 {
				if _, err := tx.ExecContext(ctx, `
					DELETE FROM cart_items
					WHERE user_id = $1 AND product_id = $2
				`, userID, it.ProductID); err != nil {
					return err
				}
			}
		}

		if err := touch(ctx, tx, userID); err != nil {
			return err
		}

		c, err = readCart(ctx, tx, id, userID)
		return err
	})
	if err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (Cart, error) {
	c := emptyCart(userID)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var id string
		err := s.db.QueryRowContext(ctx, `
			SELECT id FROM carts WHERE user_id = $1
		`, userID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		c, err = readCart(ctx, s.db, id, userID)
		return err
	})
	if err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func lockCart(ctx context.Context, tx *sql.Tx, userID string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM carts WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&id)
	return id, err
}

func touch(ctx context.Context, tx *sql.Tx, userID string) error {
	_, err := tx.ExecContext(ctx, `UPDATE carts SET updated_at = now() WHERE user_id = $1`, userID)
	return err
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func readCart(ctx context.Context, q querier, id, userID string) (Cart, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT product_id, quantity
		FROM cart_items
		WHERE user_id = $1
		ORDER BY product_id ASC
	`, userID)
	if err != nil {
		return Cart{}, err
	}
	defer rows.Close()

	c := Cart{ID: id, UserID: userID, Lines: map[string]int{}}
	for rows.Next() {
		var (
			pid string
			qty int64
		)
		if err := rows.Scan(&pid, &qty); err != nil {
			return Cart{}, err
		}
		c.Lines[pid] = int(qty)
	}
	if err := rows.Err(); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgOutOfRangeCode
}
