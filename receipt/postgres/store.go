package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/code-payments/flipchat-billing/receipt"
)

const allColumns = `"token", "owner", "productId", "productType", "createdAt"`

type store struct {
	db *sqlx.DB
}

// NewInPostgres returns a receipt store over a database opened with the
// "pgx" driver.
func NewInPostgres(db *sql.DB) receipt.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// CreateSchema creates the receipt table if it does not exist.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return errors.Wrap(err, "failed to create receipt schema")
}

func (s *store) reset() {
	_, err := s.db.ExecContext(context.Background(), `DELETE FROM `+receiptTable)
	if err != nil {
		panic(err)
	}
}

func (s *store) PutReceipt(ctx context.Context, r *receipt.Receipt) error {
	query := `INSERT INTO ` + receiptTable + ` (` + allColumns + `)
		VALUES (:token, :owner, :productId, :productType, :createdAt)`

	_, err := s.db.NamedExecContext(ctx, query, toModel(r))
	if isUniqueViolation(err) {
		return receipt.ErrExists
	}
	return errors.Wrap(err, "failed to insert receipt")
}

func (s *store) GetReceipt(ctx context.Context, token string) (*receipt.Receipt, error) {
	var m receiptModel
	query := `SELECT ` + allColumns + ` FROM ` + receiptTable + ` WHERE "token" = $1`

	err := s.db.GetContext(ctx, &m, query, token)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, receipt.ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get receipt")
	}

	return fromModel(&m), nil
}

func (s *store) GetReceiptsByOwner(ctx context.Context, owner string) ([]*receipt.Receipt, error) {
	var models []*receiptModel
	query := `SELECT ` + allColumns + ` FROM ` + receiptTable + `
		WHERE "owner" = $1
		ORDER BY "createdAt" ASC, "token" ASC`

	if err := s.db.SelectContext(ctx, &models, query, owner); err != nil {
		return nil, errors.Wrap(err, "failed to get receipts by owner")
	}

	receipts := make([]*receipt.Receipt, 0, len(models))
	for _, m := range models {
		receipts = append(receipts, fromModel(m))
	}
	return receipts, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
