package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/contacts/internal/dberr"
	"github.com/deppfellow/contacts/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const contactColumns = "contact_name, phone_number, message, image_url"

// pgxPool is the subset of *pgxpool.Pool the repository uses.
type pgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// PostgresContactRepository stores contacts in the contacts table created
// by the embedded migrations.
type PostgresContactRepository struct {
	db pgxPool
}

func NewPostgresContactRepository(db pgxPool) *PostgresContactRepository {
	return &PostgresContactRepository{db: db}
}

func (r *PostgresContactRepository) List(ctx context.Context, limit int) ([]model.Contact, error) {
	rows, err := r.db.Query(ctx, "SELECT "+contactColumns+" FROM contacts LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("select contacts: %w", err)
	}

	contacts, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Contact])
	if err != nil {
		return nil, fmt.Errorf("scan contacts: %w", err)
	}

	if contacts == nil {
		contacts = make([]model.Contact, 0)
	}

	return contacts, nil
}

func (r *PostgresContactRepository) GetByName(ctx context.Context, name string) (*model.Contact, error) {
	rows, err := r.db.Query(ctx, "SELECT "+contactColumns+" FROM contacts WHERE contact_name = $1", name)
	if err != nil {
		return nil, fmt.Errorf("select contact %q: %w", name, err)
	}

	contact, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Contact])
	if dberr.IsNoRows(err) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan contact %q: %w", name, err)
	}

	return &contact, nil
}

func (r *PostgresContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO contacts ("+contactColumns+") VALUES ($1, $2, $3, $4)",
		contact.ContactName, contact.PhoneNumber, contact.Message, contact.ImageURL,
	)
	if dberr.IsUniqueViolation(err) {
		return ErrContactExists
	}
	if err != nil {
		return fmt.Errorf("insert contact %q: %w", contact.ContactName, err)
	}

	return nil
}

// updateStatement builds the UPDATE for the provided fields. Column names
// come from model.UpdatableFields only.
func updateStatement(name string, patch model.ContactPatch) (string, []any) {
	fields := patch.Fields()
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)

	for _, field := range model.UpdatableFields {
		if value, ok := fields[field]; ok {
			args = append(args, value)
			sets = append(sets, fmt.Sprintf("%s = $%d", field, len(args)))
		}
	}

	args = append(args, name)
	sql := fmt.Sprintf("UPDATE contacts SET %s WHERE contact_name = $%d", strings.Join(sets, ", "), len(args))

	return sql, args
}

func (r *PostgresContactRepository) Update(ctx context.Context, name string, patch model.ContactPatch) error {
	if patch.IsEmpty() {
		return fmt.Errorf("update contact %q: empty patch", name)
	}

	sql, args := updateStatement(name, patch)

	tag, err := r.db.Exec(ctx, sql, args...)
	if dberr.IsUniqueViolation(err) {
		return ErrContactExists
	}
	if err != nil {
		return fmt.Errorf("update contact %q: %w", name, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}

	return nil
}

func (r *PostgresContactRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM contacts WHERE contact_name = $1", name)
	if err != nil {
		return fmt.Errorf("delete contact %q: %w", name, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}

	return nil
}

func (r *PostgresContactRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
