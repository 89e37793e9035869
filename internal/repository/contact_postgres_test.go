package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/deppfellow/contacts/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows serves string columns to pgx's collect helpers.
type fakeRows struct {
	columns []string
	values  [][]string
	pos     int
}

func (r *fakeRows) Close() {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) Values() ([]any, error) { return nil, errors.New("not supported") }
func (r *fakeRows) RawValues() [][]byte { return nil }
func (r *fakeRows) Conn() *pgx.Conn { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	descs := make([]pgconn.FieldDescription, len(r.columns))
	for i, name := range r.columns {
		descs[i] = pgconn.FieldDescription{Name: name}
	}
	return descs
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.values[r.pos-1]
	for i, d := range dest {
		target, ok := d.(*string)
		if !ok {
			return fmt.Errorf("unexpected scan target %T", d)
		}
		*target = row[i]
	}
	return nil
}

func contactRows(contacts ...model.Contact) *fakeRows {
	rows := &fakeRows{columns: model.UpdatableFields}
	for _, c := range contacts {
		rows.values = append(rows.values, []string{c.ContactName, c.PhoneNumber, c.Message, c.ImageURL})
	}
	return rows
}

// fakePool records the last statement and answers with canned results.
type fakePool struct {
	rows     pgx.Rows
	tag      pgconn.CommandTag
	err      error
	lastSQL  string
	lastArgs []any
}

func (p *fakePool) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.lastSQL, p.lastArgs = sql, args
	if p.err != nil {
		return nil, p.err
	}
	return p.rows, nil
}

func (p *fakePool) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.lastSQL, p.lastArgs = sql, args
	return p.tag, p.err
}

func (p *fakePool) Ping(context.Context) error {
	return p.err
}

var errUniqueViolation = &pgconn.PgError{Code: "23505", ConstraintName: "contacts_contact_name_key"}

func TestPostgresContactRepository_List(t *testing.T) {
	ctx := context.Background()
	alice := model.Contact{ContactName: "Alice", PhoneNumber: "555", Message: "hi", ImageURL: "a.png"}

	t.Run("rows", func(t *testing.T) {
		pool := &fakePool{rows: contactRows(alice, model.Contact{ContactName: "Bob"})}
		repo := NewPostgresContactRepository(pool)

		got, err := repo.List(ctx, ListLimit)
		require.NoError(t, err)
		assert.Equal(t, []model.Contact{alice, {ContactName: "Bob"}}, got)
		assert.Equal(t, []any{ListLimit}, pool.lastArgs)
	})

	t.Run("no rows is an empty slice", func(t *testing.T) {
		repo := NewPostgresContactRepository(&fakePool{rows: contactRows()})

		got, err := repo.List(ctx, ListLimit)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("query error", func(t *testing.T) {
		repo := NewPostgresContactRepository(&fakePool{err: errors.New("conn closed")})

		_, err := repo.List(ctx, ListLimit)
		assert.ErrorContains(t, err, "conn closed")
	})
}

func TestPostgresContactRepository_GetByName(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		pool := &fakePool{rows: contactRows(model.Contact{ContactName: "Alice", PhoneNumber: "555"})}
		repo := NewPostgresContactRepository(pool)

		got, err := repo.GetByName(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, "555", got.PhoneNumber)
		assert.Equal(t, []any{"Alice"}, pool.lastArgs)
	})

	t.Run("no rows", func(t *testing.T) {
		repo := NewPostgresContactRepository(&fakePool{rows: contactRows()})

		_, err := repo.GetByName(ctx, "Alice")
		assert.ErrorIs(t, err, ErrContactNotFound)
	})
}

func TestPostgresContactRepository_Writes(t *testing.T) {
	ctx := context.Background()
	phone := "999"
	patch := model.ContactPatch{PhoneNumber: &phone}

	tests := []struct {
		name    string
		pool    *fakePool
		run     func(r *PostgresContactRepository) error
		wantErr error
	}{
		{
			name: "create",
			pool: &fakePool{tag: pgconn.NewCommandTag("INSERT 0 1")},
			run: func(r *PostgresContactRepository) error {
				return r.Create(ctx, &model.Contact{ContactName: "Alice"})
			},
		},
		{
			name: "create duplicate",
			pool: &fakePool{err: errUniqueViolation},
			run: func(r *PostgresContactRepository) error {
				return r.Create(ctx, &model.Contact{ContactName: "Alice"})
			},
			wantErr: ErrContactExists,
		},
		{
			name: "update",
			pool: &fakePool{tag: pgconn.NewCommandTag("UPDATE 1")},
			run: func(r *PostgresContactRepository) error {
				return r.Update(ctx, "Alice", patch)
			},
		},
		{
			name: "update missing row",
			pool: &fakePool{tag: pgconn.NewCommandTag("UPDATE 0")},
			run: func(r *PostgresContactRepository) error {
				return r.Update(ctx, "Alice", patch)
			},
			wantErr: ErrContactNotFound,
		},
		{
			name: "update onto a taken name",
			pool: &fakePool{err: errUniqueViolation},
			run: func(r *PostgresContactRepository) error {
				return r.Update(ctx, "Alice", patch)
			},
			wantErr: ErrContactExists,
		},
		{
			name: "delete",
			pool: &fakePool{tag: pgconn.NewCommandTag("DELETE 1")},
			run: func(r *PostgresContactRepository) error {
				return r.Delete(ctx, "Alice")
			},
		},
		{
			name: "delete missing row",
			pool: &fakePool{tag: pgconn.NewCommandTag("DELETE 0")},
			run: func(r *PostgresContactRepository) error {
				return r.Delete(ctx, "Alice")
			},
			wantErr: ErrContactNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(NewPostgresContactRepository(tt.pool))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPostgresContactRepository_UpdateEmptyPatch(t *testing.T) {
	pool := &fakePool{}
	err := NewPostgresContactRepository(pool).Update(context.Background(), "Alice", model.ContactPatch{})

	assert.Error(t, err)
	assert.Empty(t, pool.lastSQL)
}

func TestUpdateStatement(t *testing.T) {
	phone := "555-0199"
	image := "b.png"
	rename := "Alicia"

	tests := []struct {
		name     string
		patch    model.ContactPatch
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "single field",
			patch:    model.ContactPatch{PhoneNumber: &phone},
			wantSQL:  "UPDATE contacts SET phone_number = $1 WHERE contact_name = $2",
			wantArgs: []any{"555-0199", "Alice"},
		},
		{
			name:     "fields follow column order",
			patch:    model.ContactPatch{ImageURL: &image, ContactName: &rename},
			wantSQL:  "UPDATE contacts SET contact_name = $1, image_url = $2 WHERE contact_name = $3",
			wantArgs: []any{"Alicia", "b.png", "Alice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := updateStatement("Alice", tt.patch)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
