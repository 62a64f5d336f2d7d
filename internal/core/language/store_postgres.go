package language

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zgbooks/books-api/internal/platform/database/schema"
	"github.com/zgbooks/books-api/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListLanguages(context context.Context) ([]*Language, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		ORDER BY %s ASC;
	`,
		schema.BooksLanguage.ID,
		schema.BooksLanguage.Code,
		schema.BooksLanguage.Name,
		schema.BooksLanguage.Flag,
		schema.BooksLanguage.Table,
		schema.BooksLanguage.Code,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_languages")
	}
	defer rows.Close()

	var langs []*Language
	for rows.Next() {
		l := &Language{}
		if err := rows.Scan(&l.ID, &l.Code, &l.Name, &l.Flag); err != nil {
			return nil, dberr.Wrap(err, "scan_language")
		}
		langs = append(langs, l)
	}

	return langs, nil
}

func (repository *PostgresRepository) GetLanguageByCode(context context.Context, code string) (*Language, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.BooksLanguage.ID,
		schema.BooksLanguage.Code,
		schema.BooksLanguage.Name,
		schema.BooksLanguage.Flag,
		schema.BooksLanguage.Table,
		schema.BooksLanguage.Code,
	)

	l := &Language{}
	err := repository.db.QueryRow(context, query, code).Scan(&l.ID, &l.Code, &l.Name, &l.Flag)
	if err != nil {
		return nil, dberr.Wrap(err, "get_language")
	}
	return l, nil
}
