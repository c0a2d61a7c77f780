package store

import (
	"context"
	"fmt"

	"bilemo-api/internal/database"
	"bilemo-api/internal/model"

	"github.com/jackc/pgx/v5"
)

const phoneSelect = `SELECT p.id, p.name, p.description, p.price, p.author_id, p.created_at,
		        u.email, u.company
		   FROM phones p
		   LEFT JOIN users u ON u.id = p.author_id`

func scanPhone(row pgx.Row) (*model.Phone, error) {
	p := &model.Phone{}
	var email, company *string
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.AuthorID,
		&p.CreatedAt,
		&email,
		&company,
	); err != nil {
		return nil, err
	}
	if p.AuthorID != nil && email != nil {
		p.Author = &model.User{ID: *p.AuthorID, Email: *email}
		if company != nil {
			p.Author.Company = *company
		}
	}
	return p, nil
}

func GetPhoneByID(ctx context.Context, db database.DB, phoneID int) (*model.Phone, error) {
	p, err := scanPhone(db.QueryRow(ctx, phoneSelect+` WHERE p.id = $1`, phoneID))
	if err != nil {
		return nil, fmt.Errorf("GetPhoneByID: %w", notFound(err))
	}
	return p, nil
}

// ListPhones returns one page of phones ordered by id. Pages past the end are empty.
func ListPhones(ctx context.Context, db database.DB, page Page) ([]model.Phone, error) {
	rows, err := db.Query(ctx,
		phoneSelect+` ORDER BY p.id ASC LIMIT $1 OFFSET $2`,
		page.Limit,
		page.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("ListPhones: %w", err)
	}
	defer rows.Close()

	phones := make([]model.Phone, 0, page.Limit)
	for rows.Next() {
		p, err := scanPhone(rows)
		if err != nil {
			return nil, fmt.Errorf("ListPhones: %w", err)
		}
		phones = append(phones, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListPhones: %w", err)
	}
	return phones, nil
}

func CreatePhone(ctx context.Context, db database.DB, p *model.Phone) (*model.Phone, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO phones (name, description, price, author_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		p.Name,
		p.Description,
		p.Price,
		p.AuthorID,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreatePhone: %w", err)
	}
	return p, nil
}

// UpdatePhone writes name, description and price. created_at and author_id are never touched.
func UpdatePhone(ctx context.Context, db database.DB, p *model.Phone) error {
	tag, err := db.Exec(ctx,
		`UPDATE phones SET name = $1, description = $2, price = $3 WHERE id = $4`,
		p.Name,
		p.Description,
		p.Price,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdatePhone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdatePhone: %w", model.ErrNotFound)
	}
	return nil
}

func DeletePhone(ctx context.Context, db database.DB, phoneID int) error {
	tag, err := db.Exec(ctx, `DELETE FROM phones WHERE id = $1`, phoneID)
	if err != nil {
		return fmt.Errorf("DeletePhone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeletePhone: %w", model.ErrNotFound)
	}
	return nil
}
