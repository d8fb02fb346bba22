package repository

import "github.com/jackc/pgx/v5/pgxpool"

type Repository struct {
	CartRepo CartRepositoryInterface
}

func New(db *pgxpool.Pool) *Repository {
	return &Repository{
		CartRepo: NewCartRepository(db),
	}
}
