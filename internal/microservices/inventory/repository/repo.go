package repository

import "github.com/jackc/pgx/v5/pgxpool"

type Repository struct {
	IngredientRepo IngredientRepositoryInterface
}

func New(db *pgxpool.Pool) *Repository {
	return &Repository{
		IngredientRepo: NewIngredientRepository(db),
	}
}
