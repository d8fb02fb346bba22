package repository

import "github.com/jackc/pgx/v5/pgxpool"

type Repository struct {
	RecipeRepo RecipeRepositoryInterface
}

func New(db *pgxpool.Pool) *Repository {
	return &Repository{
		RecipeRepo: NewRecipeRepository(db),
	}
}
