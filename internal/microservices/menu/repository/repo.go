package repository

import "github.com/jackc/pgx/v5/pgxpool"

type Repository struct {
	FoodRepo FoodRepositoryInterface
}

func New(db *pgxpool.Pool) *Repository {
	return &Repository{
		FoodRepo: NewFoodRepository(db),
	}
}
