// Package fixtures seeds a fresh database with demo accounts and a phone catalogue.
package fixtures

import (
	"context"
	"fmt"
	"strconv"

	"bilemo-api/internal/database"
	"bilemo-api/internal/metrics"
	"bilemo-api/internal/model"
	"bilemo-api/internal/service"
	"bilemo-api/internal/store"
	"bilemo-api/internal/worker"

	"github.com/rs/zerolog"
)

const (
	DefaultPassword = "password"
	PhoneCount      = 20
)

var (
	countUsers   = store.CountUsers
	createUser   = store.CreateUser
	createPhone  = store.CreatePhone
	hashPassword = service.HashPassword
)

// Accounts are the demo users, in insertion order.
var Accounts = []model.User{
	{Email: "user@mail.com", Company: "client"},
	{Email: "admin@mail.com", Company: model.AdminCompany},
}

// Result reports what Load inserted.
type Result struct {
	Skipped bool
	Users   int
	Phones  int
}

// Load inserts Accounts and PhoneCount phones authored by the admin, unless
// the users table already has rows. Password hashing runs on a pool of
// workers goroutines.
func Load(ctx context.Context, db database.DB, workers int, log zerolog.Logger) (Result, error) {
	n, err := countUsers(ctx, db)
	if err != nil {
		return Result{}, fmt.Errorf("fixtures: %w", err)
	}
	if n > 0 {
		log.Info().Int("users", n).Msg("database not empty, skipping fixtures")
		return Result{Skipped: true}, nil
	}

	users := make([]model.User, len(Accounts))
	copy(users, Accounts)

	pool := worker.NewPool(ctx, workers)
	for i := range users {
		pool.Submit(func(context.Context) error {
			hash, err := hashPassword(DefaultPassword)
			if err != nil {
				return fmt.Errorf("hash %s: %w", users[i].Email, err)
			}
			users[i].PasswordHash = hash
			users[i].Roles = model.RolesForCompany(users[i].Company)
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return Result{}, fmt.Errorf("fixtures: %w", err)
	}

	var res Result
	var admin *model.User
	for i := range users {
		u, err := createUser(ctx, db, &users[i])
		if err != nil {
			return res, fmt.Errorf("fixtures: %w", err)
		}
		res.Users++
		if u.HasRole(model.RoleAdmin) {
			admin = u
		}
	}
	metrics.FixturesSeeded.WithLabelValues("users").Add(float64(res.Users))

	var authorID *int
	if admin != nil {
		authorID = &admin.ID
	}
	for _, p := range Phones(authorID) {
		if _, err := createPhone(ctx, db, p); err != nil {
			return res, fmt.Errorf("fixtures: %w", err)
		}
		res.Phones++
	}
	metrics.FixturesSeeded.WithLabelValues("phones").Add(float64(res.Phones))

	log.Info().Int("users", res.Users).Int("phones", res.Phones).Msg("fixtures loaded")
	return res, nil
}

// Phones builds the demo catalogue.
func Phones(authorID *int) []*model.Phone {
	out := make([]*model.Phone, 0, PhoneCount)
	for i := 0; i < PhoneCount; i++ {
		n := strconv.Itoa(i)
		desc := "C'est un jolie téléphone : " + n
		price := n + "euro"
		out = append(out, &model.Phone{
			Name:        "Nom " + n,
			Description: &desc,
			Price:       &price,
			AuthorID:    authorID,
		})
	}
	return out
}
