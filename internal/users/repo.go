package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/fitfood/internal/telemetry/tracing"
	"github.com/2beens/fitfood/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const userColumns = `id, email, password_hash, name, age, weight, height, gender, fitness_level,
	health_condition, goal, meal_ids, workout_ids, ai_suggestions, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, user *User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", user.ID))

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO users
				(id, email, password_hash, name, age, weight, height, gender, fitness_level, health_condition, goal)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING created_at, updated_at;`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Age, user.Weight, user.Height,
		user.Gender, user.FitnessLevel, user.HealthCondition, user.Goal,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrEmailTaken
		}
		return err
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1;`, email)
}

func (r *Repo) getOne(ctx context.Context, query string, arg string) (*User, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users, err := rows2users(rows)
	if err != nil {
		return nil, err
	}
	if len(users) != 1 {
		return nil, ErrUserNotFound
	}

	return &users[0], nil
}

// Update overwrites the profile fields and the password hash.
func (r *Repo) Update(ctx context.Context, user *User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", user.ID))

	if err := r.db.QueryRow(
		ctx,
		`UPDATE users SET
				email = $2, password_hash = $3, name = $4, age = $5, weight = $6, height = $7,
				gender = $8, fitness_level = $9, health_condition = $10, goal = $11, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at;`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Age, user.Weight, user.Height,
		user.Gender, user.FitnessLevel, user.HealthCondition, user.Goal,
	).Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		if pkg.IsUniqueViolationError(err) {
			return ErrEmailTaken
		}
		return err
	}

	return nil
}

// AppendAISuggestion adds the suggestion to the user's history in a single statement.
func (r *Repo) AppendAISuggestion(ctx context.Context, userID string, suggestion AISuggestion) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.appendAiSuggestion")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	suggestionJson, err := json.Marshal(suggestion)
	if err != nil {
		return fmt.Errorf("marshal suggestion: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE users
			SET ai_suggestions = ai_suggestions || jsonb_build_array($2::jsonb), updated_at = NOW()
			WHERE id = $1;`,
		userID, suggestionJson,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func rows2users(rows pgx.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		var u User
		var suggestionsJson []byte
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Age, &u.Weight, &u.Height, &u.Gender,
			&u.FitnessLevel, &u.HealthCondition, &u.Goal, &u.MealIDs, &u.WorkoutIDs,
			&suggestionsJson, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal(suggestionsJson, &u.AISuggestions); err != nil {
			return nil, fmt.Errorf("unmarshal ai suggestions of %s: %w", u.ID, err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
