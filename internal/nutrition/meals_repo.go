package nutrition

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/fitfood/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const mealColumns = `id, user_id, name, meal_type, date, foods, totals, created_at`

type MealsRepo struct {
	db *pgxpool.Pool
}

func NewMealsRepo(db *pgxpool.Pool) *MealsRepo {
	return &MealsRepo{
		db: db,
	}
}

// Create stores the meal and appends its id to the owner's meal list in one transaction.
func (r *MealsRepo) Create(ctx context.Context, meal Meal) (_ *Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("meal.id", meal.ID))
	span.SetAttributes(attribute.String("user.id", meal.UserID))

	foodsJson, err := json.Marshal(meal.Foods)
	if err != nil {
		return nil, fmt.Errorf("marshal foods: %w", err)
	}
	totalsJson, err := json.Marshal(meal.Totals)
	if err != nil {
		return nil, fmt.Errorf("marshal totals: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(
		ctx,
		`UPDATE users SET meal_ids = array_append(meal_ids, $2), updated_at = NOW() WHERE id = $1;`,
		meal.UserID, meal.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("append meal to user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrMealUserNotFound
	}

	if err := tx.QueryRow(
		ctx,
		`INSERT INTO meals (id, user_id, name, meal_type, date, foods, totals)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at;`,
		meal.ID, meal.UserID, meal.Name, meal.MealType, meal.Date, foodsJson, totalsJson,
	).Scan(&meal.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert meal: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &meal, nil
}

func (r *MealsRepo) ListByUser(ctx context.Context, userID string) (_ []Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.listByUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+mealColumns+`
			FROM meals
			WHERE user_id = $1
			ORDER BY date DESC, created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2meals(rows)
}

// ListByIDs returns the meals with the given ids, in the order of ids.
func (r *MealsRepo) ListByIDs(ctx context.Context, ids []string) (_ []Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.listByIds")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("ids.count", len(ids)))

	if len(ids) == 0 {
		return []Meal{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+mealColumns+`
			FROM meals
			WHERE id = ANY($1::text[])
			ORDER BY array_position($1::text[], id);`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2meals(rows)
}

func rows2meals(rows pgx.Rows) ([]Meal, error) {
	meals := make([]Meal, 0)
	for rows.Next() {
		var m Meal
		var foodsJson, totalsJson []byte
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Name, &m.MealType, &m.Date, &foodsJson, &totalsJson, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal(foodsJson, &m.Foods); err != nil {
			return nil, fmt.Errorf("unmarshal foods of %s: %w", m.ID, err)
		}
		if err := json.Unmarshal(totalsJson, &m.Totals); err != nil {
			return nil, fmt.Errorf("unmarshal totals of %s: %w", m.ID, err)
		}
		meals = append(meals, m)
	}

	return meals, rows.Err()
}
