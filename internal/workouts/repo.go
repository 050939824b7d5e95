package workouts

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

const workoutColumns = `id, user_id, date, exercises, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Create stores the workout and appends its id to the owner's workout list,
// in one transaction. An unknown owner leaves nothing behind.
func (r *Repo) Create(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("workout.id", workout.ID))
	span.SetAttributes(attribute.String("user.id", workout.UserID))

	exercisesJson, err := json.Marshal(workout.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(
		ctx,
		`UPDATE users SET workout_ids = array_append(workout_ids, $2), updated_at = NOW() WHERE id = $1;`,
		workout.UserID, workout.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("append workout to user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrWorkoutUserNotFound
	}

	if err := tx.QueryRow(
		ctx,
		`INSERT INTO workouts (id, user_id, date, exercises)
				VALUES ($1, $2, $3, $4)
			RETURNING created_at, updated_at;`,
		workout.ID, workout.UserID, workout.Date, exercisesJson,
	).Scan(&workout.CreatedAt, &workout.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &workout, nil
}

// ListByUser returns the user's workouts, newest date first.
func (r *Repo) ListByUser(ctx context.Context, userID string) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listByUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutColumns+`
			FROM workouts
			WHERE user_id = $1
			ORDER BY date DESC, created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2workouts(rows)
}

// ListByIDs returns the workouts with the given ids, in the order of ids.
func (r *Repo) ListByIDs(ctx context.Context, ids []string) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listByIds")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("ids.count", len(ids)))

	if len(ids) == 0 {
		return []Workout{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutColumns+`
			FROM workouts
			WHERE id = ANY($1::text[])
			ORDER BY array_position($1::text[], id);`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2workouts(rows)
}

func (r *Repo) rows2workouts(rows pgx.Rows) ([]Workout, error) {
	workouts := make([]Workout, 0)
	for rows.Next() {
		var w Workout
		var exercisesJson []byte
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Date, &exercisesJson, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal(exercisesJson, &w.Exercises); err != nil {
			return nil, fmt.Errorf("unmarshal exercises of %s: %w", w.ID, err)
		}
		workouts = append(workouts, w)
	}

	return workouts, rows.Err()
}
