package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/fitfood/internal/nutrition"
	"github.com/2beens/fitfood/internal/workouts"
	"github.com/2beens/fitfood/pkg"

	"github.com/coocood/freecache"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=users

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidInput          = errors.New("invalid input")
	ErrFetchUser             = errors.New("error fetching user data")
	ErrPersistUser           = errors.New("error saving user data")
	ErrQuestionRequired      = errors.New("question is required")
	ErrAnswerRequired        = errors.New("answer is required")
	ErrAssistantUnavailable  = errors.New("assistant unavailable")
	errUnexpectedCachedValue = errors.New("unexpected cached profile")
)

type usersRepo interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	AppendAISuggestion(ctx context.Context, userID string, suggestion AISuggestion) error
}

type workoutsLister interface {
	ListByIDs(ctx context.Context, ids []string) ([]workouts.Workout, error)
}

type mealsLister interface {
	ListByIDs(ctx context.Context, ids []string) ([]nutrition.Meal, error)
}

type sessionManager interface {
	Login(ctx context.Context, userID, email string, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) error
}

type assistant interface {
	Answer(ctx context.Context, profile nutrition.Profile, fitnessLevel, goal, question string) (string, error)
}

type NewServiceParams struct {
	Repo      usersRepo
	Workouts  workoutsLister
	Meals     mealsLister
	Sessions  sessionManager
	Assistant assistant // optional
	// profile cache; nil disables caching
	Cache           *freecache.Cache
	CacheTTLSeconds int
}

type Service struct {
	repo            usersRepo
	workouts        workoutsLister
	meals           mealsLister
	sessions        sessionManager
	assistant       assistant
	cache           *freecache.Cache
	cacheTTLSeconds int
	// bumped on every profile change; loads started before a change are not cached
	cacheMutex      sync.Mutex
	cacheGeneration uint64
	validate        *validator.Validate
	// injectable, for tests
	now func() time.Time
}

func NewService(params NewServiceParams) *Service {
	return &Service{
		repo:            params.Repo,
		workouts:        params.Workouts,
		meals:           params.Meals,
		sessions:        params.Sessions,
		assistant:       params.Assistant,
		cache:           params.Cache,
		cacheTTLSeconds: params.CacheTTLSeconds,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		now:             time.Now,
	}
}

func (s *Service) CreateUser(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", ErrPersistUser, err)
	}

	user := &User{
		ID:              uuid.NewString(),
		Email:           req.Email,
		PasswordHash:    passwordHash,
		Name:            req.Name,
		Age:             req.Age,
		Weight:          req.Weight,
		Height:          req.Height,
		Gender:          req.Gender,
		FitnessLevel:    req.FitnessLevel,
		HealthCondition: req.HealthCondition,
		Goal:            req.Goal,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistUser, err)
	}
	user.ensureLists()

	token, err := s.sessions.Login(ctx, user.ID, user.Email, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: login: %w", ErrPersistUser, err)
	}

	return &AuthResponse{
		User:  user,
		Token: token,
	}, nil
}

// GetUserByID returns the user with meals and workouts resolved, in reference order.
func (s *Service) GetUserByID(ctx context.Context, id string) (*User, error) {
	if cached, err := s.cachedUser(id); err == nil {
		return cached, nil
	}
	generation := s.currentCacheGeneration()

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrFetchUser, err)
	}

	if user.Workouts, err = s.workouts.ListByIDs(ctx, user.WorkoutIDs); err != nil {
		return nil, fmt.Errorf("%w: workouts: %w", ErrFetchUser, err)
	}
	if user.Meals, err = s.meals.ListByIDs(ctx, user.MealIDs); err != nil {
		return nil, fmt.Errorf("%w: meals: %w", ErrFetchUser, err)
	}
	user.ensureLists()

	s.cacheUser(user, generation)
	return user, nil
}

func (s *Service) cachedUser(id string) (*User, error) {
	if s.cache == nil {
		return nil, freecache.ErrNotFound
	}
	cachedBytes, err := s.cache.Get([]byte(id))
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(cachedBytes, &user); err != nil || user.ID != id {
		s.cache.Del([]byte(id))
		return nil, errUnexpectedCachedValue
	}
	return &user, nil
}

func (s *Service) currentCacheGeneration() uint64 {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	return s.cacheGeneration
}

// cacheUser stores a profile loaded at the given generation, unless a change happened since.
func (s *Service) cacheUser(user *User, generation uint64) {
	if s.cache == nil {
		return
	}
	userBytes, err := json.Marshal(user)
	if err != nil {
		log.Warnf("cache user %s: %s", user.ID, err)
		return
	}

	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	if s.cacheGeneration != generation {
		log.Tracef("cache user %s: changed while loading, not cached", user.ID)
		return
	}
	if err := s.cache.Set([]byte(user.ID), userBytes, s.cacheTTLSeconds); err != nil {
		log.Warnf("cache user %s: %s", user.ID, err)
	}
}

// UserChanged drops the cached profile of the user.
func (s *Service) UserChanged(userID string) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	s.cacheGeneration++
	if s.cache != nil {
		s.cache.Del([]byte(userID))
	}
}

func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", ErrFetchUser, err)
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Login(ctx, user.ID, user.Email, s.now())
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &LoginResponse{
		UserID: user.ID,
		Email:  user.Email,
		Token:  token,
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Logout(ctx, token)
}

func (s *Service) UpdateUserProfile(ctx context.Context, id string, patch ProfilePatch) (*User, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrFetchUser, err)
	}

	patch.apply(user)
	if patch.Password != "" {
		if user.PasswordHash, err = pkg.HashPassword(patch.Password); err != nil {
			return nil, fmt.Errorf("%w: hash password: %w", ErrPersistUser, err)
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistUser, err)
	}
	s.UserChanged(id)

	return s.GetUserByID(ctx, id)
}

// SaveAISuggestion stores a question with its answer. Without an answer, the
// assistant (when configured) is asked first.
func (s *Service) SaveAISuggestion(ctx context.Context, id, question, answer string) (*User, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionRequired
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		if s.assistant == nil {
			return nil, ErrAnswerRequired
		}

		user, err := s.repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("%w: %w", ErrFetchUser, err)
		}

		answer, err = s.assistant.Answer(ctx, user.BodyProfile(), user.FitnessLevel, user.Goal, question)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAssistantUnavailable, err)
		}
	}

	if err := s.repo.AppendAISuggestion(ctx, id, AISuggestion{
		Question:  question,
		Answer:    answer,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistUser, err)
	}
	s.UserChanged(id)

	return s.GetUserByID(ctx, id)
}

// BodyProfile serves the nutrition dashboard.
func (s *Service) BodyProfile(ctx context.Context, id string) (nutrition.Profile, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nutrition.Profile{}, nutrition.ErrProfileNotFound
		}
		return nutrition.Profile{}, err
	}
	return user.BodyProfile(), nil
}

// DisplayName is the name shown on community posts.
func (s *Service) DisplayName(ctx context.Context, id string) (string, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Name, nil
}
