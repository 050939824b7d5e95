package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/fitfood/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 30 * 24 * time.Hour
	sessionKeyPrefix = "fitfood-session||"
	tokensSetKey     = "fitfood-sessions"
)

var ErrSessionNotFound = errors.New("session not found")

var _ Checker = (*Service)(nil)

// Checker resolves a bearer token into the id of the logged user.
type Checker interface {
	IsLogged(ctx context.Context, token string) (string, error)
}

type Service struct {
	redisClient *redis.Client
	tokens      *Tokens
	// ability to inject random string generator func for token ids (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	tokens *Tokens,
	redisClient *redis.Client,
) *Service {
	return &Service{
		tokens:         tokens,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func sessionKey(tokenID string) string {
	return sessionKeyPrefix + tokenID
}

// Login issues a signed token for the user and registers its session.
func (as *Service) Login(ctx context.Context, userID, email string, createdAt time.Time) (string, error) {
	tokenID, err := as.RandStringFunc(24)
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	token, err := as.tokens.Issue(userID, email, tokenID, createdAt)
	if err != nil {
		return "", err
	}

	cmdSet := as.redisClient.Set(ctx, sessionKey(tokenID), createdAt.Unix(), as.tokens.TTL())
	if err := cmdSet.Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	// add token id to the set of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, tokenID)
	if err := cmdSAdd.Err(); err != nil {
		return "", fmt.Errorf("register session: %w", err)
	}

	return token, nil
}

func (as *Service) Logout(ctx context.Context, token string) error {
	claims, err := as.tokens.Parse(token)
	if err != nil {
		return err
	}

	cmdDel := as.redisClient.Del(ctx, sessionKey(claims.ID))
	if err := cmdDel.Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if cmdDel.Val() == 0 {
		return ErrSessionNotFound
	}

	// remove token id from the set of sessions
	cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, claims.ID)
	if err := cmdSRem.Err(); err != nil {
		return fmt.Errorf("unregister session: %w", err)
	}

	return nil
}

// IsLogged verifies the token signature and expiry, and that its session was
// not revoked. Returns the user id the token was issued for.
func (as *Service) IsLogged(ctx context.Context, token string) (string, error) {
	claims, err := as.tokens.Parse(token)
	if err != nil {
		return "", err
	}

	cmd := as.redisClient.Get(ctx, sessionKey(claims.ID))
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("get session: %w", err)
	}

	createdAtUnix, err := strconv.ParseInt(cmd.Val(), 10, 64)
	if err != nil {
		return "", fmt.Errorf("parse session: %w", err)
	}
	if as.sessionExpired(createdAtUnix) {
		return "", ErrTokenExpired
	}

	return claims.UserID(), nil
}

func (as *Service) sessionExpired(createdAtUnix int64) bool {
	createdAt := time.Unix(createdAtUnix, 0)
	return as.tokens.Now().Sub(createdAt) > as.tokens.TTL()
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
// or already evicted by redis.
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	tokenIDs := cmd.Val()
	if len(tokenIDs) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(tokenIDs))
	var toRemove []string
	for _, tokenID := range tokenIDs {
		cmd := as.redisClient.Get(ctx, sessionKey(tokenID))
		if err := cmd.Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				toRemove = append(toRemove, tokenID)
				continue
			}
			log.Errorf("=> auth service, scan and clean session %s: %s", tokenID, err)
			continue
		}

		createdAtUnix, err := strconv.ParseInt(cmd.Val(), 10, 64)
		if err != nil {
			log.Errorf("=> auth service, scan and clean session %s: %s", tokenID, err)
			continue
		}

		if as.sessionExpired(createdAtUnix) {
			log.Debugf("=>\twill clean the session: %s", tokenID)
			toRemove = append(toRemove, tokenID)
		}
	}

	for _, tokenID := range toRemove {
		if err := as.redisClient.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
			log.Errorf("=> auth service, clean session %s: %s", tokenID, err)
			continue
		}

		if err := as.redisClient.SRem(ctx, tokensSetKey, tokenID).Err(); err != nil {
			log.Errorf("=> auth service, clean session %s: %s", tokenID, err)
			continue
		}
	}
}

// RunCleanup calls ScanAndClean every interval until ctx is done.
func (as *Service) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debugln("auth service cleanup stopped")
			return
		case <-ticker.C:
			as.ScanAndClean(ctx)
		}
	}
}
