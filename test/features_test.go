//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitfood/internal/community"
	"github.com/2beens/fitfood/internal/featurestore"
	"github.com/2beens/fitfood/internal/realtime"
	"github.com/2beens/fitfood/internal/tracker/running"
	"github.com/2beens/fitfood/internal/tracker/weight"
)

func (s *IntegrationTestSuite) TestCommunity_ConcurrentLikes() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	authResp, signupReq := s.signup(ctx)

	var post community.Post
	s.doJSON(ctx, http.MethodPost, "/api/community/posts", authResp.Token, community.CreatePostRequest{
		Content: "First 10k done!",
	}, http.StatusCreated, &post)
	assert.Equal(t, signupReq.Name, post.User)
	assert.Equal(t, authResp.User.ID, post.UserID)

	s.doJSON(ctx, http.MethodPost, "/api/community/posts", authResp.Token, community.CreatePostRequest{
		Content: "   ",
	}, http.StatusBadRequest, nil)

	likes := 10
	statuses := make(chan int, likes)
	wg := sync.WaitGroup{}
	for range likes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := s.send(ctx, http.MethodPost, fmt.Sprintf("/api/community/posts/%d/like", post.ID), authResp.Token, nil)
			assert.NoError(t, err)
			statuses <- status
		}()
	}
	wg.Wait()
	close(statuses)
	for status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}

	var liked community.Post
	s.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/community/posts/%d/share", post.ID), authResp.Token, nil, http.StatusOK, &liked)
	assert.Equal(t, likes, liked.Likes)
	assert.Equal(t, 1, liked.Shares)

	var posts []community.Post
	s.doJSON(ctx, http.MethodGet, "/api/community/posts", authResp.Token, nil, http.StatusOK, &posts)
	require.NotEmpty(t, posts)
	assert.Equal(t, post.ID, posts[0].ID)
	assert.Equal(t, likes, posts[0].Likes)

	s.doJSON(ctx, http.MethodPost, "/api/community/posts/1/like", authResp.Token, nil, http.StatusNotFound, nil)
}

func (s *IntegrationTestSuite) TestTrackers_WithSync() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	authResp, _ := s.signup(ctx)
	userID := authResp.User.ID
	userPath := "/api/users/" + userID

	wsURL := "ws" + strings.TrimPrefix(serverEndpoint, "http") + userPath + "/sync?token=" + authResp.Token
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	// the client is registered after the upgrade response, keep writing until a change arrives
	stopWrites := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopWrites:
				return
			case <-ticker.C:
				_, _ = s.send(ctx, http.MethodPost, userPath+"/weight", authResp.Token, weight.AddWeightRequest{Weight: 79})
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg realtime.Message
	err = conn.ReadJSON(&msg)
	close(stopWrites)
	require.NoError(t, err)
	assert.Equal(t, featurestore.FeatureWeightHistory, msg.Feature)

	var goals weight.Overview
	s.doJSON(ctx, http.MethodPut, userPath+"/weight/goals", authResp.Token, weight.GoalsRequest{
		TargetWeight: 72,
		WeeklyGoal:   -0.5,
	}, http.StatusOK, &goals)
	assert.Equal(t, 72.0, goals.Goals.TargetWeight)

	var overview running.Overview
	s.doJSON(ctx, http.MethodPost, userPath+"/running", authResp.Token, running.RecordRequest{
		Distance:        5,
		DurationSeconds: 1500,
		Route:           "park loop",
	}, http.StatusCreated, &overview)
	require.Len(t, overview.History, 1)
	assert.Equal(t, "5:00", overview.History[0].Pace)
	assert.Equal(t, 1, overview.Stats.TotalRuns)

	s.doJSON(ctx, http.MethodPost, userPath+"/running/start", authResp.Token, nil, http.StatusCreated, nil)
	time.Sleep(120 * time.Millisecond)
	s.doJSON(ctx, http.MethodPost, userPath+"/running/stop", authResp.Token, nil, http.StatusOK, &overview)
	assert.Len(t, overview.History, 2)
	assert.Equal(t, 2, overview.Stats.TotalRuns)

	// everything survives a fresh read from redis
	var stored running.Overview
	s.doJSON(ctx, http.MethodGet, userPath+"/running", authResp.Token, nil, http.StatusOK, &stored)
	assert.Equal(t, overview.Stats, stored.Stats)
}
