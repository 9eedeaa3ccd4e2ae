package event

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnisaude/saude-api/internal/middleware"
	"github.com/omnisaude/saude-api/internal/model"
	"github.com/omnisaude/saude-api/internal/service/event"
)

type eventRepoStub struct {
	byUser map[uuid.UUID][]*model.HealthEvent
}

func (s *eventRepoStub) Create(_ context.Context, _ *model.HealthEvent) error { return nil }

func (s *eventRepoStub) Get(_ context.Context, _ uuid.UUID) (*model.HealthEvent, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *eventRepoStub) Update(_ context.Context, _ uuid.UUID, _ *model.UpdateEventRequest) (*model.HealthEvent, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *eventRepoStub) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (s *eventRepoStub) FindByDateAndProfessional(_ context.Context, _ string, _ uuid.UUID, _ *uuid.UUID) ([]*model.HealthEvent, error) {
	return nil, nil
}

func (s *eventRepoStub) FindByUser(_ context.Context, userID uuid.UUID) ([]*model.HealthEvent, error) {
	return s.byUser[userID], nil
}

func (s *eventRepoStub) FindByDate(_ context.Context, _ string) ([]*model.HealthEvent, error) {
	return nil, nil
}

func (s *eventRepoStub) AddFile(_ context.Context, _ *model.EventFile) error { return nil }

func (s *eventRepoStub) GetFiles(_ context.Context, _ uuid.UUID) ([]*model.EventFile, error) {
	return nil, nil
}

func (s *eventRepoStub) DeleteFile(_ context.Context, _ uuid.UUID) error { return nil }

func newTestRouter(repo *eventRepoStub, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID.String())
		c.Next()
	})
	NewHandler(event.NewService(repo, nil, nil, nil)).RegisterRoutes(api)
	return r
}

func seedEvents(userID uuid.UUID, n int) []*model.HealthEvent {
	events := make([]*model.HealthEvent, 0, n)
	for i := 0; i < n; i++ {
		ev := &model.HealthEvent{
			UserID:         userID,
			ProfessionalID: uuid.New(),
			Date:           "2025-10-27",
			StartTime:      fmt.Sprintf("%02d:00", 8+i),
			EndTime:        fmt.Sprintf("%02d:00", 9+i),
			Type:           model.EventTypeConsultation,
		}
		ev.ID = uuid.New()
		events = append(events, ev)
	}
	return events
}

func TestListEventsPaginated(t *testing.T) {
	userID := uuid.New()
	repo := &eventRepoStub{byUser: map[uuid.UUID][]*model.HealthEvent{
		userID: seedEvents(userID, 5),
	}}
	router := newTestRouter(repo, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?page=2&page_size=2", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Data       []model.HealthEvent `json:"data"`
			Pagination struct {
				Page       int `json:"page"`
				PageSize   int `json:"page_size"`
				Total      int `json:"total"`
				TotalPages int `json:"total_pages"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Len(t, resp.Data.Data, 2)
	assert.Equal(t, 2, resp.Data.Pagination.Page)
	assert.Equal(t, 2, resp.Data.Pagination.PageSize)
	assert.Equal(t, 5, resp.Data.Pagination.Total)
	assert.Equal(t, 3, resp.Data.Pagination.TotalPages)
	assert.Equal(t, repo.byUser[userID][2].ID, resp.Data.Data[0].ID)
}

func TestListEventsLastPageClamped(t *testing.T) {
	userID := uuid.New()
	repo := &eventRepoStub{byUser: map[uuid.UUID][]*model.HealthEvent{
		userID: seedEvents(userID, 5),
	}}
	router := newTestRouter(repo, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?page=4&page_size=2", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Data       []model.HealthEvent `json:"data"`
			Pagination struct {
				Total int `json:"total"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Empty(t, resp.Data.Data)
	assert.Equal(t, 5, resp.Data.Pagination.Total)
}

func TestListEventsUnpaginatedByDefault(t *testing.T) {
	userID := uuid.New()
	repo := &eventRepoStub{byUser: map[uuid.UUID][]*model.HealthEvent{
		userID: seedEvents(userID, 3),
	}}
	router := newTestRouter(repo, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                 `json:"success"`
		Data    []*model.HealthEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 3)
}
