package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/wms-ledger/internal/handlers"
	"github.com/ammerola/wms-ledger/internal/pkg/config"
	"github.com/ammerola/wms-ledger/test/helpers"
	"github.com/ammerola/wms-ledger/test/mocks"
)

type stubInspector struct {
	queues   []string
	info     map[string]*asynq.QueueInfo
	queueErr error
}

func (s *stubInspector) Queues() ([]string, error) { return s.queues, s.queueErr }

func (s *stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	if info, ok := s.info[queue]; ok {
		return info, nil
	}
	return nil, errors.New("queue not found")
}

func (s *stubInspector) Servers() ([]*asynq.ServerInfo, error) {
	return []*asynq.ServerInfo{{}}, nil
}

func TestHealthHandler(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Version: "1.2.3", Environment: "test"}}

	tests := []struct {
		name           string
		setupDB        func(m *mocks.MockDatabase)
		stopRedis      bool
		inspector      handlers.QueueInspector
		expectedStatus int
		expectedHealth string
	}{
		{
			name: "all_dependencies_healthy",
			setupDB: func(m *mocks.MockDatabase) {
				m.EXPECT().Ping(gomock.Any()).Return(nil)
				m.EXPECT().Health(gomock.Any()).Return(map[string]interface{}{"total_conns": int32(4)})
			},
			inspector: &stubInspector{
				queues: []string{"critical"},
				info:   map[string]*asynq.QueueInfo{"critical": {Queue: "critical", Pending: 2, Archived: 1}},
			},
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
		},
		{
			name: "database_down",
			setupDB: func(m *mocks.MockDatabase) {
				m.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "degraded",
		},
		{
			name: "redis_down",
			setupDB: func(m *mocks.MockDatabase) {
				m.EXPECT().Ping(gomock.Any()).Return(nil)
				m.EXPECT().Health(gomock.Any()).Return(map[string]interface{}{})
			},
			stopRedis:      true,
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "degraded",
		},
		{
			name: "queue_unreachable",
			setupDB: func(m *mocks.MockDatabase) {
				m.EXPECT().Ping(gomock.Any()).Return(nil)
				m.EXPECT().Health(gomock.Any()).Return(map[string]interface{}{})
			},
			inspector:      &stubInspector{queueErr: errors.New("redis: closed")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			database := mocks.NewMockDatabase(ctrl)
			tt.setupDB(database)

			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
			t.Cleanup(func() { client.Close() })
			if tt.stopRedis {
				mr.Close()
			}

			h := handlers.NewHealthHandler(database, client, tt.inspector, cfg, helpers.TestLogger())
			w := httptest.NewRecorder()
			h.Health(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)

			var status handlers.HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
			assert.Equal(t, tt.expectedHealth, status.Status)
			assert.Equal(t, "1.2.3", status.Version)
			assert.Contains(t, status.Services, "database")
			assert.Contains(t, status.Services, "redis")
			if tt.inspector != nil {
				assert.Contains(t, status.Services, "queue")
			}
		})
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
	}{
		{name: "ready", expectedStatus: http.StatusOK},
		{name: "database_not_ready", pingErr: errors.New("timeout"), expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			database := mocks.NewMockDatabase(ctrl)
			database.EXPECT().Ping(gomock.Any()).Return(tt.pingErr)

			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { client.Close() })

			h := handlers.NewHealthHandler(database, client, nil, &config.Config{}, helpers.TestLogger())
			w := httptest.NewRecorder()
			h.Readiness(w, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body struct {
				Ready   bool              `json:"ready"`
				Details map[string]string `json:"details"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.pingErr == nil, body.Ready)
		})
	}
}
