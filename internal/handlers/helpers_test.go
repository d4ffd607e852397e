package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/habitkit/habit-tracker-api/internal/constants"
	"github.com/habitkit/habit-tracker-api/internal/database"
	"github.com/habitkit/habit-tracker-api/internal/repository"
	"github.com/habitkit/habit-tracker-api/internal/services"
)

type testEnv struct {
	router      *gin.Engine
	local       *database.Store
	remote      *database.Store
	authService *services.AuthService
}

func openTestStore(t *testing.T) *database.Store {
	t.Helper()

	store, err := database.OpenLocal(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(store.DB))

	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// setupTestEnv wires the full router over an in-memory local store and,
// when withRemote is set, a second in-memory store standing in for the cloud.
func setupTestEnv(t *testing.T, withRemote bool) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := testEnv{local: openTestStore(t)}
	var remoteHabits repository.HabitRepository
	if withRemote {
		env.remote = openTestStore(t)
		remoteHabits = repository.NewHabitRepository(env.remote.DB)
	}

	habitRepo := repository.NewHabitRepository(env.local.DB)
	env.authService = services.NewAuthService(
		repository.NewUserRepository(env.local.DB),
		services.NewBcryptHasher(bcrypt.MinCost),
		services.NewJWTIssuer("test-secret", 0),
	)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, Handlers{
		Auth:   NewAuthHandler(env.authService),
		Habits: NewHabitHandler(services.NewHabitService(habitRepo), services.NewSuggestionService("", "")),
		Sync: NewSyncHandler(services.NewSyncService(habitRepo, remoteHabits, services.SyncOptions{
			Environment: constants.EnvDevelopment,
			RemoteKind:  database.KindPostgreSQL,
		})),
		Health: NewHealthHandler(HealthOptions{
			Environment:      constants.EnvDevelopment,
			Local:            env.local,
			Remote:           env.remote,
			RemoteKind:       database.KindPostgreSQL,
			RemoteConfigured: withRemote,
			JWTConfigured:    true,
		}),
		Verifier: env.authService,
	})
	env.router = r
	return env
}

// do sends a JSON request through the router. An empty token sends no Authorization header.
func (env testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// registerUser registers a user through the API and returns its token.
func (env testEnv) registerUser(t *testing.T, email string) string {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
