package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeData(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func TestLoaderListsEveryKind(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/api/users":
			writeData(w, []domain.User{{ID: "user-1", Email: "a@helpdesk.local"}})
		case "/api/tickets":
			writeData(w, []domain.Ticket{{ID: "ticket-1", Title: "VPN"}})
		default:
			writeData(w, []any{})
		}
	}))

	ds, err := NewLoader(env.client).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Users, 1)
	assert.Equal(t, "a@helpdesk.local", ds.Users[0].Email)
	require.Len(t, ds.Tickets, 1)
	assert.Empty(t, ds.Contracts)

	assert.Len(t, paths, len(domain.Kinds()))
	for _, kind := range domain.Kinds() {
		assert.Contains(t, paths, ResourcePath(kind, ""))
	}
}

func TestLoaderStopsOnFailure(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := NewLoader(env.client).Load(context.Background())
	var failed *RequestFailedError
	require.ErrorAs(t, err, &failed)
	assert.Contains(t, err.Error(), "load users")
}

func TestAuthenticatorSavesToken(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathLogin:
			var req LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Password != "secret" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = io.WriteString(w, `{"message":"invalid credentials"}`)
				return
			}
			writeData(w, LoginResponse{Token: "tok-9", User: domain.User{ID: "user-2", Email: req.Email}})
		case pathMe:
			if r.Header.Get("Authorization") != "Bearer tok-9" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeData(w, domain.User{ID: "user-2"})
		}
	}))
	auth := NewAuthenticator(env.client)
	ctx := context.Background()

	_, err := auth.Authenticate(ctx, "bima@helpdesk.local", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user, err := auth.Authenticate(ctx, "bima@helpdesk.local", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-2", user.ID)
	token, _ := env.holder.Token(ctx)
	assert.Equal(t, "tok-9", token)

	resumed, ok, err := auth.Resume(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-2", resumed.ID)

	require.NoError(t, auth.Logout(ctx))
	_, ok, err = auth.Resume(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResumeWithExpiredToken(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	ctx := context.Background()
	require.NoError(t, env.holder.Save(ctx, "old"))

	_, ok, err := NewAuthenticator(env.client).Resume(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	token, _ := env.holder.Token(ctx)
	assert.Empty(t, token)
}

type recordedCall struct {
	method string
	path   string
}

func TestReplicatorForwardsInOrder(t *testing.T) {
	var mu sync.Mutex
	var calls []recordedCall
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, recordedCall{r.Method, r.URL.Path})
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	toasts := notify.NewRecorder(10)
	replicator := NewReplicator(env.client, zap.NewNop(), ReplicatorOptions{Notifier: toasts})
	replicator.Start()

	replicator.Observe(domain.Event{Kind: domain.KindTicket, Op: domain.OpCreated, ID: "ticket-9", Entity: domain.Ticket{ID: "ticket-9"}})
	replicator.Observe(domain.Event{Kind: domain.KindTicket, Op: domain.OpUpdated, ID: "ticket-9", Entity: domain.Ticket{ID: "ticket-9"}})
	replicator.Observe(domain.Event{Kind: domain.KindTicket, Op: domain.OpDeleted, ID: "ticket-9"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, replicator.Stop(ctx))

	assert.Equal(t, []recordedCall{
		{http.MethodPost, "/api/tickets"},
		{http.MethodPut, "/api/tickets/ticket-9"},
		{http.MethodDelete, "/api/tickets/ticket-9"},
	}, calls)
	assert.Empty(t, toasts.Toasts())

	// Events after stop are dropped without panicking.
	replicator.Observe(domain.Event{Kind: domain.KindTicket, Op: domain.OpDeleted, ID: "ticket-9"})
}

func TestReplicatorSurfacesFailures(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"disk full"}`)
	}))
	toasts := notify.NewRecorder(10)
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	replicator := NewReplicator(env.client, zap.NewNop(), ReplicatorOptions{
		Notifier: toasts,
		Clock:    clock.NewFakeClock(now),
	})
	replicator.Start()
	replicator.Observe(domain.Event{Kind: domain.KindSquad, Op: domain.OpCreated, ID: "squad-2", Entity: domain.Squad{ID: "squad-2"}})
	require.NoError(t, replicator.Stop(context.Background()))

	toast, ok := toasts.Last()
	require.True(t, ok)
	assert.Equal(t, notify.SeverityDestructive, toast.Severity)
	assert.Equal(t, "Sync failed", toast.Title)
	assert.Contains(t, toast.Description, "disk full")
	assert.Equal(t, now, toast.At)
}

func TestReplicatorQueueFullReportsFailure(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler())
	toasts := notify.NewRecorder(10)
	replicator := NewReplicator(env.client, zap.NewNop(), ReplicatorOptions{Notifier: toasts, QueueSize: 1})

	// Not started: the second event cannot be queued.
	replicator.Observe(domain.Event{Kind: domain.KindSquad, Op: domain.OpDeleted, ID: "squad-1"})
	replicator.Observe(domain.Event{Kind: domain.KindSquad, Op: domain.OpDeleted, ID: "squad-2"})

	toast, ok := toasts.Last()
	require.True(t, ok)
	assert.Contains(t, toast.Description, "squad-2")
}

type storeMock struct {
	mock.Mock
	domain.Service
}

func (m *storeMock) AddTicketAttachment(ctx context.Context, ticketID string, in domain.FileInput) error {
	return m.Called(ticketID, in).Error(0)
}

func (m *storeMock) AddContractDocument(ctx context.Context, contractID string, in domain.FileInput) error {
	return m.Called(contractID, in).Error(0)
}

func uploadServer(t *testing.T, putStatus int) (*testEnv, <-chan PresignRequest) {
	var env *testEnv
	presigns := make(chan PresignRequest, 1)
	env = newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == pathPresign:
			var req PresignRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			presigns <- req
			writeData(w, PresignResponse{
				FileID:     "01J0FILE",
				UploadURL:  env.server.URL + "/uploads/01J0FILE?sig=x",
				ParentKind: req.ParentKind,
				ParentID:   req.ParentID,
			})
		case strings.HasPrefix(r.URL.Path, "/uploads/"):
			_, _ = io.Copy(io.Discard, r.Body)
			w.WriteHeader(putStatus)
		}
	}))
	return env, presigns
}

func TestUploaderRegistersAfterSuccessfulPut(t *testing.T) {
	env, presigns := uploadServer(t, http.StatusCreated)
	store := &storeMock{}
	store.On("AddTicketAttachment", "ticket-1", domain.FileInput{
		FileID: "01J0FILE", Name: "log.txt", Type: "text/plain", Size: 3,
	}).Return(nil).Once()

	uploader := NewUploader(env.client, store, nil, zap.NewNop())
	ok, err := uploader.AttachToTicket(context.Background(), "ticket-1", File{
		Name: "log.txt", ContentType: "text/plain", Size: 3, Body: strings.NewReader("abc"),
	})
	require.NoError(t, err)
	assert.True(t, ok)
	store.AssertExpectations(t)

	req := <-presigns
	assert.Equal(t, PresignRequest{
		FileName: "log.txt", FileType: "text/plain", FileSize: 3, ParentKind: "tickets", ParentID: "ticket-1",
	}, req)
}

func TestUploaderSkipsRegistrationWhenPutFails(t *testing.T) {
	env, presigns := uploadServer(t, http.StatusForbidden)
	store := &storeMock{}

	uploader := NewUploader(env.client, store, nil, zap.NewNop())
	ok, err := uploader.AttachToContract(context.Background(), "contract-1", File{
		Name: "signed.pdf", Size: 3, Body: strings.NewReader("pdf"),
	})
	require.NoError(t, err)
	assert.False(t, ok)
	store.AssertNotCalled(t, "AddContractDocument", mock.Anything, mock.Anything)

	req := <-presigns
	assert.Equal(t, "contracts", req.ParentKind)
	assert.Equal(t, "contract-1", req.ParentID)
}

func TestUploaderEnforcesMaxSize(t *testing.T) {
	env, _ := uploadServer(t, http.StatusOK)
	policy := config.DefaultConsoleConfig()
	policy.Uploads.MaxFileSize = 2

	uploader := NewUploader(env.client, &storeMock{}, config.NewStaticConsoleConfigHolder(policy), zap.NewNop())
	ok, err := uploader.AttachToTicket(context.Background(), "ticket-1", File{Name: "big", Size: 3, Body: strings.NewReader("abc")})
	assert.False(t, ok)
	assert.True(t, domain.IsRejected(err))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
