package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"heavysync/internal/apperror"
	"heavysync/internal/model"
	"heavysync/internal/repository"
	"heavysync/internal/repository/memory"
	"heavysync/pkg/jwt"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	model.PasswordCost = bcrypt.MinCost
}

type recordedEvent struct {
	Type string
	Data interface{}
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) Publish(eventType string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Type: eventType, Data: data})
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	ctx    context.Context
	store  *repository.Store
	tokens *jwt.Manager
	events *recorder
	svc    *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := jwt.NewManager("test-secret")
	require.NoError(t, err)

	store := memory.NewStore()
	events := &recorder{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		ctx:    context.Background(),
		store:  store,
		tokens: tokens,
		events: events,
		svc:    New(store, tokens, events, log),
	}
}

func ptr[T any](v T) *T { return &v }

func requireKind(t *testing.T, err error, kind apperror.Kind, message string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.Error, got %T: %v", err, err)
	require.Equal(t, kind, appErr.Kind)
	if message != "" {
		require.Equal(t, message, appErr.Message)
	}
}

func (f *fixture) supplier(t *testing.T, email string) *model.Supplier {
	t.Helper()
	s, err := f.svc.Suppliers.Create(f.ctx, &CreateSupplierRequest{
		Name:         "Acme Heavy",
		ContactEmail: email,
		ContactPhone: "0771234567",
		Address:      "12 Dock Road",
	}, "tester")
	require.NoError(t, err)
	return s
}
