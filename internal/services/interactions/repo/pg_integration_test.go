//go:build integration_pg

package repo

import (
	"context"
	"testing"
	"time"

	"sentibot/internal/core/sentiment"
	"sentibot/internal/platform/store"
	"sentibot/internal/services/interactions/domain"

	"github.com/google/go-cmp/cmp"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// postgresDSN starts a throwaway postgres for t and returns its url
func postgresDSN(t *testing.T, ctx context.Context) string {
	t.Helper()
	c, err := tc.Run(ctx, "postgres:16-alpine",
		tc.WithExposedPorts("5432/tcp"),
		tc.WithEnv(map[string]string{"POSTGRES_USER": "bot", "POSTGRES_PASSWORD": "bot", "POSTGRES_DB": "sentibot"}),
		tc.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	tc.CleanupContainer(t, c)
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	ep, err := c.PortEndpoint(ctx, "5432/tcp", "")
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	return "postgres://bot:bot@" + ep + "/sentibot?sslmode=disable"
}

func TestPG_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "sentibot-it",
		PG:      store.PGConfig{Enabled: true, URL: postgresDSN(t, ctx), MaxConns: 2, ConnectRetries: 10},
	})
	if err != nil {
		t.Fatalf("store open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	s := NewPG().Bind(st.PG)

	// empty log before the table exists
	if got, err := s.Load(ctx, domain.Filter{}); err != nil || len(got) != 0 {
		t.Fatalf("fresh load = %v, %v", got, err)
	}

	var want []domain.Turn
	for i, class := range []sentiment.Class{sentiment.Positive, sentiment.Negative, sentiment.Neutral, sentiment.Error} {
		turn := turnAt(i, class)
		turn.Timestamp = turn.Timestamp.Truncate(time.Microsecond)
		if err := s.Append(ctx, turn); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		want = append(want, turn)
	}

	got, err := s.Load(ctx, domain.Filter{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, got, persisted); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
	if got, _ := s.Load(ctx, domain.Filter{Limit: 1}); len(got) != 1 || got[0].UserInput != "input 3" {
		t.Fatalf("limit 1 = %+v", got)
	}
}
