// Package testnats runs a NATS server in a container and gives tests a
// private subject to read application events from.
package testnats

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"project-launchpad/internal/events"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SubjectPrefix is the parent of every subject handed out by Subject.
const SubjectPrefix = "launchpad.applications.test"

var (
	sharedServer *Server
	sharedOnce   sync.Once
)

type Server struct {
	Container testcontainers.Container
	URL       string
}

// SetupSharedNATS starts one NATS server for the tests of a package.
func SetupSharedNATS(t *testing.T) *Server {
	t.Helper()

	sharedOnce.Do(func() {
		ctx := context.Background()

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "nats:2.10-alpine",
				ExposedPorts: []string{"4222/tcp"},
				WaitingFor:   wait.ForLog("Server is ready"),
			},
			Started: true,
		})
		require.NoError(t, err)

		endpoint, err := container.PortEndpoint(ctx, "4222/tcp", "nats")
		require.NoError(t, err)

		sharedServer = &Server{Container: container, URL: endpoint}
	})

	return sharedServer
}

func (s *Server) Cleanup(t *testing.T) {
	t.Helper()
	if s.Container != nil {
		if err := s.Container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
}

// Subject returns a subject under SubjectPrefix unique to the running test.
func Subject(t *testing.T) string {
	t.Helper()
	name := strings.NewReplacer("/", ".", " ", "_", "*", "_", ">", "_").Replace(t.Name())
	return SubjectPrefix + "." + name
}

// Subscribe listens on subject until the test ends. The subscription is
// flushed to the server before it returns, so nothing published afterwards
// is missed.
func (s *Server) Subscribe(t *testing.T, subject string) <-chan *nats.Msg {
	t.Helper()

	conn, err := nats.Connect(s.URL, nats.Name("launchpad-test-subscriber"))
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	ch := make(chan *nats.Msg, 16)
	_, err = conn.ChanSubscribe(subject, ch)
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	return ch
}

// NextApplicationEvent waits for the next message on ch and decodes it.
func NextApplicationEvent(t *testing.T, ch <-chan *nats.Msg, timeout time.Duration) (events.ApplicationSubmitted, nats.Header) {
	t.Helper()

	select {
	case msg := <-ch:
		var event events.ApplicationSubmitted
		require.NoError(t, json.Unmarshal(msg.Data, &event))
		return event, msg.Header
	case <-time.After(timeout):
		t.Fatalf("no application event within %s", timeout)
		return events.ApplicationSubmitted{}, nil
	}
}

// NoMessage asserts that nothing arrives on ch within d.
func NoMessage(t *testing.T, ch <-chan *nats.Msg, d time.Duration) {
	t.Helper()

	select {
	case msg := <-ch:
		t.Fatalf("unexpected message on %s", msg.Subject)
	case <-time.After(d):
	}
}
