package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/careerpilot/careerpilot/core"
	"github.com/careerpilot/careerpilot/model"
	"github.com/careerpilot/careerpilot/search"
	"github.com/careerpilot/careerpilot/store"
	"github.com/careerpilot/careerpilot/transcript"
	"github.com/careerpilot/careerpilot/workflow"
)

// -------------------- Test Doubles --------------------

type stubProfiles map[string]*store.Profile

func (s stubProfiles) GetProfile(_ context.Context, userID string) (*store.Profile, error) {
	if p, ok := s[userID]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

type stubApplications []store.Application

func (s stubApplications) ListApplications(context.Context, string) ([]store.Application, error) {
	return s, nil
}

type stubReports struct{}

func (stubReports) LatestSkillGapReport(context.Context, string) (*store.Report, error) {
	return nil, store.ErrNotFound
}

func (stubReports) LatestCareerRoadmap(context.Context, string) (*store.Report, error) {
	return nil, store.ErrNotFound
}

// keywordEmbedder maps text to a bag-of-words vector over a fixed vocabulary,
// making cosine ranking deterministic.
type keywordEmbedder struct{ vocab []string }

func (e keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, len(e.vocab))
	lower := strings.ToLower(text)
	for i, w := range e.vocab {
		if strings.Contains(lower, w) {
			vec[i] = 1
		}
	}
	return vec, nil
}

type countingSearcher struct {
	mu    sync.Mutex
	calls int
}

func (c *countingSearcher) Search(context.Context, string, int) ([]search.Hit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil, nil
}

func (c *countingSearcher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type appendFailingStore struct{ transcript.Store }

func (appendFailingStore) Append(context.Context, string, string, core.Message) error {
	return errors.New("disk full")
}

func emptyDeps() ToolDeps {
	emb := keywordEmbedder{vocab: []string{"backend"}}
	return ToolDeps{
		Profiles:     stubProfiles{},
		Applications: stubApplications{},
		Reports:      stubReports{},
		Jobs:         search.NewInMemoryIndex(emb),
		Resources:    search.NewInMemoryIndex(emb),
	}
}

// newTestService assembles a full graph over mock backends and the given
// collaborators.
func newTestService(
	t *testing.T,
	routeLabel string,
	mentorModel, genericModel model.Model,
	deps ToolDeps,
	ts transcript.Store,
	toolLoopLimit int,
) *Service {
	t.Helper()

	registry, err := NewMentorTools(deps)
	require.NoError(t, err)

	graph, err := NewGraph(
		NewRouter(routingModel(routeLabel)),
		NewMentor(mentorModel, registry),
		NewGeneric(genericModel),
		NewToolExecutor(registry),
		func(o *GraphOptions) { o.ToolLoopLimit = toolLoopLimit },
	)
	require.NoError(t, err)

	return NewService(graph, ts)
}

// -------------------- Turn Tests --------------------

func TestService_MentorTurnWithSearch(t *testing.T) {
	emb := keywordEmbedder{vocab: []string{"backend", "engineer", "analyst", "golang"}}
	jobs := search.NewInMemoryIndex(emb)
	ctx := context.Background()
	require.NoError(t, jobs.Add(ctx, search.Document{
		ID: "job-1", Title: "Backend Engineer", Snippet: "Golang services at Acme",
	}))
	require.NoError(t, jobs.Add(ctx, search.Document{
		ID: "job-2", Title: "Data Analyst", Snippet: "SQL dashboards at Beta Corp",
	}))

	deps := emptyDeps()
	deps.Jobs = jobs

	mentorModel := model.NewMockModel("mentor", func(_ context.Context, req model.Request) (model.Response, error) {
		// Tool surface is visible on every mentor invocation.
		if len(req.Tools) != 6 {
			return model.Response{}, fmt.Errorf("expected 6 tool definitions, got %d", len(req.Tools))
		}
		last, _ := core.LastMessage(req.Messages)
		if last.Role == core.RoleTool {
			return model.Response{
				Message: core.NewAssistantMessage("Here is what I found:\n" + last.Content),
			}, nil
		}
		args, _ := json.Marshal(map[string]string{"query": "backend engineer golang"})
		return model.Response{
			Message: core.NewAssistantMessage("", core.ToolCall{
				ID: "call_jobs", Name: "search_jobs", Arguments: args,
			}),
		}, nil
	})

	ts := transcript.NewInMemoryStore()
	svc := newTestService(t, "mentor", mentorModel, model.NewMockModel("generic", nil), deps, ts, DefaultToolLoopLimit)

	reply, err := svc.SendTurn(ctx, "thread-1", "user-1", "Find me backend jobs")
	require.NoError(t, err)
	assert.Contains(t, reply, "Backend Engineer")
	assert.Equal(t, 2, mentorModel.Calls())

	// Only the user message and the final reply are durable.
	history, err := ts.History(ctx, "thread-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.RoleUser, history[0].Role)
	assert.Equal(t, "Find me backend jobs", history[0].Content)
	assert.Equal(t, core.RoleAssistant, history[1].Role)
	assert.Equal(t, reply, history[1].Content)
}

func TestService_GenericTurn(t *testing.T) {
	ts := transcript.NewInMemoryStore()
	mentorModel := model.NewMockModel("mentor", nil)
	svc := newTestService(t, "generic", mentorModel, model.NewMockModel("generic", nil), emptyDeps(), ts, DefaultToolLoopLimit)

	reply, err := svc.SendTurn(context.Background(), "thread-1", "user-1", "hey there")
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: hey there", reply)
	assert.Equal(t, 0, mentorModel.Calls())

	history, err := ts.History(context.Background(), "thread-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestService_HistoryCarriesAcrossTurns(t *testing.T) {
	var seen []int
	genericModel := model.NewMockModel("generic", func(_ context.Context, req model.Request) (model.Response, error) {
		seen = append(seen, len(req.Messages))
		return model.Response{Message: core.NewAssistantMessage("ok")}, nil
	})

	ts := transcript.NewInMemoryStore()
	svc := newTestService(t, "generic", model.NewMockModel("mentor", nil), genericModel, emptyDeps(), ts, DefaultToolLoopLimit)

	_, err := svc.SendTurn(context.Background(), "thread-1", "user-1", "first")
	require.NoError(t, err)
	_, err = svc.SendTurn(context.Background(), "thread-1", "user-1", "second")
	require.NoError(t, err)

	// Turn one sees only the new user message; turn two additionally sees
	// the two persisted messages of turn one.
	assert.Equal(t, []int{1, 3}, seen)
}

func TestService_ToolLoopLimitFailsTurn(t *testing.T) {
	jobs := &countingSearcher{}
	deps := emptyDeps()
	deps.Jobs = jobs

	// A mentor that never converges: every invocation requests another search.
	mentorModel := model.NewMockModel("mentor", func(context.Context, model.Request) (model.Response, error) {
		args, _ := json.Marshal(map[string]string{"query": "anything"})
		return model.Response{
			Message: core.NewAssistantMessage("", core.ToolCall{
				ID: "call_loop", Name: "search_jobs", Arguments: args,
			}),
		}, nil
	})

	ts := transcript.NewInMemoryStore()
	svc := newTestService(t, "mentor", mentorModel, model.NewMockModel("generic", nil), deps, ts, 3)

	_, err := svc.SendTurn(context.Background(), "thread-1", "user-1", "loop forever")
	require.Error(t, err)
	assert.True(t, errors.Is(err, workflow.ErrExhausted))

	// The tool round ran exactly up to the configured cap.
	assert.Equal(t, 3, jobs.count())

	// A failed turn leaves the thread untouched.
	history, err := ts.History(context.Background(), "thread-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestService_IdentityIsolationAcrossConcurrentTurns(t *testing.T) {
	const turns = 8

	profiles := stubProfiles{}
	for i := 0; i < turns; i++ {
		userID := fmt.Sprintf("user-%d", i)
		profiles[userID] = &store.Profile{
			ID:       userID,
			FullName: "Full Name of " + userID,
		}
	}
	deps := emptyDeps()
	deps.Profiles = profiles

	// The mentor fetches the caller's profile and echoes it back.
	mentorModel := model.NewMockModel("mentor", func(_ context.Context, req model.Request) (model.Response, error) {
		last, _ := core.LastMessage(req.Messages)
		if last.Role == core.RoleTool {
			return model.Response{Message: core.NewAssistantMessage(last.Content)}, nil
		}
		return model.Response{
			Message: core.NewAssistantMessage("", core.ToolCall{ID: "call_profile", Name: "user_full_profile"}),
		}, nil
	})

	ts := transcript.NewInMemoryStore()
	svc := newTestService(t, "mentor", mentorModel, model.NewMockModel("generic", nil), deps, ts, DefaultToolLoopLimit)

	g, ctx := errgroup.WithContext(context.Background())
	replies := make([]string, turns)
	for i := 0; i < turns; i++ {
		g.Go(func() error {
			reply, err := svc.SendTurn(ctx,
				fmt.Sprintf("thread-%d", i), fmt.Sprintf("user-%d", i), "who am I?")
			replies[i] = reply
			return err
		})
	}
	require.NoError(t, g.Wait())

	// Every turn saw exactly its own caller's data.
	for i, reply := range replies {
		assert.Contains(t, reply, fmt.Sprintf("Full Name of user-%d", i))
	}
}

func TestService_PersistenceFailureFailsTurn(t *testing.T) {
	ts := appendFailingStore{Store: transcript.NewInMemoryStore()}
	svc := newTestService(t, "generic", model.NewMockModel("mentor", nil), model.NewMockModel("generic", nil), emptyDeps(), ts, DefaultToolLoopLimit)

	_, err := svc.SendTurn(context.Background(), "thread-1", "user-1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist")
}

func TestService_EmptyReplyIsAnError(t *testing.T) {
	// A misbehaving backend that produces a non-assistant message.
	broken := model.NewMockModel("generic", func(context.Context, model.Request) (model.Response, error) {
		return model.Response{Message: core.Message{Role: core.RoleUser, Content: "?"}}, nil
	})

	ts := transcript.NewInMemoryStore()
	svc := newTestService(t, "generic", model.NewMockModel("mentor", nil), broken, emptyDeps(), ts, DefaultToolLoopLimit)

	_, err := svc.SendTurn(context.Background(), "thread-1", "user-1", "hello")
	assert.True(t, errors.Is(err, ErrEmptyReply))

	history, err := ts.History(context.Background(), "thread-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}
