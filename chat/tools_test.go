package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpilot/careerpilot/core"
	"github.com/careerpilot/careerpilot/store"
)

func identityCtx(userID string) context.Context {
	return core.WithIdentity(context.Background(), core.Identity{UserID: userID, ThreadID: "thread-1"})
}

func TestMentorTools_RegistersAllTools(t *testing.T) {
	registry, err := NewMentorTools(emptyDeps())
	require.NoError(t, err)
	assert.Equal(t, 6, registry.Len())

	for _, name := range []string{
		"user_full_profile",
		"user_applied_jobs",
		"search_jobs",
		"search_resources",
		"user_skill_gap_analysis_report",
		"user_career_roadmap_analysis",
	} {
		_, ok := registry.Get(name)
		assert.True(t, ok, name)
	}
}

func TestUserFullProfile_ReturnsProfileJSON(t *testing.T) {
	profiles := stubProfiles{"user-1": {
		ID:                   "user-1",
		FullName:             "Ada Lovelace",
		PreferredCareerTrack: "Backend Engineering",
		Skills:               []string{"Go", "SQL"},
	}}

	out, err := userFullProfile(identityCtx("user-1"), profiles)
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Backend Engineering")
}

func TestUserFullProfile_MissingIdentity(t *testing.T) {
	out, err := userFullProfile(context.Background(), stubProfiles{})
	require.NoError(t, err)
	assert.Contains(t, out, "No user identity")
}

func TestUserFullProfile_NotFound(t *testing.T) {
	out, err := userFullProfile(identityCtx("ghost"), stubProfiles{})
	require.NoError(t, err)
	assert.Contains(t, out, "No profile exists")
}

func TestUserAppliedJobs_Empty(t *testing.T) {
	out, err := userAppliedJobs(identityCtx("user-1"), stubApplications{})
	require.NoError(t, err)
	assert.Contains(t, out, "not applied to any jobs")
}

func TestUserAppliedJobs_ListsApplications(t *testing.T) {
	apps := stubApplications{
		{ID: "app-1", JobTitle: "Backend Engineer", Company: "Acme"},
	}
	out, err := userAppliedJobs(identityCtx("user-1"), apps)
	require.NoError(t, err)
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "Acme")
}

func TestLatestReport_NotGeneratedYet(t *testing.T) {
	out, err := latestReport(identityCtx("user-1"),
		func(ctx context.Context, userID string) (*store.Report, error) {
			return nil, store.ErrNotFound
		}, "skill gap analysis report")
	require.NoError(t, err)
	assert.Contains(t, out, "No skill gap analysis report has been generated")
}

func TestLatestReport_ReturnsContent(t *testing.T) {
	out, err := latestReport(identityCtx("user-1"),
		func(ctx context.Context, userID string) (*store.Report, error) {
			return &store.Report{UserID: userID, Content: "Focus on distributed systems."}, nil
		}, "career roadmap analysis")
	require.NoError(t, err)
	assert.Equal(t, "Focus on distributed systems.", out)
}

func TestPrompts_AllEmbedded(t *testing.T) {
	for _, name := range []string{"router", "mentor", "generic"} {
		text, err := Prompt(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, text, name)
	}

	_, err := Prompt("nonexistent")
	assert.Error(t, err)
}
