package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/careerpilot/careerpilot/core"
	"github.com/careerpilot/careerpilot/internal/util"
	"github.com/careerpilot/careerpilot/search"
	"github.com/careerpilot/careerpilot/store"
	"github.com/careerpilot/careerpilot/tool"
)

// maxSearchResults caps the ranked lists returned by the search tools.
const maxSearchResults = 20

// ToolDeps are the external collaborators the mentor tools call into.
type ToolDeps struct {
	Profiles     store.ProfileStore
	Applications store.ApplicationStore
	Reports      store.ReportStore
	Jobs         search.Searcher
	Resources    search.Searcher
}

type searchArgs struct {
	Query string `json:"query" description:"Free-text search query."`
}

var (
	noArgsSchema = util.SchemaFor(struct{}{})
	querySchema  = util.SchemaFor(searchArgs{})
)

// NewMentorTools builds the registry of tools exposed to the mentor agent.
// Every handler reads the caller identity from the ambient request context
// and treats "nothing found" as a normal, describable outcome so the agent
// can reason about absence in natural language.
func NewMentorTools(deps ToolDeps) (*tool.Registry, error) {
	specs := []struct {
		name, description string
		parameters        map[string]any
		fn                func(ctx context.Context, args map[string]any) (string, error)
	}{
		{
			"user_full_profile",
			"Get the user's full career profile: name, education, preferred career track and skills.",
			noArgsSchema,
			func(ctx context.Context, _ map[string]any) (string, error) {
				return userFullProfile(ctx, deps.Profiles)
			},
		},
		{
			"user_applied_jobs",
			"List the jobs the user has applied to, with job details.",
			noArgsSchema,
			func(ctx context.Context, _ map[string]any) (string, error) {
				return userAppliedJobs(ctx, deps.Applications)
			},
		},
		{
			"search_jobs",
			"Search for job opportunities based on the query.",
			querySchema,
			func(ctx context.Context, args map[string]any) (string, error) {
				return searchAsText(ctx, deps.Jobs, args, "jobs")
			},
		},
		{
			"search_resources",
			"Search for learning resources based on the query.",
			querySchema,
			func(ctx context.Context, args map[string]any) (string, error) {
				return searchAsText(ctx, deps.Resources, args, "learning resources")
			},
		},
		{
			"user_skill_gap_analysis_report",
			"Get the user's most recent skill gap analysis report.",
			noArgsSchema,
			func(ctx context.Context, _ map[string]any) (string, error) {
				return latestReport(ctx, func(ctx context.Context, userID string) (*store.Report, error) {
					return deps.Reports.LatestSkillGapReport(ctx, userID)
				}, "skill gap analysis report")
			},
		},
		{
			"user_career_roadmap_analysis",
			"Get the user's most recent career roadmap analysis.",
			noArgsSchema,
			func(ctx context.Context, _ map[string]any) (string, error) {
				return latestReport(ctx, func(ctx context.Context, userID string) (*store.Report, error) {
					return deps.Reports.LatestCareerRoadmap(ctx, userID)
				}, "career roadmap analysis")
			},
		},
	}

	tools := make([]tool.Tool, 0, len(specs))
	for _, spec := range specs {
		t, err := tool.NewFunctionTool(spec.name, spec.description, spec.parameters, spec.fn)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tool.NewRegistry(tools...)
}

func userFullProfile(ctx context.Context, profiles store.ProfileStore) (string, error) {
	id, ok := core.IdentityFromContext(ctx)
	if !ok {
		return "No user identity is available for this conversation, so the profile cannot be looked up.", nil
	}

	profile, err := profiles.GetProfile(ctx, id.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return "No profile exists for this user yet. Ask them to complete their profile first.", nil
	}
	if err != nil {
		return "", err
	}

	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	return string(out), nil
}

func userAppliedJobs(ctx context.Context, applications store.ApplicationStore) (string, error) {
	id, ok := core.IdentityFromContext(ctx)
	if !ok {
		return "No user identity is available for this conversation, so applications cannot be looked up.", nil
	}

	apps, err := applications.ListApplications(ctx, id.UserID)
	if err != nil {
		return "", err
	}
	if len(apps) == 0 {
		return "The user has not applied to any jobs yet.", nil
	}

	out, err := json.MarshalIndent(apps, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode applications: %w", err)
	}
	return string(out), nil
}

func searchAsText(ctx context.Context, searcher search.Searcher, args map[string]any, what string) (string, error) {
	query, _ := args["query"].(string)

	hits, err := searcher.Search(ctx, query, maxSearchResults)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return fmt.Sprintf("No %s matched the query %q.", what, query), nil
	}

	out, err := json.MarshalIndent(hits, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode search results: %w", err)
	}
	return string(out), nil
}

func latestReport(
	ctx context.Context,
	fetch func(ctx context.Context, userID string) (*store.Report, error),
	what string,
) (string, error) {
	id, ok := core.IdentityFromContext(ctx)
	if !ok {
		return fmt.Sprintf("No user identity is available for this conversation, so the %s cannot be looked up.", what), nil
	}

	report, err := fetch(ctx, id.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("No %s has been generated for this user yet. They should generate one first.", what), nil
	}
	if err != nil {
		return "", err
	}
	return report.Content, nil
}
