package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/riskibarqy/diamond-odds/internal/domain/team"
	"gopkg.in/yaml.v3"
)

// TeamMatcher maps a feed team name onto a canonical team. Matchers run as a
// chain; the first hit wins.
type TeamMatcher interface {
	Name() string
	Match(ctx context.Context, externalName string) (team.Team, bool, error)
}

type teamNameReader interface {
	List(ctx context.Context) ([]team.Team, error)
	GetByName(ctx context.Context, name string) (team.Team, bool, error)
}

// ExactTeamMatcher compares the stored name case-sensitively.
type ExactTeamMatcher struct {
	repo teamNameReader
}

func NewExactTeamMatcher(repo teamNameReader) *ExactTeamMatcher {
	return &ExactTeamMatcher{repo: repo}
}

func (m *ExactTeamMatcher) Name() string { return "exact" }

func (m *ExactTeamMatcher) Match(ctx context.Context, externalName string) (team.Team, bool, error) {
	if externalName == "" {
		return team.Team{}, false, nil
	}
	return m.repo.GetByName(ctx, externalName)
}

// NormalizedTeamMatcher folds case, punctuation and whitespace before comparing,
// so "St. Louis Cardinals" matches "St Louis Cardinals".
type NormalizedTeamMatcher struct {
	repo teamNameReader
}

func NewNormalizedTeamMatcher(repo teamNameReader) *NormalizedTeamMatcher {
	return &NormalizedTeamMatcher{repo: repo}
}

func (m *NormalizedTeamMatcher) Name() string { return "normalized" }

func (m *NormalizedTeamMatcher) Match(ctx context.Context, externalName string) (team.Team, bool, error) {
	key := normalizeTeamName(externalName)
	if key == "" {
		return team.Team{}, false, nil
	}

	teams, err := m.repo.List(ctx)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("list teams: %w", err)
	}
	for _, item := range teams {
		if normalizeTeamName(item.Name) == key {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

// AliasTeamMatcher resolves names through a manually maintained alias table,
// e.g. "Athletics" -> "Oakland Athletics".
type AliasTeamMatcher struct {
	repo    teamNameReader
	aliases map[string]string
}

func NewAliasTeamMatcher(repo teamNameReader, aliases map[string]string) *AliasTeamMatcher {
	index := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		key := normalizeTeamName(alias)
		canonical = strings.TrimSpace(canonical)
		if key == "" || canonical == "" {
			continue
		}
		index[key] = canonical
	}
	return &AliasTeamMatcher{repo: repo, aliases: index}
}

func (m *AliasTeamMatcher) Name() string { return "alias" }

func (m *AliasTeamMatcher) Match(ctx context.Context, externalName string) (team.Team, bool, error) {
	canonical, ok := m.aliases[normalizeTeamName(externalName)]
	if !ok {
		return team.Team{}, false, nil
	}
	return m.repo.GetByName(ctx, canonical)
}

type teamAliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadTeamAliases reads an alias table of the form:
//
//	aliases:
//	  "NY Yankees": "New York Yankees"
func LoadTeamAliases(path string) (map[string]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read team alias file: %w", err)
	}

	var doc teamAliasFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse team alias file %s: %w", path, err)
	}
	return doc.Aliases, nil
}

func normalizeTeamName(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}

	var builder strings.Builder
	lastSpace := false
	for _, r := range value {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			builder.WriteRune(r)
			lastSpace = false
		case r == '.' || r == '\'':
			// "St. Louis" and "St Louis" fold to the same key.
		default:
			if !lastSpace {
				builder.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(builder.String())
}
