package search

import (
	"testing"

	"pkgscout/internal/domain"
)

func TestRankExactMatchWinsForFirefox(t *testing.T) {
	cfg := DefaultScoringConfig()
	records := []domain.PackageRecord{
		{Name: "firefox-esr", Description: "Extended support release of the Firefox browser", Source: domain.SourceAUR},
		{Name: "firefox", Description: "Fast, private and safe web browser", Source: domain.SourcePacman},
		{Name: "firefox-i18n-de", Description: "German language pack for Firefox", Source: domain.SourcePacman},
		{Name: "firefox-tridactyl", Description: "Vim-like keybindings extension for Firefox", Source: domain.SourceAUR},
	}

	ranked := Rank(cfg, "firefox", records, 5)
	if len(ranked) == 0 {
		t.Fatal("expected ranked candidates, got none")
	}
	if ranked[0].Record.Name != "firefox" {
		t.Errorf("top candidate = %q, want %q", ranked[0].Record.Name, "firefox")
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("scores not descending at %d: %d > %d", i, ranked[i].Score, ranked[i-1].Score)
		}
	}
	for _, c := range ranked {
		if c.Record.Name == "firefox-tridactyl" && c.Score >= ranked[0].Score {
			t.Errorf("extension package scored %d, should rank below %d", c.Score, ranked[0].Score)
		}
	}
}

func TestRankExcludesJunkRecords(t *testing.T) {
	cfg := DefaultScoringConfig()
	records := []domain.PackageRecord{
		{Name: "spotify", Description: "Music streaming client", Source: domain.SourceAUR},
		{Name: "spotify-dummy", Description: "Dummy package pointing at spotify", Source: domain.SourceAUR},
		{Name: "spotify-icon", Description: "Icon theme symlink wrapper for spotify", Source: domain.SourceAUR},
	}

	ranked := Rank(cfg, "spotify", records, 5)
	for _, c := range ranked {
		if c.Record.Name != "spotify" {
			t.Errorf("junk record %q survived ranking", c.Record.Name)
		}
	}
	if len(ranked) != 1 {
		t.Fatalf("got %d candidates, want 1", len(ranked))
	}
}

func TestScoreTreatsTokensAsSets(t *testing.T) {
	cfg := DefaultScoringConfig()
	record := domain.PackageRecord{
		Name:        "go-tools",
		Description: "go go tooling for the go language",
		Source:      domain.SourceAUR,
	}

	single := cfg.Score("go", record)
	repeated := cfg.Score("go go", record)
	if single != repeated {
		t.Errorf("Score(%q) = %d, Score(%q) = %d; repeated tokens must not double-count",
			"go", single, "go go", repeated)
	}
}

func TestRankRespectsLimit(t *testing.T) {
	cfg := DefaultScoringConfig()
	records := []domain.PackageRecord{
		{Name: "vim", Description: "Vi improved text editor", Source: domain.SourcePacman},
		{Name: "neovim", Description: "Hyperextensible vim-based text editor", Source: domain.SourcePacman},
		{Name: "gvim", Description: "Vi improved with a gui", Source: domain.SourceAUR},
		{Name: "vim-airline", Description: "Statusline for vim", Source: domain.SourceAUR},
	}

	ranked := Rank(cfg, "vim", records, 2)
	if len(ranked) != 2 {
		t.Fatalf("got %d candidates, want 2", len(ranked))
	}
}

func TestScorePrebuiltSuffixAndSourcePriority(t *testing.T) {
	cfg := DefaultScoringConfig()

	repo := cfg.Score("slack", domain.PackageRecord{Name: "slack-bin", Description: "Team chat client", Source: domain.SourceAUR})
	snap := cfg.Score("slack", domain.PackageRecord{Name: "slack-bin", Description: "Team chat client", Source: domain.SourceSnap})
	if repo <= snap {
		t.Errorf("aur score %d should exceed snap score %d for the same record", repo, snap)
	}

	plain := cfg.Score("slack", domain.PackageRecord{Name: "slack-desktop", Description: "Team chat client", Source: domain.SourceAUR})
	bin := cfg.Score("slack", domain.PackageRecord{Name: "slack-bin", Description: "Team chat client", Source: domain.SourceAUR})
	if bin <= plain {
		t.Errorf("-bin score %d should exceed source-build score %d", bin, plain)
	}
}

func TestScoreLowPriorityPenalty(t *testing.T) {
	cfg := DefaultScoringConfig()

	app := cfg.Score("docker", domain.PackageRecord{Name: "docker", Description: "Container runtime", Source: domain.SourcePacman})
	helper := cfg.Score("docker", domain.PackageRecord{Name: "docker-credential-helper", Description: "Credential helper daemon for docker", Source: domain.SourcePacman})
	if helper >= app {
		t.Errorf("helper score %d should be below application score %d", helper, app)
	}
}

func TestRankDropsNonPositiveScores(t *testing.T) {
	cfg := DefaultScoringConfig()
	records := []domain.PackageRecord{
		{Name: "unrelated-theme-patch", Description: "Theme patch helper daemon", Source: domain.SourceSnap},
	}
	if ranked := Rank(cfg, "firefox", records, 5); len(ranked) != 0 {
		t.Errorf("got %d candidates for unrelated low-priority record, want 0", len(ranked))
	}
}

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Firefox  ", "firefox"},
		{"Visual   Studio\tCode", "visual studio code"},
		{"GIMP", "gimp"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeQuery(tc.in); got != tc.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
