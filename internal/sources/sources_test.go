package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pkgscout/internal/domain"
)

const pacmanFixture = `extra/firefox 128.0-1
    Fast, Private & Safe Web Browser
extra/firefox-i18n-de 128.0-1
    German language pack for Firefox
community/firefox-tridactyl 1.24.1-1 [installed]
    Vim-like keybindings for Firefox
`

func TestParsePacmanOutput(t *testing.T) {
	records := parsePacmanOutput(pacmanFixture)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Name != "firefox" {
		t.Errorf("records[0].Name = %q, want firefox", records[0].Name)
	}
	if records[0].Description != "Fast, Private & Safe Web Browser" {
		t.Errorf("records[0].Description = %q", records[0].Description)
	}
	if records[2].Name != "firefox-tridactyl" {
		t.Errorf("records[2].Name = %q, want firefox-tridactyl", records[2].Name)
	}
	for _, r := range records {
		if r.Source != domain.SourcePacman {
			t.Errorf("record %q has source %q", r.Name, r.Source)
		}
	}
}

func TestParsePacmanOutputEmpty(t *testing.T) {
	if records := parsePacmanOutput(""); records != nil {
		t.Errorf("got %d records for empty output", len(records))
	}
}

const aptFixture = `firefox - Safe and easy web browser from Mozilla
firefox-locale-de - Mozilla Firefox - German language/region package
fonts-lyx - TrueType versions of some TeX fonts
`

func TestParseAPTOutput(t *testing.T) {
	records := parseAPTOutput(aptFixture)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Name != "firefox" {
		t.Errorf("records[0].Name = %q, want firefox", records[0].Name)
	}
	if records[1].Description != "Mozilla Firefox - German language/region package" {
		t.Errorf("records[1].Description = %q", records[1].Description)
	}
}

const dnfFixture = `Last metadata expiration check: 0:20:12 ago on Mon Aug 25 10:14:22 2026.
==================== Name Exactly Matched: firefox ====================
firefox.x86_64 : Mozilla Firefox Web browser
==================== Name & Summary Matched: firefox ====================
firefox-langpacks.x86_64 : Langpacks for Firefox
mozilla-noscript.noarch : JavaScript white list extension for Firefox
`

func TestParseDNFOutput(t *testing.T) {
	records := parseDNFOutput(dnfFixture)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Name != "firefox" {
		t.Errorf("records[0].Name = %q, want firefox (arch suffix stripped)", records[0].Name)
	}
	if records[1].Name != "firefox-langpacks" {
		t.Errorf("records[1].Name = %q, want firefox-langpacks", records[1].Name)
	}
	if records[0].Description != "Mozilla Firefox Web browser" {
		t.Errorf("records[0].Description = %q", records[0].Description)
	}
}

const flatpakFixture = "Firefox\tFast, Private & Safe Web Browser\torg.mozilla.firefox\n" +
	"LibreWolf\tA fork of Firefox\tio.gitlab.librewolf-community\n" +
	"incomplete line without tabs\n"

func TestParseFlatpakOutput(t *testing.T) {
	records := parseFlatpakOutput(flatpakFixture)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "org.mozilla.firefox" {
		t.Errorf("records[0].Name = %q, want the application ID", records[0].Name)
	}
	if records[0].Description != "Firefox - Fast, Private & Safe Web Browser" {
		t.Errorf("records[0].Description = %q", records[0].Description)
	}
}

const snapFixture = `Name      Version     Publisher  Notes  Summary
firefox   128.0-2     mozilla**  -      Mozilla Firefox web browser
brave     1.68.128    brave**    -      Browse faster and safer with Brave
`

func TestParseSnapOutput(t *testing.T) {
	records := parseSnapOutput(snapFixture)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "firefox" {
		t.Errorf("records[0].Name = %q, want firefox", records[0].Name)
	}
	if !strings.Contains(records[0].Description, "Mozilla Firefox web browser") {
		t.Errorf("records[0].Description = %q", records[0].Description)
	}
}

func TestParseSnapOutputTruncatesDescription(t *testing.T) {
	long := "verbose " + strings.Repeat("word ", 40)
	out := "Name Version Publisher Notes Summary\npkg " + long + "\n"
	records := parseSnapOutput(out)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if len(records[0].Description) > snapDescriptionLimit+3 {
		t.Errorf("description length %d exceeds limit", len(records[0].Description))
	}
	if !strings.HasSuffix(records[0].Description, "...") {
		t.Error("truncated description should end with ellipsis")
	}
}

func stubRunner(stdout string, exitCode int, err error) commandRunner {
	return func(ctx context.Context, name string, args ...string) (string, int, error) {
		return stdout, exitCode, err
	}
}

func TestAdaptersTreatExitCodeOneAsNoMatches(t *testing.T) {
	noMatches := stubRunner("", 1, errors.New(""))
	ctx := context.Background()

	pacman := NewPacman()
	pacman.run = noMatches
	if records, err := pacman.Search(ctx, "nosuchpkg"); err != nil || records != nil {
		t.Errorf("pacman: records=%v err=%v, want empty and nil", records, err)
	}

	dnf := NewDNF()
	dnf.run = noMatches
	if records, err := dnf.Search(ctx, "nosuchpkg"); err != nil || records != nil {
		t.Errorf("dnf: records=%v err=%v, want empty and nil", records, err)
	}

	snap := NewSnap()
	snap.run = noMatches
	if records, err := snap.Search(ctx, "nosuchpkg"); err != nil || records != nil {
		t.Errorf("snap: records=%v err=%v, want empty and nil", records, err)
	}

	flatpak := NewFlatpak()
	flatpak.run = noMatches
	if records, err := flatpak.Search(ctx, "nosuchpkg"); err != nil || records != nil {
		t.Errorf("flatpak: records=%v err=%v, want empty and nil", records, err)
	}
}

func TestDNFClassifiesNetworkFailure(t *testing.T) {
	dnf := NewDNF()
	dnf.run = stubRunner("", 2, errors.New("Cannot retrieve metalink for repository: fedora"))

	_, err := dnf.Search(context.Background(), "firefox")
	if err == nil {
		t.Fatal("expected an error")
	}
	if kind := domain.ClassifyFailure(err); kind != domain.FailureNetwork {
		t.Errorf("failure kind = %q, want %q", kind, domain.FailureNetwork)
	}
}

func TestAPTTreatsUnableToLocateAsNoMatches(t *testing.T) {
	apt := NewAPT()
	apt.run = stubRunner("", 100, errors.New("E: Unable to locate package nosuchpkg"))

	records, err := apt.Search(context.Background(), "nosuchpkg")
	if err != nil || records != nil {
		t.Errorf("records=%v err=%v, want empty and nil", records, err)
	}
}

func TestAURSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "search" {
			t.Errorf("type = %q, want search", got)
		}
		if got := r.URL.Query().Get("arg"); got != "firefox" {
			t.Errorf("arg = %q, want firefox", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"type": "search",
			"resultcount": 2,
			"results": [
				{"Name": "firefox-nightly", "Description": "Standalone Nightly build"},
				{"Name": "firefox-esr-bin", "Description": null}
			]
		}`))
	}))
	defer srv.Close()

	aur := NewAUR(AURConfig{Endpoint: srv.URL, Client: srv.Client()})
	records, err := aur.Search(context.Background(), "firefox")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "firefox-nightly" {
		t.Errorf("records[0].Name = %q", records[0].Name)
	}
	if records[1].Description != "No description" {
		t.Errorf("missing description not defaulted: %q", records[1].Description)
	}
}

func TestAURSearchErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "error", "error": "Too many package results."}`))
	}))
	defer srv.Close()

	aur := NewAUR(AURConfig{Endpoint: srv.URL, Client: srv.Client()})
	_, err := aur.Search(context.Background(), "a")
	if err == nil || !strings.Contains(err.Error(), "Too many package results") {
		t.Errorf("err = %v, want the AUR error message", err)
	}
}

func TestAURSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	aur := NewAUR(AURConfig{Endpoint: srv.URL, Client: srv.Client()})
	_, err := aur.Search(context.Background(), "firefox")
	if err == nil {
		t.Fatal("expected an error for HTTP 502")
	}
	if kind := domain.ClassifyFailure(err); kind != domain.FailureNetwork {
		t.Errorf("failure kind = %q, want %q", kind, domain.FailureNetwork)
	}
}
