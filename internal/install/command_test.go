package install

import (
	"testing"

	"pkgscout/internal/domain"
)

func TestCommand(t *testing.T) {
	cases := []struct {
		name   string
		source domain.Source
		want   string
	}{
		{"firefox", domain.SourcePacman, "sudo pacman -S firefox"},
		{"firefox-nightly", domain.SourceAUR, "yay -S firefox-nightly"},
		{"firefox", domain.SourceAPT, "sudo apt install firefox"},
		{"firefox", domain.SourceDNF, "sudo dnf install firefox"},
		{"org.mozilla.firefox", domain.SourceFlatpak, "flatpak install flathub org.mozilla.firefox"},
		{"firefox", domain.SourceSnap, "sudo snap install firefox"},
		{"firefox", domain.Source("homebrew"), ""},
		{"", domain.SourcePacman, ""},
	}
	for _, tc := range cases {
		if got := Command(tc.name, tc.source); got != tc.want {
			t.Errorf("Command(%q, %q) = %q, want %q", tc.name, tc.source, got, tc.want)
		}
	}
}

func TestRemoveCommand(t *testing.T) {
	cases := []struct {
		name   string
		source domain.Source
		want   string
	}{
		{"firefox", domain.SourcePacman, "sudo pacman -R firefox"},
		{"org.mozilla.firefox", domain.SourceFlatpak, "flatpak uninstall org.mozilla.firefox"},
		{"firefox", domain.SourceSnap, "sudo snap remove firefox"},
		{"firefox", domain.Source("homebrew"), ""},
	}
	for _, tc := range cases {
		if got := RemoveCommand(tc.name, tc.source); got != tc.want {
			t.Errorf("RemoveCommand(%q, %q) = %q, want %q", tc.name, tc.source, got, tc.want)
		}
	}
}
