// Package install generates the shell commands to install or remove a
// package from a given source.
package install

import "pkgscout/internal/domain"

var installTemplates = map[domain.Source]string{
	domain.SourcePacman:  "sudo pacman -S ",
	domain.SourceAUR:     "yay -S ",
	domain.SourceAPT:     "sudo apt install ",
	domain.SourceDNF:     "sudo dnf install ",
	domain.SourceFlatpak: "flatpak install flathub ",
	domain.SourceSnap:    "sudo snap install ",
}

var removeTemplates = map[domain.Source]string{
	domain.SourcePacman:  "sudo pacman -R ",
	domain.SourceAUR:     "yay -R ",
	domain.SourceAPT:     "sudo apt remove ",
	domain.SourceDNF:     "sudo dnf remove ",
	domain.SourceFlatpak: "flatpak uninstall ",
	domain.SourceSnap:    "sudo snap remove ",
}

// Command returns the install command for the package, or "" when the
// source is unknown.
func Command(name string, source domain.Source) string {
	prefix, ok := installTemplates[source]
	if !ok || name == "" {
		return ""
	}
	return prefix + name
}

// RemoveCommand returns the uninstall command for the package, or "" when
// the source is unknown.
func RemoveCommand(name string, source domain.Source) string {
	prefix, ok := removeTemplates[source]
	if !ok || name == "" {
		return ""
	}
	return prefix + name
}
