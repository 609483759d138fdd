package complete

import "pkgscout/internal/domain"

// Entry is one completable package in the catalog.
type Entry struct {
	Name        string
	Description string
	Source      domain.Source
}

// DefaultAliases maps colloquial names and common typos-of-intent onto
// canonical package names. An alias lookup short-circuits the trie entirely.
func DefaultAliases() map[string]string {
	return map[string]string{
		"vscode": "visual-studio-code",
		"code":   "visual-studio-code",
		"vsc":    "visual-studio-code",

		"chrome": "google-chrome",
		"ff":     "firefox",
		"brave":  "brave-bin",

		"vim":  "gvim",
		"nvim": "neovim",
		"node": "nodejs",
		"npm":  "nodejs-npm",
		"yarn": "yarn",

		"vlc": "vlc",
		"mpv": "mpv",

		"libre":  "libreoffice-fresh",
		"office": "libreoffice-fresh",
		"word":   "libreoffice-fresh",
		"excel":  "libreoffice-fresh",

		"gimp":        "gimp",
		"photoshop":   "gimp",
		"inkscape":    "inkscape",
		"illustrator": "inkscape",

		"steam": "steam",
		"wine":  "wine",

		"htop":     "htop",
		"top":      "htop",
		"neofetch": "neofetch",
		"fetch":    "neofetch",

		"discord":  "discord",
		"telegram": "telegram-desktop",
		"signal":   "signal-desktop",
		"slack":    "slack-desktop",
		"zoom":     "zoom",
		"teams":    "teams",

		"spotify":  "spotify",
		"audacity": "audacity",
		"music":    "vlc",

		"kdenlive":   "kdenlive",
		"shotcut":    "shotcut",
		"openshot":   "openshot",
		"obs":        "obs-studio",
		"obs-studio": "obs-studio",

		"nano":    "nano",
		"emacs":   "emacs",
		"sublime": "sublime-text",
		"atom":    "atom",

		"curl":   "curl",
		"wget":   "wget",
		"git":    "git",
		"docker": "docker",
		"python": "python",
		"pip":    "python-pip",
	}
}

// DefaultCatalog returns the seed catalog of widely installed desktop and
// CLI packages. It is intentionally static: completion must answer in
// milliseconds and cannot wait on live source queries.
func DefaultCatalog() []Entry {
	return []Entry{
		{"kdenlive", "Professional video editor", domain.SourcePacman},
		{"shotcut", "Free, open-source video editor", domain.SourcePacman},
		{"openshot", "Simple video editor", domain.SourcePacman},
		{"obs-studio", "Live streaming and recording software", domain.SourcePacman},
		{"davinci-resolve", "Professional video editing software", domain.SourceAUR},
		{"blender", "3D creation suite", domain.SourcePacman},

		{"libreoffice-fresh", "Complete office suite", domain.SourcePacman},
		{"onlyoffice-bin", "Office suite with online collaboration", domain.SourceAUR},
		{"wps-office", "WPS Office suite", domain.SourceAUR},
		{"calligra", "KDE office suite", domain.SourcePacman},

		{"audacity", "Audio editor and recorder", domain.SourcePacman},
		{"vlc", "Media player", domain.SourcePacman},
		{"lmms", "Digital audio workstation", domain.SourcePacman},
		{"ardour", "Digital audio workstation", domain.SourcePacman},
		{"reaper", "Digital audio workstation", domain.SourceAUR},
		{"musescore", "Music notation software", domain.SourcePacman},
		{"spotify", "Music streaming service", domain.SourceAUR},

		{"visual-studio-code", "Code editor by Microsoft", domain.SourceAUR},
		{"vscode", "Code editor by Microsoft", domain.SourceAUR},
		{"neovim", "Vim-based text editor", domain.SourcePacman},
		{"intellij-idea-community", "Java IDE", domain.SourcePacman},
		{"android-studio", "Android development IDE", domain.SourceAUR},
		{"sublime-text", "Text editor", domain.SourceAUR},
		{"atom", "Text editor", domain.SourceAUR},
		{"codeblocks", "C/C++ IDE", domain.SourcePacman},
		{"qtcreator", "Qt development IDE", domain.SourcePacman},

		{"gimp", "Image editor", domain.SourcePacman},
		{"inkscape", "Vector graphics editor", domain.SourcePacman},
		{"krita", "Digital painting application", domain.SourcePacman},
		{"darktable", "Photo workflow application", domain.SourcePacman},
		{"rawtherapee", "Raw photo processor", domain.SourcePacman},

		{"steam", "Gaming platform", domain.SourcePacman},
		{"lutris", "Gaming platform", domain.SourcePacman},
		{"wine", "Windows compatibility layer", domain.SourcePacman},
		{"playonlinux", "Wine frontend", domain.SourcePacman},
		{"retroarch", "Retro gaming emulator", domain.SourcePacman},

		{"firefox", "Web browser", domain.SourcePacman},
		{"chromium", "Web browser", domain.SourcePacman},
		{"google-chrome", "Web browser", domain.SourceAUR},
		{"brave-bin", "Privacy-focused browser", domain.SourceAUR},
		{"vivaldi", "Web browser", domain.SourceAUR},
		{"opera", "Web browser", domain.SourceAUR},

		{"discord", "Voice and text chat", domain.SourceAUR},
		{"telegram-desktop", "Messaging app", domain.SourcePacman},
		{"signal-desktop", "Secure messaging", domain.SourceAUR},
		{"slack-desktop", "Team communication", domain.SourceAUR},
		{"zoom", "Video conferencing", domain.SourceAUR},
		{"teams", "Microsoft Teams", domain.SourceAUR},

		{"git", "Version control system", domain.SourcePacman},
		{"docker", "Container platform", domain.SourcePacman},
		{"docker-compose", "Docker orchestration", domain.SourcePacman},
		{"nodejs", "JavaScript runtime", domain.SourcePacman},
		{"python", "Python interpreter", domain.SourcePacman},
		{"go", "Go programming language", domain.SourcePacman},
		{"rust", "Rust programming language", domain.SourcePacman},
		{"clang", "C/C++ compiler", domain.SourcePacman},
		{"gcc", "GNU compiler collection", domain.SourcePacman},

		{"htop", "Interactive process viewer", domain.SourcePacman},
		{"neofetch", "System information tool", domain.SourcePacman},
		{"timeshift", "System restore tool", domain.SourceAUR},
		{"gparted", "Disk partitioning tool", domain.SourcePacman},
		{"gnome-disk-utility", "Disk utility", domain.SourcePacman},
		{"system-monitor", "System monitor", domain.SourcePacman},

		{"vim", "Text editor", domain.SourcePacman},
		{"emacs", "Text editor", domain.SourcePacman},
		{"nano", "Text editor", domain.SourcePacman},
		{"micro", "Text editor", domain.SourcePacman},
		{"kate", "Text editor", domain.SourcePacman},
		{"gedit", "Text editor", domain.SourcePacman},

		{"mpv", "Media player", domain.SourcePacman},
		{"smplayer", "Media player", domain.SourcePacman},
		{"rhythmbox", "Music player", domain.SourcePacman},
		{"youtube-dl", "Video downloader", domain.SourcePacman},

		{"curl", "Data transfer tool", domain.SourcePacman},
		{"wget", "File downloader", domain.SourcePacman},
		{"unzip", "Archive extractor", domain.SourcePacman},
		{"zip", "Archive creator", domain.SourcePacman},
		{"tar", "Archive tool", domain.SourcePacman},
		{"rsync", "File synchronization", domain.SourcePacman},
		{"tree", "Directory tree viewer", domain.SourcePacman},
		{"bat", "Cat clone with syntax highlighting", domain.SourcePacman},
		{"exa", "Modern ls replacement", domain.SourcePacman},
	}
}
