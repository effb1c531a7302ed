package ui

import "profview/internal/profile"

type profileLoadedMsg struct {
	profile *profile.Profile
	source  string
	err     error
}
