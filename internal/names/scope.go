package names

import "fmt"

// Mode is the view the engine is backing.
type Mode string

const (
	ModeTournament Mode = "tournament"
	ModeProfile    Mode = "profile"
)

// ParseMode accepts "tournament" or "profile".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTournament, ModeProfile:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Scope is the closed combination of mode and the analysis overlay. Only
// three values exist; the overlay has no meaning in profile mode.
type Scope int

const (
	ScopeTournament Scope = iota
	ScopeTournamentAnalysis
	ScopeProfile
)

// ScopeOf folds (mode, analysis) into a Scope.
func ScopeOf(mode Mode, analysis bool) Scope {
	if mode == ModeProfile {
		return ScopeProfile
	}
	if analysis {
		return ScopeTournamentAnalysis
	}
	return ScopeTournament
}

// Mode returns the mode the scope belongs to.
func (s Scope) Mode() Mode {
	if s == ScopeProfile {
		return ModeProfile
	}
	return ModeTournament
}

func (s Scope) String() string {
	switch s {
	case ScopeTournament:
		return "tournament"
	case ScopeTournamentAnalysis:
		return "tournament+analysis"
	case ScopeProfile:
		return "profile"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// Rules is everything that differs between scopes.
type Rules struct {
	// FullFilters admits the profile-style filter fields (status, user,
	// selection, date) on top of search/category/sort.
	FullFilters bool
	// ForceVisible hides hidden items no matter what the filter says.
	ForceVisible bool
	// Persist enables outbound selection saves.
	Persist bool
}

// Rules is the one place scope-dependent behaviour is decided.
func (s Scope) Rules() Rules {
	switch s {
	case ScopeTournament:
		return Rules{FullFilters: false, ForceVisible: true, Persist: true}
	case ScopeTournamentAnalysis:
		return Rules{FullFilters: true, ForceVisible: false, Persist: true}
	case ScopeProfile:
		return Rules{FullFilters: true, ForceVisible: false, Persist: false}
	}
	panic(fmt.Sprintf("names: unhandled scope %d", int(s)))
}
