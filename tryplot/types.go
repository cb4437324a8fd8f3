// Package tryplot models the try-location plotting tool: a logical pitch,
// the tries placed on it, the breakdowns derived from them and the
// interaction state machine that drives placement and editing.
package tryplot

import "time"

// TryType is the way possession was won immediately before the try.
type TryType string

const (
	TypeLineout    TryType = "lineout"
	TypeScrum      TryType = "scrum"
	TypeTurnover   TryType = "turnover"
	TypeKickReturn TryType = "kick_return"
	TypePenalty    TryType = "penalty"
	TypeRestart    TryType = "restart"
)

// TypeInfo is the display metadata for a TryType.
type TypeInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var tryTypes = []TryType{
	TypeLineout,
	TypeScrum,
	TypeTurnover,
	TypeKickReturn,
	TypePenalty,
	TypeRestart,
}

var typeInfo = map[TryType]TypeInfo{
	TypeLineout:    {Label: "Lineout", Color: "#2563eb", Icon: "↑"},
	TypeScrum:      {Label: "Scrum", Color: "#16a34a", Icon: "⊕"},
	TypeTurnover:   {Label: "Turnover Won", Color: "#dc2626", Icon: "⇄"},
	TypeKickReturn: {Label: "Kick Return", Color: "#9333ea", Icon: "↩"},
	TypePenalty:    {Label: "Penalty", Color: "#ea580c", Icon: "!"},
	TypeRestart:    {Label: "Restart", Color: "#0891b2", Icon: "↻"},
}

// TryTypes returns every try type in display order.
func TryTypes() []TryType {
	out := make([]TryType, len(tryTypes))
	copy(out, tryTypes)
	return out
}

func (t TryType) Valid() bool {
	_, ok := typeInfo[t]
	return ok
}

func (t TryType) Info() TypeInfo {
	if info, ok := typeInfo[t]; ok {
		return info
	}
	return TypeInfo{Label: string(t), Color: "#6b7280", Icon: "?"}
}

func ParseTryType(s string) (TryType, error) {
	t := TryType(s)
	if !t.Valid() {
		return "", ErrUnknownTryType
	}
	return t, nil
}

type Team string

const (
	TeamHome Team = "home"
	TeamAway Team = "away"
)

var teams = []Team{TeamHome, TeamAway}

var teamInfo = map[Team]struct{ label, color string }{
	TeamHome: {"Home", "#1d4ed8"},
	TeamAway: {"Away", "#b91c1c"},
}

// Teams returns both teams, home first.
func Teams() []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}

func (t Team) Valid() bool {
	_, ok := teamInfo[t]
	return ok
}

func (t Team) Label() string {
	if info, ok := teamInfo[t]; ok {
		return info.label
	}
	return string(t)
}

func (t Team) Color() string {
	if info, ok := teamInfo[t]; ok {
		return info.color
	}
	return "#6b7280"
}

func ParseTeam(s string) (Team, error) {
	t := Team(s)
	if !t.Valid() {
		return "", ErrUnknownTeam
	}
	return t, nil
}

// Zone is one of the four longitudinal bands of the pitch.
type Zone string

const (
	ZoneDefending22      Zone = "defending_22"
	ZoneDefendingHalfway Zone = "defending_22_to_halfway"
	ZoneAttackingHalfway Zone = "attacking_22_to_halfway"
	ZoneAttacking22      Zone = "attacking_22"
)

var zones = []Zone{
	ZoneDefending22,
	ZoneDefendingHalfway,
	ZoneAttackingHalfway,
	ZoneAttacking22,
}

var zoneLabels = map[Zone]string{
	ZoneDefending22:      "Defending 22",
	ZoneDefendingHalfway: "Defending 22 to Halfway",
	ZoneAttackingHalfway: "Attacking 22 to Halfway",
	ZoneAttacking22:      "Attacking 22",
}

// Zones returns the four zones from the defending try line forwards.
func Zones() []Zone {
	out := make([]Zone, len(zones))
	copy(out, zones)
	return out
}

func (z Zone) Valid() bool {
	_, ok := zoneLabels[z]
	return ok
}

func (z Zone) Label() string {
	if l, ok := zoneLabels[z]; ok {
		return l
	}
	return string(z)
}

// Phase buckets the number of breakdowns before the try.
type Phase string

const (
	Phase1     Phase = "phase_1"
	Phase2To3  Phase = "phases_2_3"
	Phase4To6  Phase = "phases_4_6"
	Phase7Plus Phase = "phases_7_plus"
)

var phases = []Phase{Phase1, Phase2To3, Phase4To6, Phase7Plus}

var phaseLabels = map[Phase]string{
	Phase1:     "Phase 1",
	Phase2To3:  "Phases 2-3",
	Phase4To6:  "Phases 4-6",
	Phase7Plus: "Phases 7+",
}

// Phases returns the phase buckets from shallowest to deepest.
func Phases() []Phase {
	out := make([]Phase, len(phases))
	copy(out, phases)
	return out
}

func (p Phase) Valid() bool {
	_, ok := phaseLabels[p]
	return ok
}

func (p Phase) Label() string {
	if l, ok := phaseLabels[p]; ok {
		return l
	}
	return string(p)
}

func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !p.Valid() {
		return "", ErrUnknownPhase
	}
	return p, nil
}

// Quarters is the number of 20-minute match segments.
const Quarters = 4

func ValidQuarter(q int) bool {
	return q >= 1 && q <= Quarters
}

// TryEvent is one try placed on the pitch. X and Y are percentages of the
// pitch width and length; Zone is fixed from Y when the try is created.
type TryEvent struct {
	ID        string    `json:"id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Type      TryType   `json:"type"`
	Team      Team      `json:"team"`
	Zone      Zone      `json:"zone"`
	Quarter   int       `json:"quarter"`
	Phase     Phase     `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
}
