package morris

import (
	"fmt"
	"strings"
)

type Phase int

const (
	Placing Phase = iota
	Moving
	Flying
	Discarding
	End
)

var phaseNames = map[Phase]string{
	Placing:    "placing",
	Moving:     "moving",
	Flying:     "flying",
	Discarding: "discarding",
	End:        "end",
}

var phaseTexts = map[Phase]string{
	Placing:    "Phase 1: Place your pieces",
	Moving:     "Phase 2: Move your pieces",
	Flying:     "Phase 3: Flying",
	Discarding: "DISCARD phase: discard opponent's token",
	End:        "GAME OVER",
}

func (phase Phase) String() string {
	if name, ok := phaseNames[phase]; ok {
		return name
	}

	return fmt.Sprintf("phase(%d)", int(phase))
}

// Text is the banner shown to players for the phase.
func (phase Phase) Text() string {
	return phaseTexts[phase]
}

func (phase Phase) MarshalText() ([]byte, error) {
	return []byte(phase.String()), nil
}

func (phase *Phase) UnmarshalText(text []byte) error {
	for candidate, name := range phaseNames {
		if strings.EqualFold(name, string(text)) {
			*phase = candidate
			return nil
		}
	}

	return fmt.Errorf("unknown phase %q", text)
}
