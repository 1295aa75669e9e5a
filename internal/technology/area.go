package technology

import "encoding/json"

// ResearchArea is the research field of a technology. The four areas known
// to the base game have constants; any other text is kept verbatim so mods
// that add their own areas round-trip without loss.
type ResearchArea string

const (
	Society     ResearchArea = "society"
	Physics     ResearchArea = "physics"
	Engineering ResearchArea = "engineering"
	Anomaly     ResearchArea = "anomaly"

	// UnknownArea is used when a technology does not name its area.
	UnknownArea ResearchArea = "unknown"
)

// ParseResearchArea maps script text to an area.
func ParseResearchArea(s string) ResearchArea {
	if s == "" {
		return UnknownArea
	}
	return ResearchArea(s)
}

// Known reports whether a is one of the four built-in areas.
func (a ResearchArea) Known() bool {
	switch a {
	case Society, Physics, Engineering, Anomaly:
		return true
	}
	return false
}

func (a ResearchArea) String() string { return string(a) }

func (a ResearchArea) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

func (a *ResearchArea) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*a = ParseResearchArea(s)
	return nil
}

// Other returns the raw text of an area outside the built-in four.
func (a ResearchArea) Other() (string, bool) {
	if a.Known() {
		return "", false
	}
	return string(a), true
}
