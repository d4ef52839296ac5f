package harness

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden replays a scenario and compares its transcript against the
// golden file testdata/golden/{scenario.Name}.golden.
//
// The scenario's own assertions run first; the golden comparison then
// catches any drift in prompts, validation messages or flow ordering.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, []byte(renderTranscript(result)))
	return nil
}

// renderTranscript formats a result as the golden transcript text.
// Events print as ">> label", each reply line as "<< line", a silent
// reply as "<< (silence)", and a validation re-prompt adds "!! reprompt".
func renderTranscript(result *Result) string {
	var b strings.Builder
	b.WriteString("scenario: " + result.Scenario.Name + "\n")
	for _, ex := range result.Transcript {
		b.WriteString(">> " + ex.Label + "\n")
		if ex.Reply.None() {
			b.WriteString("<< (silence)\n")
			continue
		}
		for _, line := range strings.Split(ex.Reply.Text, "\n") {
			if line == "" {
				b.WriteString("<<\n")
				continue
			}
			b.WriteString("<< " + line + "\n")
		}
		if ex.Reply.Reprompt {
			b.WriteString("!! reprompt\n")
		}
	}
	return b.String()
}
