// Package harness replays scripted conversations against the controller.
//
// A scenario is a YAML file describing seeded reminders, a sequence of
// conversational events, and assertions on the final state. The harness
// replays the events through a convo.Controller backed by an in-memory
// store, records every reply in a transcript, and checks the assertions.
// Transcripts are compared against golden files, so a behavior change in
// any prompt, validation message, or flow ordering shows up as a readable
// diff.
//
// Scenario files live in testdata/scenarios, golden transcripts in
// testdata/golden. Regenerate goldens with:
//
//	go test ./internal/harness -update
package harness
