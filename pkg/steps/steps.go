// Package steps binds the harness to godog scenarios.
//
//	func InitializeScenario(sc *godog.ScenarioContext) {
//	    steps.Register(sc, h)
//	}
//
// Sentences:
//
//	Given wiremock stub:
//	  """
//	  {"request": {...}, "response": {...}}
//	  """
//	Given wiremock stubs from "checkout"
//	Given clean wiremock
//	Then all stubs should be matched
//	Given start wiremock recording with redirection to "https://api.example.com"
//	Then stop wiremock recording
//	Then stop wiremock recording and save mocks to "recorded/checkout"
package steps

import (
	"context"

	"github.com/cucumber/godog"

	"github.com/getmockd/wirecheck/pkg/harness"
)

// Step expressions.
const (
	StepStub                 = `^wiremock stub:$`
	StepStubsFrom            = `^wiremock stubs from "([^"]+)"$`
	StepClean                = `^clean wiremock$`
	StepAllStubsMatched      = `^all stubs should be matched$`
	StepStartRecording       = `^start wiremock recording with redirection to "([^"]+)"$`
	StepStopRecording        = `^stop wiremock recording$`
	StepStopRecordingAndSave = `^stop wiremock recording and save mocks to "([^"]+)"$`
)

// Register adds the harness steps and a Before hook that prepares h for
// each scenario.
func Register(sc *godog.ScenarioContext, h *harness.Harness) {
	s := &stepContext{h: h}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, h.BeforeScenario(ctx)
	})

	sc.Step(StepStub, s.addStub)
	sc.Step(StepStubsFrom, s.addStubsFrom)
	sc.Step(StepClean, s.clean)
	sc.Step(StepAllStubsMatched, s.allStubsMatched)
	sc.Step(StepStartRecording, s.startRecording)
	sc.Step(StepStopRecording, s.stopRecording)
	sc.Step(StepStopRecordingAndSave, s.stopRecordingAndSave)
}

type stepContext struct {
	h *harness.Harness
}

func (s *stepContext) addStub(ctx context.Context, doc *godog.DocString) error {
	_, err := s.h.AddStub(ctx, []byte(doc.Content))
	return err
}

func (s *stepContext) addStubsFrom(ctx context.Context, path string) error {
	_, err := s.h.AddStubsFromPath(ctx, path)
	return err
}

func (s *stepContext) clean(ctx context.Context) error {
	return s.h.Clean(ctx)
}

func (s *stepContext) allStubsMatched(ctx context.Context) error {
	return s.h.VerifyAllStubsMatched(ctx)
}

func (s *stepContext) startRecording(ctx context.Context, target string) error {
	return s.h.StartRecording(ctx, target)
}

func (s *stepContext) stopRecording(ctx context.Context) error {
	_, err := s.h.StopRecording(ctx)
	return err
}

func (s *stepContext) stopRecordingAndSave(ctx context.Context, path string) error {
	_, err := s.h.StopRecordingAndSave(ctx, path)
	return err
}
