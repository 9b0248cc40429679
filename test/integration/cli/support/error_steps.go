package support

import (
	"fmt"

	"github.com/cucumber/godog"
)

// theErrorShouldMentionAnUnknownFlag verifies cobra's unknown flag error.
func (testCtx *TestContext) theErrorShouldMentionAnUnknownFlag() error {
	return testCtx.theErrorShouldMention("unknown flag")
}

// theErrorShouldMentionAnInvalidFormat verifies the output format validation error.
func (testCtx *TestContext) theErrorShouldMentionAnInvalidFormat() error {
	return testCtx.theErrorShouldMention("invalid output format")
}

// theExitCodeShouldBeNonZero verifies the process exited with a failure code.
func (testCtx *TestContext) theExitCodeShouldBeNonZero() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("expected non-zero exit code\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// RegisterErrorSteps registers error verification step definitions.
func (testCtx *TestContext) RegisterErrorSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
	sc.Step(`^the error should mention an unknown flag$`, testCtx.theErrorShouldMentionAnUnknownFlag)
	sc.Step(`^the error should mention an invalid format$`, testCtx.theErrorShouldMentionAnInvalidFormat)
	sc.Step(`^the exit code should be non-zero$`, testCtx.theExitCodeShouldBeNonZero)
}
