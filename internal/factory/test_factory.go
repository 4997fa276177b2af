package factory

import (
	"github.com/mcoot/kafanski-duel/internal/dependencies/mocks"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/services/auth"
	"github.com/mcoot/kafanski-duel/internal/storage/memory"
	"github.com/mcoot/kafanski-duel/internal/testutil"
)

// TestSecret signs tokens accepted by a TestApp
var TestSecret = []byte("kafana-test-secret")

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(testutil.Epoch)
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(
		store,
		mockClock,
		mockRandom,
		auth.Config{Secret: TestSecret},
		model.DefaultRules(),
		testutil.NopTracer(),
		testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
