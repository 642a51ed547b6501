package nn_test

import (
	"testing"

	"nn-go/internal/nn"
	"nn-go/internal/testutil"
)

// harness wires a Service to recording fakes. Tests adjust the fields before
// calling service.
type harness struct {
	store     *testutil.FakeBackupStore
	db        nn.Database
	saver     *testutil.MemorySaver
	picker    *testutil.StaticPicker
	prompter  *testutil.ScriptedPrompter
	notifier  *testutil.RecordingNotifier
	progress  *testutil.RecordingProgress
	vault     nn.Vault
	encryptor nn.Encryptor
	opts      nn.Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		store:    &testutil.FakeBackupStore{ExportData: []byte(`{"version":1,"data":{"notes":[]}}`)},
		db:       testutil.NewTestDatabase(t),
		saver:    testutil.NewMemorySaver(),
		picker:   &testutil.StaticPicker{},
		prompter: testutil.NewScriptedPrompter(),
		notifier: &testutil.RecordingNotifier{},
		progress: &testutil.RecordingProgress{},
		opts:     nn.Options{Target: "cli"},
	}
}

func (h *harness) service() *nn.Service {
	return nn.NewService(nn.Dependencies{
		Store:     h.store,
		Database:  h.db,
		Saver:     h.saver,
		Picker:    h.picker,
		Prompter:  h.prompter,
		Notifier:  h.notifier,
		Progress:  h.progress,
		Vault:     h.vault,
		Encryptor: h.encryptor,
		Clock:     testutil.FixedClock(),
		IDGen:     testutil.NewStubIDGenerator(),
	}, h.opts)
}

func toast(kind nn.ToastKind, msg string) testutil.Toast {
	return testutil.Toast{Kind: kind, Message: msg}
}
