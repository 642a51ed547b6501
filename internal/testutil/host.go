package testutil

import (
	"bytes"
	"context"
	"io"
	"sync"

	"nn-go/internal/nn"
)

// Toast is one recorded notification.
type Toast struct {
	Kind    nn.ToastKind
	Message string
}

// RecordingNotifier is an nn.Notifier that remembers everything it was shown.
type RecordingNotifier struct {
	mu     sync.Mutex
	toasts []Toast
	alerts []string
}

func (n *RecordingNotifier) Toast(kind nn.ToastKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, Toast{Kind: kind, Message: message})
}

func (n *RecordingNotifier) Alert(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, message)
}

func (n *RecordingNotifier) Toasts() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Toast(nil), n.toasts...)
}

func (n *RecordingNotifier) Alerts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.alerts...)
}

// ScriptedPrompter answers password prompts from Answers in order. Once the
// answers run out it behaves like a dismissed prompt.
type ScriptedPrompter struct {
	mu      sync.Mutex
	Answers []string
	Prompts []nn.Prompt
}

func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{Answers: answers}
}

func (p *ScriptedPrompter) PromptPassword(_ context.Context, prompt nn.Prompt) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Prompts = append(p.Prompts, prompt)
	if len(p.Answers) == 0 {
		return "", nn.ErrPromptCancelled
	}
	answer := p.Answers[0]
	p.Answers = p.Answers[1:]
	return answer, nil
}

// PromptCount returns how many times the prompter was asked.
func (p *ScriptedPrompter) PromptCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Prompts)
}

// MemorySaver is an nn.FileSaver that keeps saved files in memory.
type MemorySaver struct {
	mu    sync.Mutex
	Err   error
	files map[string][]byte
}

func NewMemorySaver() *MemorySaver {
	return &MemorySaver{files: make(map[string][]byte)}
}

func (s *MemorySaver) Save(_ context.Context, data []byte, filename string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.files[filename] = append([]byte(nil), data...)
	return "/mem/" + filename, nil
}

// Files returns a copy of everything saved, keyed by file name.
func (s *MemorySaver) Files() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte, len(s.files))
	for k, v := range s.files {
		out[k] = v
	}
	return out
}

// BytesFile is an nn.FileHandle backed by a byte slice.
type BytesFile struct {
	FileName string
	Data     []byte
	OpenErr  error
}

func (f *BytesFile) Name() string { return f.FileName }

func (f *BytesFile) Open() (io.ReadCloser, error) {
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// StaticPicker always returns File. A nil File simulates a cancelled pick.
type StaticPicker struct {
	File    nn.FileHandle
	Err     error
	Accepts []string
}

func (p *StaticPicker) Pick(_ context.Context, accept string) (nn.FileHandle, error) {
	p.Accepts = append(p.Accepts, accept)
	if p.Err != nil {
		return nil, p.Err
	}
	return p.File, nil
}

// PickerFor returns a StaticPicker that yields a file named name holding contents.
func PickerFor(name, contents string) *StaticPicker {
	return &StaticPicker{File: &BytesFile{FileName: name, Data: []byte(contents)}}
}

// RecordingProgress is an nn.Progress that records the tasks it ran.
type RecordingProgress struct {
	mu    sync.Mutex
	tasks []nn.Task
}

func (p *RecordingProgress) Run(ctx context.Context, task nn.Task, fn func(ctx context.Context) error) error {
	p.mu.Lock()
	p.tasks = append(p.tasks, task)
	p.mu.Unlock()
	return fn(ctx)
}

func (p *RecordingProgress) Tasks() []nn.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]nn.Task(nil), p.tasks...)
}
