package inmemory

import (
	"sync"

	"easymod/internal/domain/moderation"
)

type Snapshot struct {
	CommandTotal   uint64            `json:"command_total"`
	CommandSuccess uint64            `json:"command_success"`
	CommandDenied  uint64            `json:"command_denied"`
	CommandFailure uint64            `json:"command_failure"`
	ByAction       map[string]uint64 `json:"by_action"`
	ByOutcome      map[string]uint64 `json:"by_outcome"`
}

type Recorder struct {
	mu        sync.Mutex
	success   uint64
	denied    uint64
	failure   uint64
	byAction  map[string]uint64
	byOutcome map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAction:  map[string]uint64{},
		byOutcome: map[string]uint64{},
	}
}

func (r *Recorder) RecordSuccess(action moderation.ActionKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	r.byAction[string(action)]++
	r.byOutcome["success"]++
}

func (r *Recorder) RecordDenied(action moderation.ActionKind, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.denied++
	r.byAction[string(action)]++
	r.byOutcome[outcome]++
}

func (r *Recorder) RecordFailure(action moderation.ActionKind, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
	r.byAction[string(action)]++
	r.byOutcome[outcome]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		CommandSuccess: r.success,
		CommandDenied:  r.denied,
		CommandFailure: r.failure,
		CommandTotal:   r.success + r.denied + r.failure,
		ByAction:       make(map[string]uint64, len(r.byAction)),
		ByOutcome:      make(map[string]uint64, len(r.byOutcome)),
	}
	for k, v := range r.byAction {
		out.ByAction[k] = v
	}
	for k, v := range r.byOutcome {
		out.ByOutcome[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
