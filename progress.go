package atlaspack

import "sync"

// Stage identifies the pipeline step a progress report belongs to.
type Stage uint8

const (
	StageMeasure Stage = iota
	StagePack
	StageDecode
	StageComposite
)

func (s Stage) String() string {
	switch s {
	case StageMeasure:
		return "measure"
	case StagePack:
		return "pack"
	case StageDecode:
		return "decode"
	case StageComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// ProgressFunc observes pipeline progress. done counts the sprites finished in
// stage so far, out of total. Decode and composite run on worker goroutines,
// so a ProgressFunc must be safe for concurrent use.
type ProgressFunc func(stage Stage, done, total int)

// Milestones returns a ProgressFunc that calls logf each time a stage crosses
// another step percent, e.g. step 10 reports 10%, 20%, ... 100%. Reports may
// arrive out of order from concurrent workers; each milestone is logged once.
func Milestones(step int, logf func(format string, args ...any)) ProgressFunc {
	if logf == nil {
		return nil
	}
	if step <= 0 || step > 100 {
		step = 10
	}
	var (
		mu      sync.Mutex
		reached = make(map[Stage]int)
	)
	return func(stage Stage, done, total int) {
		if total <= 0 {
			return
		}
		pct := done * 100 / total / step * step
		mu.Lock()
		defer mu.Unlock()
		last, seen := reached[stage]
		if seen && pct <= last {
			return
		}
		if !seen && pct < step {
			return
		}
		for m := last + step; m <= pct; m += step {
			logf("%s: %d%%", stage, m)
		}
		reached[stage] = pct
	}
}
