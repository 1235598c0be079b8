// Package trial implements the frame-locked trial scheduler.
//
// A trial is a fixed sequence of phases, each lasting a whole number of
// display refreshes:
//
//	FIXATION  random frames in [FixationMin, FixationMax]
//	STIMULUS  Stimulus frames
//	BLANK     1 frame
//	MASK      MaskCount repetitions of Mask frames, fresh noise per repetition
//	RESPONSE  Response frames of blank screen
//	COLLECT   one poll of the input source
//	FEEDBACK  "respond faster" prompt for a wall-clock pause, only on a miss
//
// # Frame Locking
//
// Every frame is one Present followed by one WaitForRefresh. The scheduler
// never consults a wall clock to decide when a phase ends; it counts frames.
// Measured refresh intervals are passed to the FrameObserver for diagnostics
// and are otherwise ignored.
//
// # Reaction Time
//
// The onset instant is read immediately before the first STIMULUS frame. The
// input source is polled once, after the response window, for presses of the
// two assigned keys since that instant. The earliest press wins and its offset
// is rounded to whole milliseconds.
//
// # Failure
//
// A display or input failure aborts the trial with a *PresentationError. No
// partial Result is produced: a trial with a broken frame sequence has no
// valid timing.
//
// The scheduler is single-threaded and is not cancellable mid-trial.
package trial
