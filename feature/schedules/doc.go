// Package schedules repeats comparisons on a schedule.
//
// A Task stores a comparison request with a preset, interval or cron schedule. The
// Service checks for due tasks every tick, runs each through the comparison runner
// and records the outcome, the run counters and the next run time. A task whose
// previous run is still executing is skipped rather than started twice.
package schedules
