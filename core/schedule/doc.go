// Package schedule computes when a recurring comparison runs next.
//
// A schedule is a preset (15min, 1hour, 6hours, 12hours, daily), an interval in
// minutes, or a standard five-field cron expression. Daily and cron schedules are
// evaluated in UTC.
package schedule
