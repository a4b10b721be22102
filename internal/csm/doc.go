// Package csm is an internal package focused on solving a single task.
// Given an arbitrary instant and a decoded cron expression, what is the
// first following instant that fits the expression?
//
// The method CronStateMachine.NextAfter (cron_state_machine.go) computes
// the answer.
//
// A date can be thought of as a mixed-radix number. The search starts one
// second after the given instant and checks the fields from the most
// significant (month) to the least significant (second). The first field
// that does not match is moved forward to its next valid value, resetting
// all less significant fields to their minimum. When no greater valid value
// exists the field overflows, the next more significant field is
// incremented instead, and the lower fields are reset. After any change the
// check restarts from the month, because a moved field can invalidate a
// more significant one (a day 31 in a 30-day month, a leap day). The search
// terminates when every field matches (fn_find_forward.go).
//
// The day field is special: both day-of-month and day-of-week must match,
// and its radix depends on the month and the year. It is handled by the
// dayNode (day_node.go).
//
// The search is bounded by MaxYear and by MaxIterations, so a combination
// that can never match (for example February 30th) yields an error instead
// of looping forever.
package csm
