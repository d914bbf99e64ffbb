// Package worker provides the background worker that performs collaborator
// calls for wizard sessions.
//
// A wizard engine never calls its backend while reducing an event. Instead,
// each effect of a transition (sign-in, checkout) and the initial bootstrap
// fetch become tasks on a queue. Workers dequeue those tasks and hand them to
// an Executor, which makes the call and dispatches the outcome back into the
// engine as an ordinary event.
//
// Most applications never construct a Worker directly: wizflow.Session starts
// the configured number of worker goroutines and stops them on Close.
package worker
