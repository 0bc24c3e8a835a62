// Package parfor runs loop bodies in parallel, one partition at a time.
//
// Range loops
//   - For(ctx, from, to, body, opts...): body(ctx, v) for v in [from, to).
//   - ForRange / MapRange: any Range progression (relation, combine operator, step).
//
// Values are dispatched to a worker pool in partitions of PartitionSize items.
// The caller waits for each partition before dispatching the next one, so at most
// PartitionSize items of one loop are in flight at a time, unless a partition wait
// times out: its items keep running while later partitions are dispatched.
//
// Sequence loops
//   - ForEach / MapEach consume an iter.Seq in chunks of PartitionSize elements,
//     each element on a goroutine of its own; a chunk is joined before the next
//     chunk is read.
//
// Outcome
// Item errors and panics never abort the loop and are not returned as the loop's
// error. They are collected, in completion order, in the returned Aggregator
// together with results of MapRange / MapEach. The loop error only reports
// invalid arguments, a pool that refused work, or cancellation of ctx.
//
// Timeouts
// WithTimeout bounds the wait for every partition. When it elapses the loop
// moves on and the remaining items keep running; they may still append to the
// Aggregator after the loop returned. WithCancelOnTimeout additionally cancels
// the context those items received.
//
// Defaults
//   - PartitionSize: number of logical CPUs
//   - Timeout: none
//   - Pool: a dynamic pool created per call (WithPool shares one, WithFixedPool bounds it)
//   - Results: completion order (WithPreserveOrder for input order)
//   - Metrics: discarded (WithMetrics); Logger: discarded (WithLogger)
//
// Single calls
// Submit runs one function on a pool and returns a Call; NewCall adapts any
// begin/end asynchronous operation to the same blocking Wait.
package parfor
