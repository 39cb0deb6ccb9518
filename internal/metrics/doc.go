// Package metrics provides streaming diagnostics over the late-time window of
// a field trajectory. Each accumulator implements dynamo.Metric: feed it the
// window samples in order with Observe, read Value, Reset to reuse.
package metrics
