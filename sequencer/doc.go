// See types.go for Config/Option/Strategy/Conflict/Resolution/
// ParallelGroup/Sequence, conflict.go/resolution.go/strategy.go/optimize.go
// for the four generation stages (run in that fixed order by Generate in
// sequencer.go), and metrics.go for the result-metrics formulas.
package sequencer
