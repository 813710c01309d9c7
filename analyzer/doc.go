// See types.go for Config/Option/Result, explicit.go/implicit.go/
// resource.go/temporal.go/priority.go for the five inference passes (run in
// that fixed order by Analyze in analyzer.go), and keywords.go for the
// shared keyword-family and sequential-ordering tables the implicit pass
// consults.
package analyzer
