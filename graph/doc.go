// See types.go, build.go, levels.go, timing.go, critical.go, cycle.go and
// validate.go for the Graph component's implementation, organized the way
// the teacher library splits a type's construction, computed passes, and
// query surface across separate files within one package.
package graph
