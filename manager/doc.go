// See types.go for Config/presets/Listener, fingerprint.go for the cache
// key, validate.go for the shared input-validation policy every public
// method applies first, manager.go for the six public entry points and the
// two caches, and background.go for the optional background-optimization
// loop.
package manager
