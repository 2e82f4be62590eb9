package terminal

import "os"

// Env is a read-only view of environment variables. Detection never reads
// the process environment directly so callers and tests can supply a fixed
// set of variables.
type Env interface {
	Lookup(name string) (string, bool)
}

// OSEnv reads the process environment.
type OSEnv struct{}

// Lookup implements Env using os.LookupEnv.
func (OSEnv) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapEnv is an Env backed by a fixed map.
type MapEnv map[string]string

// Lookup implements Env.
func (m MapEnv) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Exists reports whether name is set to a non-empty value. A variable that
// is exported but empty counts as absent, since shells commonly leave
// stale empty exports behind.
func Exists(env Env, name string) bool {
	v, ok := env.Lookup(name)
	return ok && v != ""
}

// Value returns the value of name and whether it was set at all.
func Value(env Env, name string) (string, bool) {
	return env.Lookup(name)
}

// getenv returns the value of name, or "" when unset.
func getenv(env Env, name string) string {
	v, _ := env.Lookup(name)
	return v
}
