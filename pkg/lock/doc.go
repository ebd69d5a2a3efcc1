// Package lock provides a keyed lock manager: a map from user-supplied keys
// to fair mutexes with reference-counted lifetime. An entry exists only
// while at least one holder or waiter references its key, so a balanced
// sequence of Lock/Unlock calls leaves the map empty.
//
// Each engine carries its own Manager, exposed through the EngineContext,
// so isolated engines never contend; the package-level functions serve code
// running outside any engine.
package lock
