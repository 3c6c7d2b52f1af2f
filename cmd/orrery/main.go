// Command orrery opens an interactive 3D solar system viewer.
//
// Body data comes from the built-in catalog or a TOML file passed with
// --catalog. Settings are read from .orrery.toml, ORRERY_* environment
// variables, and CLI flags, in ascending priority.
package main

func main() {
	Execute()
}
