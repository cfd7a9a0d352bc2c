package main

// The governance engine lives in contract/ and is driven through the
// exported dispatch functions (exports.go, wasm builds only). A native
// build produces nothing runnable on its own; tests exercise the engine
// through the mock host.
func main() {}
