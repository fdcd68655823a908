// Package statsview serves live runtime statistics (heap, goroutines, GC
// pauses) over HTTP while the emulator runs. It is only functional in
// builds made with the statsview tag:
//
//	go build -tags statsview ./cmd/retroarcade
//
// With the server launched, charts are at
//
//	http://localhost:12680/debug/statsview
//
// and the standard pprof endpoints at /debug/pprof/.
package statsview
