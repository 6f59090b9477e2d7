// Package loop
// Author: momentics <momentics@gmail.com>
//
// The hioload-netio event loop: a single dedicated goroutine owning all
// port and resolver state, with a synchronous, goroutine-safe control API
// for arbitrary caller goroutines.
//
// Callers submit tasks (add receiver, add sender, remove port, resolve
// address) through a locked FIFO and block until the task reaches a
// terminal state. The loop goroutine drains the FIFO when its wake signal
// fires, mutates the port registry, and broadcasts completion. Port
// teardown is asynchronous: removed ports move from the open set to the
// closing set, and their completion notification releases any goroutine
// waiting for that specific port.
package loop
