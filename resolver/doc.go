// Package resolver
// Author: momentics <momentics@gmail.com>
//
// Endpoint URI model and the asynchronous DNS resolver used by the
// hioload-netio event loop. Literal IP addresses resolve synchronously;
// DNS names are looked up on a background goroutine and completed through
// the loop's api.ResolveHandler.
package resolver
