// Package udp
// Author: momentics <momentics@gmail.com>
//
// Concrete UDP receiver and sender ports for the hioload-netio event loop.
//
// Both port variants implement api.Port. A receiver reads datagrams on a
// dedicated goroutine and hands them to the owner-supplied api.PacketWriter;
// a sender exposes an api.PacketWriter backed by a bounded outbound queue
// drained by a writer goroutine. Teardown follows the asynchronous close
// protocol: closing the socket unblocks the port goroutine, and the
// api.CloseHandler fires when that goroutine exits.
package udp
