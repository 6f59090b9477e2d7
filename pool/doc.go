// Package pool
// Author: momentics <momentics@gmail.com>
//
// Packet and payload buffer pooling for hioload-netio.
// Datagram carriers are recycled through sync.Pool so that steady-state
// receive/send traffic allocates nothing per packet.
// See packetpool.go for implementation details.
package pool
