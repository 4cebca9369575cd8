// Package bus defines the frame model and transport abstraction
// shared by all bus implementations.
package bus

// A frame is one atomic unit of transmission: an 11-bit identifier
// plus up to 8 bytes of data. The bus delivers frames at most once
// with no acknowledgement; reliability, ordering across senders and
// reassembly are out of scope for every implementation.
//
// Producer/consumer of frames is pkg/chat; implementations live in
// subpackages (mqttbus, membus).
