// Package chat implements the bus chat/control protocol.
package chat

// The protocol multiplexes message kind, sender identity and recipient
// set into the single 11-bit frame identifier:
//
//	bit 10   kind (0 = chat, 1 = device command)
//	bits 9-5 sender identity (one bit per participant)
//	bits 4-0 recipient set (bitmask over participants)
//
// Chat payloads are raw text, length carried by the frame itself.
// Command payloads are exactly two bytes: target device, value.
//
// A chat identifier with a zero sender field is indistinguishable from
// a command-kind frame and is classified as non-chat. This ambiguity
// comes from "no sender" and the command encoding sharing the zero
// pattern and is kept for wire compatibility.
