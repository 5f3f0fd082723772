// Package ingress reassembles frames from the companion byte stream.
//
// Producers (the serial, MQTT and websocket links) push raw bytes into a
// single-consumer queue with Manager.Write. The kernel task drains it with
// Manager.Process, which runs the framing state machine:
//
//	Frame  ::= STX TypeByte Body* ETX
//	Notification Body ::= PAYLOAD source PAYLOAD title PAYLOAD body
//	Syscall Body      ::= PAYLOAD command
//	Application Body  ::= PAYLOAD hex(checksum[4]) PAYLOAD hex(image)*
//
// Completed frames are dispatched to an EventHandler, application images are
// streamed into a Loader as they are decoded.
package ingress
