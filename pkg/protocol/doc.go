// Package protocol defines the wire messages exchanged between the folio
// thin client and the server.
//
// Messages are JSON text frames carried over a single WebSocket per open
// page. The client sends one hello message on connect, then one event
// message per DOM event it forwards. The server answers with patch batches.
//
// # Client → Server
//
//	{"type":"hello","ids":["home","about",...],"counts":{"#menuBtn":1,".project-link":3}}
//	{"type":"input","target":"name","value":"Ad"}
//	{"type":"submit","fields":{"name":"Ada","email":"ada@example.com",...},"checked":true}
//	{"type":"scroll","scrollY":812,"sections":[{"id":"about","top":640},...]}
//
// # Server → Client
//
//	{"seq":7,"ops":[{"op":"addClass","target":"name","classes":["input-error"]}]}
//
// Each op is applied in order. Targets are element ids; the client ignores
// ops whose target does not exist.
package protocol
