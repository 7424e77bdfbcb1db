// Package jsruntime exposes a bridge to sandboxed JavaScript as a global
// object, the consumer surface guest documents actually program against.
//
// The VM is single-threaded: a dedicated loop goroutine owns it, and all
// bridge callbacks are marshalled back onto that goroutine before touching
// JavaScript. Scripts see three functions on the global (default "appo"):
//
//	appo.request(type, payload, function(err, data) { ... })
//	appo.notify(type, payload)
//	var unsubscribe = appo.subscribe(event, function(data) { ... })
//
// request errors arrive as {kind, channel, message} objects, mirroring the
// bridge's failure taxonomy.
package jsruntime
