// Package denonprotocol provides a Go client for the telnet control
// protocol of Denon AV receivers.
//
// # Protocol Overview
//
// The receiver listens on TCP port 23 and speaks a line-oriented ASCII
// protocol. A command is a short prefix naming a function (PW power, MV
// master volume, MU mute, SI input source, ...) followed by a parameter and
// a carriage return. The receiver reports state changes as status lines of
// the same shape, both in reply to commands and unprompted.
//
//	PW?      query power state     -> PWON
//	MV50     set master volume     -> MV50
//	SIDVD    select the DVD input  -> SIDVD
//
// # Basic Usage
//
//	client := denonprotocol.NewClient("192.168.1.20", 0)
//	if err := client.Connect(denonprotocol.DefaultConnectTimeout); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Disconnect()
//
//	cmd, err := denonprotocol.Classify("PW", "?")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	event, err := client.RequestWithTimeout(cmd, 2*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(event.Value) // ON
//
// # Event Handling
//
// To receive every status line:
//
//	dispatcher := denonprotocol.NewEventDispatcher(logger)
//	dispatcher.AddListenerFunc(func(event denonprotocol.Event) error {
//	    fmt.Printf("%s = %s\n", event.Prefix, event.Value)
//	    return nil
//	})
//	client.SetDispatcher(dispatcher)
//
// # Command Classification
//
// Classify picks the parameter form from the raw token: a token containing
// a bracket is a literal set value ("[50]" is written as "50"), the token
// "?" is a query, and anything else is written verbatim.
//
// # Thread Safety
//
// Client, EventDispatcher and Stats are safe for concurrent use from
// multiple goroutines.
package denonprotocol
