// Package termcore is the core of a terminal emulator: it runs a child
// process on a pseudo-terminal, interprets its output into a screen model,
// maps host input back into bytes and tells a renderer what to redraw.
//
// # Quick Start
//
// Start a shell and wait for its output:
//
//	term, err := termcore.Open(
//	    termcore.WithCommand("/bin/sh"),
//	    termcore.WithSize(24, 80),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer term.Close()
//
//	term.Send([]byte("ls\r"))
//	for ev := range term.Events() {
//	    if _, ok := ev.(termcore.Woken); ok {
//	        frame, _ := term.Render(true)
//	        frame.Paint(surface)
//	    }
//	}
//
// # Architecture
//
// The package is organized around these types:
//
//   - [Session]: the child process, its PTY and the reader, writer and wait goroutines
//   - [Parser]: a go-ansicode decoder that turns output bytes into [Action] values
//   - [Screen]: the grid, cursor, modes, scrollback and selection; it applies actions
//   - [MapKey], [MapPaste], [MapMouse]: host input to application bytes
//   - [Renderer]: screen damage to [Frame] values painted on a [Surface]
//   - [EventBus]: title, bell, clipboard, exit and wake-up notifications
//   - [Terminal]: the composition of all of the above
//
// # Ownership
//
// A Screen is not safe for concurrent use. Terminal gives it a single owner
// goroutine: output chunks, resizes, host queries, child exit and close are
// serialized through one ordered queue. Use [Terminal.Do] to read the screen
// from another goroutine.
//
// A Screen can also be used on its own, without a process:
//
//	s := termcore.NewScreen(termcore.WithSize(24, 80))
//	s.WriteString("\x1b[31mHello\x1b[0m")
//	fmt.Println(s.LineContent(0)) // "Hello"
//
// # Dual Buffers
//
// The primary buffer keeps scrollback; the alternate buffer used by
// full-screen applications (CSI ?1049h) does not. Lines only enter
// scrollback when they scroll off the top of a full-screen region on the
// primary buffer.
//
// # Damage
//
// Every mutation marks the rows it touched. [Renderer.Frame] collects the
// damaged rows plus the rows of the current and previous cursor and
// selection, and clears the damage.
//
// # Providers
//
// Optional behavior is injected through small interfaces:
//
//   - [ResponseProvider]: where query answers (DSR, DA) are written
//   - [ScrollbackProvider]: storage for lines scrolled off the top
//   - [RecordingProvider]: capture of raw input bytes
//   - [SizeProvider]: pixel geometry for CSI 14 t and CSI 16 t
package termcore
