// Package monitor is the interactive core of sysmon: UI state, key handling,
// rendering and the loop that ties them to the sampler.
//
// # Loop
//
// The Coordinator owns everything that changes. Each iteration it
//
//  1. starts a sample when one is due (at most one in flight),
//  2. waits for input, no longer than the frame interval,
//  3. applies any finished sample and the decoded command,
//  4. renders a frame and hands it to the Terminal.
//
// Sampling runs off the loop goroutine, but its result is only published by
// the loop, so a frame is always drawn from one snapshot and one UIState.
//
// # Rendering
//
// Render is a pure function from RenderInput to Frame. Frames are lines of
// styled spans with semantic roles; the terminal backends in package term
// decide how roles become colours.
//
// # History
//
// History keeps short ring buffers of CPU, memory and swap usage for the
// sparklines, and the last two network counters for throughput rates.
package monitor
