// Package ui contains the Bubble Tea program that shows a sectioned report
// next to its explanation. The Model type focuses on message orchestration
// while dedicated helpers own loading, navigation, and rendering.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function (key presses, mouse events, load results, animation frames).
//   - Navigation helpers (navigation.go) turn keys and clicks into calls on
//     the scroll.Synchronizer, which owns the focus and both pane offsets.
//     Animated transitions are driven by frameMsg ticks; guardExpiredMsg is
//     the fallback that releases the manual-scroll guard.
//   - The "/" prompt (jump.go) focuses a section by fuzzy title match.
//
// State ownership:
//   - Session holds the document catalog, the section definitions, the lines
//     of the document on screen, and the per-load focus tracker. Every load
//     bumps a sequence number; results of superseded loads are dropped.
//   - Loads run through the internal/ui/command bus as background commands
//     and come back as documentLoadedMsg.
//
// Backend interactions:
//   - An optional backend.Watcher streams file change events; the current
//     document or the definitions are reloaded with the focused section
//     preserved.
package ui
